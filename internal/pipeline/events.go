package pipeline

import "github.com/alexanderramin/pathway/internal/domain"

// State is a step of a generation run.
type State string

const (
	StateIdle             State = "IDLE"
	StateOutlineRequested State = "OUTLINE_REQUESTED"
	StateOutlineReady     State = "OUTLINE_READY"
	StateOutlineFailed    State = "OUTLINE_FAILED"
	StateChapterRequested State = "CHAPTER_REQUESTED"
	StateChapterReady     State = "CHAPTER_READY"
	StateChapterFallback  State = "CHAPTER_FALLBACK"
	StateCourseComplete   State = "COURSE_COMPLETE"
)

// Terminal reports whether no further events follow the state.
func (s State) Terminal() bool {
	return s == StateCourseComplete || s == StateOutlineFailed
}

type EventKind string

const (
	EventStatus   EventKind = "status"
	EventRetrying EventKind = "retrying"
	EventSnapshot EventKind = "snapshot"
	EventComplete EventKind = "complete"
	EventFailed   EventKind = "failed"
)

// Event reports run progress. Course and Progress are deep copies owned by
// the receiver.
type Event struct {
	Kind    EventKind
	State   State
	Message string

	// Chapter is the 1-based chapter the event refers to, 0 for the outline.
	Chapter int
	Total   int
	Attempt int

	Course   *domain.Course
	Progress *domain.Progress
	Cached   bool
	Err      error
}

// EventSink receives events synchronously on the run's goroutine.
type EventSink func(Event)

func discard(Event) {}
