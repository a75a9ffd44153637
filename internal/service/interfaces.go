package service

import (
	"context"
	"errors"

	"github.com/alexanderramin/pathway/internal/domain"
)

var (
	// ErrNoCourse indicates nothing is stored in the slot.
	ErrNoCourse = errors.New("no course saved")

	// ErrChapterNotFound indicates a chapter number outside the course.
	ErrChapterNotFound = errors.New("chapter not found")

	// ErrCourseIncomplete rejects progress updates before generation has
	// finished and the progress record exists.
	ErrCourseIncomplete = errors.New("course is still being generated")

	// ErrChapterNotReady rejects completing a chapter without content.
	ErrChapterNotReady = errors.New("chapter has no content yet")
)

// Snapshot is the stored course with its progress. Progress is nil while a
// course is still being generated.
type Snapshot struct {
	Course   *domain.Course   `json:"course"`
	Progress *domain.Progress `json:"progress"`
}

// CacheMatch selects how strictly a stored course must fit a profile to be
// reused.
type CacheMatch int

const (
	// MatchPersona reuses any course generated for the same persona type.
	MatchPersona CacheMatch = iota
	// MatchProfile additionally requires an identical profile.
	MatchProfile
)

// ProgressStore persists the single active course and its progress. Every
// call is one atomic read-modify-write.
type ProgressStore interface {
	// Load returns the stored snapshot. Corrupt snapshots are discarded and
	// reported as ErrNoCourse.
	Load(ctx context.Context) (*Snapshot, error)

	// SaveCourse writes the course, replacing any stored one.
	SaveCourse(ctx context.Context, c *domain.Course) error

	// Start writes a finished course together with fresh progress.
	Start(ctx context.Context, c *domain.Course) (*domain.Progress, error)

	RecordVisit(ctx context.Context, chapter int) (*domain.Progress, error)

	// RecordCompletion marks a chapter done. Completing a chapter twice is a
	// no-op; changed reports whether anything was written.
	RecordCompletion(ctx context.Context, chapter int) (p *domain.Progress, changed bool, err error)

	// Clear deletes the course and progress.
	Clear(ctx context.Context) error

	// Cached returns a reusable snapshot for the profile, discarding a stored
	// one that does not fit.
	Cached(ctx context.Context, profile domain.UserProfile, match CacheMatch) (*Snapshot, bool, error)
}
