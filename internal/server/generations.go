package server

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/pathway/internal/domain"
	"github.com/alexanderramin/pathway/internal/logger"
	"github.com/alexanderramin/pathway/internal/pipeline"
)

// CourseRunner is the part of the generation pipeline the server drives.
type CourseRunner interface {
	Run(ctx context.Context, profile domain.UserProfile, opts pipeline.RunOptions, sink pipeline.EventSink) (*pipeline.Result, error)
	ChapterCount() int
}

// GenerationStatus describes the latest background run.
type GenerationStatus struct {
	RunID     string         `json:"runId"`
	State     pipeline.State `json:"state"`
	Message   string         `json:"message"`
	Chapter   int            `json:"chapter,omitempty"`
	Total     int            `json:"total"`
	Running   bool           `json:"running"`
	Error     string         `json:"error,omitempty"`
	Hint      string         `json:"hint,omitempty"`
	Fallbacks []int          `json:"fallbacks,omitempty"`
	StartedAt time.Time      `json:"startedAt"`
}

type run struct {
	id     string
	cancel context.CancelFunc
	done   chan struct{}
}

// generations runs at most one course generation at a time. Starting a new
// run cancels the current one and waits for it to stop; events from a run
// that is no longer current are ignored.
type generations struct {
	runner CourseRunner
	log    *logger.Logger
	base   context.Context

	// startMu serializes start and reset.
	startMu sync.Mutex
	mu      sync.Mutex
	current *run
	status  GenerationStatus
}

func newGenerations(base context.Context, runner CourseRunner, log *logger.Logger) *generations {
	return &generations{runner: runner, log: log, base: base}
}

func (g *generations) start(profile domain.UserProfile, opts pipeline.RunOptions) GenerationStatus {
	g.startMu.Lock()
	defer g.startMu.Unlock()
	g.stop()

	ctx, cancel := context.WithCancel(g.base)
	r := &run{id: uuid.NewString(), cancel: cancel, done: make(chan struct{})}

	g.mu.Lock()
	g.current = r
	g.status = GenerationStatus{
		RunID:     r.id,
		State:     pipeline.StateIdle,
		Message:   "Starting course generation...",
		Total:     g.runner.ChapterCount(),
		Running:   true,
		StartedAt: time.Now().UTC(),
	}
	st := g.status
	g.mu.Unlock()

	g.log.Info("course generation started", "run_id", r.id, "persona", string(profile.PersonaType))
	go g.execute(ctx, r, profile, opts)
	return st
}

func (g *generations) execute(ctx context.Context, r *run, profile domain.UserProfile, opts pipeline.RunOptions) {
	defer close(r.done)
	defer r.cancel()

	res, err := g.runner.Run(ctx, profile, opts, func(ev pipeline.Event) {
		g.update(r.id, func(st *GenerationStatus) {
			st.State = ev.State
			st.Message = ev.Message
			st.Chapter = ev.Chapter
			if ev.Total > 0 {
				st.Total = ev.Total
			}
		})
	})

	g.update(r.id, func(st *GenerationStatus) {
		st.Running = false
		if res != nil {
			st.Fallbacks = res.Fallbacks
		}
		if err == nil {
			return
		}
		st.Error = err.Error()
		var oe *pipeline.OutlineError
		if errors.As(err, &oe) {
			st.Error = oe.Message
			st.Hint = oe.Hint()
		}
	})
	switch {
	case err == nil:
		g.log.Info("course generation finished", "run_id", r.id)
	case errors.Is(err, context.Canceled):
		g.log.Info("course generation cancelled", "run_id", r.id)
	default:
		g.log.Warn("course generation failed", "run_id", r.id, "error", err)
	}
}

func (g *generations) update(id string, fn func(*GenerationStatus)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.current == nil || g.current.id != id {
		return
	}
	fn(&g.status)
}

// stop cancels the current run, if any, and waits for it to return.
func (g *generations) stop() {
	g.mu.Lock()
	r := g.current
	g.mu.Unlock()
	if r == nil {
		return
	}
	r.cancel()
	<-r.done
}

// reset stops the current run and forgets its status.
func (g *generations) reset() {
	g.startMu.Lock()
	defer g.startMu.Unlock()
	g.stop()
	g.mu.Lock()
	g.current = nil
	g.status = GenerationStatus{}
	g.mu.Unlock()
}

// snapshot returns the latest status; ok is false before the first run.
func (g *generations) snapshot() (GenerationStatus, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	st := g.status
	st.Fallbacks = append([]int(nil), g.status.Fallbacks...)
	return st, g.current != nil
}

// wait blocks until the current run returns.
func (g *generations) wait() {
	g.mu.Lock()
	r := g.current
	g.mu.Unlock()
	if r != nil {
		<-r.done
	}
}
