// Package pipeline runs course generation: one outline request followed by
// strictly sequential chapter requests, each retried and then replaced by
// placeholder content, with the course persisted after every chapter.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/pathway/internal/domain"
	"github.com/alexanderramin/pathway/internal/intelligence"
	"github.com/alexanderramin/pathway/internal/logger"
	"github.com/alexanderramin/pathway/internal/service"
)

// Config bounds a run.
type Config struct {
	ChapterCount int
	Attempts     int
	Delay        time.Duration
}

// DefaultConfig matches the production course shape.
func DefaultConfig() Config {
	return Config{ChapterCount: 10, Attempts: 2, Delay: 2 * time.Second}
}

// RunOptions vary a single run.
type RunOptions struct {
	// Fresh skips the cache lookup.
	Fresh bool
	Match service.CacheMatch
}

// Result is the outcome of a finished run.
type Result struct {
	Course   *domain.Course
	Progress *domain.Progress
	Cached   bool
	// Fallbacks lists chapters that received placeholder content.
	Fallbacks []int
}

type Pipeline struct {
	gen     intelligence.CourseGenerator
	store   service.ProgressStore
	log     *logger.Logger
	cfg     Config
	sleeper Sleeper
	now     func() time.Time
}

type Option func(*Pipeline)

func WithSleeper(s Sleeper) Option {
	return func(p *Pipeline) { p.sleeper = s }
}

func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

func New(gen intelligence.CourseGenerator, store service.ProgressStore, log *logger.Logger, cfg Config, opts ...Option) *Pipeline {
	if log == nil {
		log = logger.Nop()
	}
	if cfg.ChapterCount <= 0 {
		cfg.ChapterCount = DefaultConfig().ChapterCount
	}
	if cfg.Attempts < 1 {
		cfg.Attempts = 1
	}
	p := &Pipeline{
		gen:     gen,
		store:   store,
		log:     log,
		cfg:     cfg,
		sleeper: TimerSleeper{},
		now:     time.Now,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// ChapterCount is the number of chapters every generated course has.
func (p *Pipeline) ChapterCount() int { return p.cfg.ChapterCount }

// Run generates a course for the profile, or returns the cached one. The
// returned error is an *OutlineError, a storage error, or the context's
// error when the caller abandoned the run; late results of an abandoned
// run are never persisted.
func (p *Pipeline) Run(ctx context.Context, profile domain.UserProfile, opts RunOptions, sink EventSink) (*Result, error) {
	if sink == nil {
		sink = discard
	}
	total := p.cfg.ChapterCount

	if !opts.Fresh {
		snap, hit, err := p.store.Cached(ctx, profile, opts.Match)
		if err != nil {
			return nil, fmt.Errorf("checking cached course: %w", err)
		}
		if hit {
			p.log.Info("reusing cached course", "course_id", snap.Course.ID, "persona", string(profile.PersonaType))
			sink(Event{
				Kind:     EventComplete,
				State:    StateCourseComplete,
				Message:  "Loaded your saved course.",
				Total:    len(snap.Course.Chapters),
				Course:   snap.Course.Clone(),
				Progress: snap.Progress.Clone(),
				Cached:   true,
			})
			return &Result{Course: snap.Course, Progress: snap.Progress, Cached: true}, nil
		}
	}

	sink(Event{Kind: EventStatus, State: StateOutlineRequested, Message: "Creating your personalized course outline...", Total: total})
	outline, err := p.outline(ctx, profile, total)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		oe := newOutlineError(err)
		p.log.Warn("outline generation failed", "error", err)
		sink(Event{Kind: EventFailed, State: StateOutlineFailed, Message: oe.Message, Total: total, Err: oe})
		return nil, oe
	}

	course := domain.NewCourse(outline, profile, p.now())
	p.log.Info("outline generated", "course_id", course.ID, "title", course.Title, "chapters", total)
	sink(Event{Kind: EventSnapshot, State: StateOutlineReady, Message: "Outline ready: " + course.Title, Total: total, Course: course.Clone()})
	p.persist(ctx, course)

	var fallbacks []int
	for i, stub := range outline.Chapters {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sink(Event{
			Kind:    EventStatus,
			State:   StateChapterRequested,
			Message: fmt.Sprintf("Generating Chapter %d of %d: %s", i+1, total, stub.Title),
			Chapter: stub.ChapterNumber,
			Total:   total,
		})

		ch, err := p.chapter(ctx, stub, profile, course.Title, total, sink)
		if err != nil {
			return nil, err
		}
		// A result arriving after the caller left is dropped.
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		course.Chapters[i] = ch
		state, msg := StateChapterReady, fmt.Sprintf("Chapter %d ready: %s", stub.ChapterNumber, ch.Title)
		if ch.Fallback {
			fallbacks = append(fallbacks, stub.ChapterNumber)
			state, msg = StateChapterFallback, fmt.Sprintf("Chapter %d used placeholder content", stub.ChapterNumber)
		}
		sink(Event{Kind: EventSnapshot, State: state, Message: msg, Chapter: stub.ChapterNumber, Total: total, Course: course.Clone()})
		p.persist(ctx, course)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	progress, err := p.store.Start(ctx, course)
	if err != nil {
		return nil, fmt.Errorf("saving finished course: %w", err)
	}
	p.log.Info("course generated", "course_id", course.ID, "fallbacks", len(fallbacks))
	sink(Event{
		Kind:     EventComplete,
		State:    StateCourseComplete,
		Message:  "Your course is ready.",
		Total:    total,
		Course:   course.Clone(),
		Progress: progress.Clone(),
	})
	return &Result{Course: course, Progress: progress, Fallbacks: fallbacks}, nil
}

func (p *Pipeline) outline(ctx context.Context, profile domain.UserProfile, n int) (domain.CourseOutline, error) {
	outline, err := p.gen.GenerateOutline(ctx, profile, n)
	if err != nil {
		return domain.CourseOutline{}, err
	}
	if got := len(outline.Chapters); got != n {
		return domain.CourseOutline{}, fmt.Errorf("%w: got %d chapters, want %d", ErrOutlineCardinality, got, n)
	}
	return outline, nil
}

// chapter makes up to cfg.Attempts requests and falls back to placeholder
// content. It only fails when ctx ends.
func (p *Pipeline) chapter(ctx context.Context, stub domain.ChapterStub, profile domain.UserProfile, courseTitle string, total int, sink EventSink) (domain.Chapter, error) {
	var lastErr error
	for attempt := 1; attempt <= p.cfg.Attempts; attempt++ {
		ch, err := p.gen.GenerateChapter(ctx, stub, profile, courseTitle)
		if err == nil {
			return ch, nil
		}
		if ctx.Err() != nil {
			return domain.Chapter{}, ctx.Err()
		}
		lastErr = err
		p.log.Warn("chapter attempt failed", "chapter", stub.ChapterNumber, "attempt", attempt, "error", err)

		if attempt == p.cfg.Attempts {
			break
		}
		sink(Event{
			Kind:    EventRetrying,
			State:   StateChapterRequested,
			Message: fmt.Sprintf("Retrying Chapter %d (attempt %d of %d)...", stub.ChapterNumber, attempt+1, p.cfg.Attempts),
			Chapter: stub.ChapterNumber,
			Total:   total,
			Attempt: attempt + 1,
			Err:     err,
		})
		if err := p.sleeper.Sleep(ctx, p.cfg.Delay); err != nil {
			return domain.Chapter{}, err
		}
	}
	p.log.Warn("using placeholder chapter", "chapter", stub.ChapterNumber, "error", lastErr)
	return intelligence.FallbackChapter(stub), nil
}

// persist saves the in-progress course. Failures are logged; the run keeps
// going and the final save reports its own error.
func (p *Pipeline) persist(ctx context.Context, c *domain.Course) {
	if err := p.store.SaveCourse(ctx, c); err != nil && !errors.Is(err, context.Canceled) {
		p.log.Warn("saving course snapshot failed", "course_id", c.ID, "error", err)
	}
}
