package service

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/pathway/internal/db"
	"github.com/alexanderramin/pathway/internal/domain"
	"github.com/alexanderramin/pathway/internal/logger"
	"github.com/alexanderramin/pathway/internal/repository"
)

type progressStore struct {
	uow      db.UnitOfWork
	slot     string
	log      *logger.Logger
	observer UseCaseObserver
	now      func() time.Time
}

// StoreOption customises a ProgressStore.
type StoreOption func(*progressStore)

func WithClock(now func() time.Time) StoreOption {
	return func(s *progressStore) { s.now = now }
}

func WithObserver(obs UseCaseObserver) StoreOption {
	return func(s *progressStore) { s.observer = obs }
}

// NewProgressStore creates a store for one slot.
func NewProgressStore(uow db.UnitOfWork, slot string, log *logger.Logger, opts ...StoreOption) ProgressStore {
	if log == nil {
		log = logger.Nop()
	}
	s := &progressStore{
		uow:      uow,
		slot:     slot,
		log:      log,
		observer: NoopUseCaseObserver{},
		now:      time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

type txRepos struct {
	snaps    repository.SnapshotRepo
	course   repository.CourseRepo
	progress repository.ProgressRepo
}

func (s *progressStore) repos(tx db.DBTX) txRepos {
	snaps := repository.NewSQLiteSnapshotRepo(tx, s.slot)
	return txRepos{
		snaps:    snaps,
		course:   repository.NewCourseRepo(snaps),
		progress: repository.NewProgressRepo(snaps),
	}
}

// loadTx reads the pair inside a transaction. A corrupt course wipes the
// slot; corrupt progress is dropped on its own.
func (s *progressStore) loadTx(ctx context.Context, r txRepos) (*Snapshot, error) {
	course, err := r.course.Get(ctx)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, ErrNoCourse
	case errors.Is(err, repository.ErrCorrupt):
		s.log.Warn("discarding corrupt course snapshot", "slot", s.slot, "error", err)
		if err := r.snaps.DeleteAll(ctx); err != nil {
			return nil, err
		}
		return nil, ErrNoCourse
	case err != nil:
		return nil, err
	}

	progress, err := r.progress.Get(ctx)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		progress = nil
	case errors.Is(err, repository.ErrCorrupt):
		s.log.Warn("discarding corrupt progress snapshot", "slot", s.slot, "error", err)
		if err := r.progress.Delete(ctx); err != nil {
			return nil, err
		}
		progress = nil
	case err != nil:
		return nil, err
	}
	if progress != nil && progress.CourseID != course.ID {
		s.log.Warn("discarding progress for another course", "slot", s.slot, "course_id", course.ID, "progress_course_id", progress.CourseID)
		if err := r.progress.Delete(ctx); err != nil {
			return nil, err
		}
		progress = nil
	}
	return &Snapshot{Course: course, Progress: progress}, nil
}

func (s *progressStore) Load(ctx context.Context) (*Snapshot, error) {
	var snap *Snapshot
	err := observe(ctx, s.observer, "store.load", nil, func() error {
		return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
			var err error
			snap, err = s.loadTx(ctx, s.repos(tx))
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

func (s *progressStore) SaveCourse(ctx context.Context, c *domain.Course) error {
	fields := map[string]any{"course_id": c.ID, "ready": c.ReadyCount()}
	return observe(ctx, s.observer, "store.save_course", fields, func() error {
		return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
			r := s.repos(tx)
			// A different course invalidates stored progress.
			if p, err := r.progress.Get(ctx); err == nil && p.CourseID != c.ID {
				if err := r.progress.Delete(ctx); err != nil {
					return err
				}
			}
			return r.course.Save(ctx, c)
		})
	})
}

func (s *progressStore) Start(ctx context.Context, c *domain.Course) (*domain.Progress, error) {
	p := domain.NewProgress(c.ID, s.now())
	err := observe(ctx, s.observer, "store.start", map[string]any{"course_id": c.ID}, func() error {
		return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
			r := s.repos(tx)
			if err := r.course.Save(ctx, c); err != nil {
				return err
			}
			return r.progress.Save(ctx, p)
		})
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// mutateProgress loads the pair and applies fn to the progress record. fn
// returns whether the progress changed; unchanged progress is not written.
// Progress only exists once a course has finished generating.
func (s *progressStore) mutateProgress(ctx context.Context, chapter int, fn func(ch domain.Chapter, p *domain.Progress, now time.Time) (bool, error)) (*domain.Progress, bool, error) {
	var (
		out     *domain.Progress
		changed bool
	)
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := s.repos(tx)
		snap, err := s.loadTx(ctx, r)
		if err != nil {
			return err
		}
		ch, ok := snap.Course.Chapter(chapter)
		if !ok {
			return ErrChapterNotFound
		}
		if snap.Progress == nil {
			return ErrCourseIncomplete
		}
		p := snap.Progress
		changed, err = fn(ch, p, s.now())
		if err != nil {
			return err
		}
		out = p
		if !changed {
			return nil
		}
		return r.progress.Save(ctx, p)
	})
	if err != nil {
		return nil, false, err
	}
	return out, changed, nil
}

func (s *progressStore) RecordVisit(ctx context.Context, chapter int) (*domain.Progress, error) {
	var p *domain.Progress
	err := observe(ctx, s.observer, "store.record_visit", map[string]any{"chapter": chapter}, func() error {
		var err error
		p, _, err = s.mutateProgress(ctx, chapter, func(_ domain.Chapter, p *domain.Progress, now time.Time) (bool, error) {
			p.Visit(chapter, now)
			return true, nil
		})
		return err
	})
	return p, err
}

func (s *progressStore) RecordCompletion(ctx context.Context, chapter int) (*domain.Progress, bool, error) {
	var (
		p       *domain.Progress
		changed bool
	)
	err := observe(ctx, s.observer, "store.record_completion", map[string]any{"chapter": chapter}, func() error {
		var err error
		p, changed, err = s.mutateProgress(ctx, chapter, func(ch domain.Chapter, p *domain.Progress, now time.Time) (bool, error) {
			if !ch.Ready() {
				return false, ErrChapterNotReady
			}
			return p.Complete(chapter, now), nil
		})
		return err
	})
	return p, changed, err
}

func (s *progressStore) Clear(ctx context.Context) error {
	return observe(ctx, s.observer, "store.clear", nil, func() error {
		return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
			return s.repos(tx).snaps.DeleteAll(ctx)
		})
	})
}

func (s *progressStore) Cached(ctx context.Context, profile domain.UserProfile, match CacheMatch) (*Snapshot, bool, error) {
	var (
		snap *Snapshot
		hit  bool
	)
	err := observe(ctx, s.observer, "store.cached", map[string]any{"persona": string(profile.PersonaType)}, func() error {
		return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
			r := s.repos(tx)

			persona, err := r.course.Persona(ctx)
			if errors.Is(err, repository.ErrNotFound) {
				return nil
			}
			if err != nil {
				return err
			}
			if persona != "" && persona != profile.PersonaType {
				s.log.Info("discarding cached course for another persona", "stored", string(persona), "requested", string(profile.PersonaType))
				return r.snaps.DeleteAll(ctx)
			}

			loaded, err := s.loadTx(ctx, r)
			if errors.Is(err, ErrNoCourse) {
				return nil
			}
			if err != nil {
				return err
			}
			if !reusable(loaded, profile, match) {
				s.log.Info("discarding cached course that does not fit the profile", "course_id", loaded.Course.ID)
				return r.snaps.DeleteAll(ctx)
			}
			snap, hit = loaded, true
			return nil
		})
	})
	if err != nil {
		return nil, false, err
	}
	return snap, hit, nil
}

func reusable(s *Snapshot, profile domain.UserProfile, match CacheMatch) bool {
	if s.Progress == nil || !s.Course.Complete() {
		return false
	}
	if s.Course.UserProfile.PersonaType != profile.PersonaType {
		return false
	}
	if match == MatchProfile && s.Course.UserProfile.Fingerprint() != profile.Fingerprint() {
		return false
	}
	return true
}
