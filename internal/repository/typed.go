package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/alexanderramin/pathway/internal/domain"
)

// Current payload schema versions. Envelopes with any other version are
// reported as ErrCorrupt.
const (
	CourseSchemaVersion   = 1
	ProgressSchemaVersion = 1
)

// typedSnapshot encodes one value type under a fixed key.
type typedSnapshot[T any] struct {
	snaps   SnapshotRepo
	key     string
	version int
	now     func() time.Time
}

func (s typedSnapshot[T]) get(ctx context.Context) (*T, error) {
	env, err := s.snaps.Get(ctx, s.key)
	if err != nil {
		return nil, err
	}
	if env.SchemaVersion != s.version {
		return nil, fmt.Errorf("%s schema version %d: %w", s.key, env.SchemaVersion, ErrCorrupt)
	}
	var v T
	if err := json.Unmarshal(env.Payload, &v); err != nil {
		return nil, fmt.Errorf("decoding %s: %v: %w", s.key, err, ErrCorrupt)
	}
	return &v, nil
}

func (s typedSnapshot[T]) put(ctx context.Context, v *T, persona domain.PersonaType) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", s.key, err)
	}
	env := Envelope{SchemaVersion: s.version, SavedAt: s.now().UTC(), Payload: data}
	return s.snaps.Put(ctx, s.key, env, persona)
}

type courseRepo struct {
	typedSnapshot[domain.Course]
}

// NewCourseRepo stores the course snapshot of a slot.
func NewCourseRepo(snaps SnapshotRepo) CourseRepo {
	return &courseRepo{typedSnapshot[domain.Course]{snaps: snaps, key: KeyCourse, version: CourseSchemaVersion, now: time.Now}}
}

func (r *courseRepo) Get(ctx context.Context) (*domain.Course, error) {
	c, err := r.get(ctx)
	if err != nil {
		return nil, err
	}
	if len(c.Chapters) == 0 {
		return nil, fmt.Errorf("course without chapters: %w", ErrCorrupt)
	}
	return c, nil
}

func (r *courseRepo) Save(ctx context.Context, c *domain.Course) error {
	return r.put(ctx, c, c.UserProfile.PersonaType)
}

func (r *courseRepo) Delete(ctx context.Context) error {
	return r.snaps.Delete(ctx, r.key)
}

func (r *courseRepo) Persona(ctx context.Context) (domain.PersonaType, error) {
	return r.snaps.Persona(ctx, r.key)
}

type progressRepo struct {
	typedSnapshot[domain.Progress]
}

// NewProgressRepo stores the progress snapshot of a slot.
func NewProgressRepo(snaps SnapshotRepo) ProgressRepo {
	return &progressRepo{typedSnapshot[domain.Progress]{snaps: snaps, key: KeyProgress, version: ProgressSchemaVersion, now: time.Now}}
}

func (r *progressRepo) Get(ctx context.Context) (*domain.Progress, error) {
	p, err := r.get(ctx)
	if err != nil {
		return nil, err
	}
	if p.CompletedChapters == nil {
		p.CompletedChapters = []int{}
	}
	return p, nil
}

func (r *progressRepo) Save(ctx context.Context, p *domain.Progress) error {
	return r.put(ctx, p, "")
}

func (r *progressRepo) Delete(ctx context.Context) error {
	return r.snaps.Delete(ctx, r.key)
}
