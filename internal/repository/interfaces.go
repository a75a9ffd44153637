package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/alexanderramin/pathway/internal/domain"
)

// Snapshot keys within a slot.
const (
	KeyCourse   = "course"
	KeyProgress = "progress"
)

// Envelope wraps every stored payload.
type Envelope struct {
	SchemaVersion int             `json:"schemaVersion"`
	SavedAt       time.Time       `json:"savedAt"`
	Payload       json.RawMessage `json:"payload"`
}

// SnapshotRepo is a key-value store of envelopes scoped to one slot.
type SnapshotRepo interface {
	Get(ctx context.Context, key string) (*Envelope, error)
	Put(ctx context.Context, key string, env Envelope, persona domain.PersonaType) error
	Delete(ctx context.Context, key string) error
	DeleteAll(ctx context.Context) error
	Persona(ctx context.Context, key string) (domain.PersonaType, error)
}

type CourseRepo interface {
	Get(ctx context.Context) (*domain.Course, error)
	Save(ctx context.Context, c *domain.Course) error
	Delete(ctx context.Context) error
	// Persona returns the persona of the stored course without decoding it.
	Persona(ctx context.Context) (domain.PersonaType, error)
}

type ProgressRepo interface {
	Get(ctx context.Context) (*domain.Progress, error)
	Save(ctx context.Context, p *domain.Progress) error
	Delete(ctx context.Context) error
}
