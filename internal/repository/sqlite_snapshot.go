package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/pathway/internal/db"
	"github.com/alexanderramin/pathway/internal/domain"
)

// SQLiteSnapshotRepo implements SnapshotRepo over the snapshots table.
type SQLiteSnapshotRepo struct {
	db   db.DBTX
	slot string
}

func NewSQLiteSnapshotRepo(conn db.DBTX, slot string) *SQLiteSnapshotRepo {
	return &SQLiteSnapshotRepo{db: conn, slot: slot}
}

func (r *SQLiteSnapshotRepo) Get(ctx context.Context, key string) (*Envelope, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT schema_version, saved_at, payload FROM snapshots WHERE slot = ? AND key = ?`,
		r.slot, key)

	var (
		env     Envelope
		savedAt string
		payload string
	)
	if err := row.Scan(&env.SchemaVersion, &savedAt, &payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("snapshot %s/%s: %w", r.slot, key, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning snapshot %s/%s: %w", r.slot, key, err)
	}
	t, err := time.Parse(time.RFC3339Nano, savedAt)
	if err != nil {
		return nil, fmt.Errorf("snapshot %s/%s saved_at %q: %w", r.slot, key, savedAt, ErrCorrupt)
	}
	env.SavedAt = t
	env.Payload = []byte(payload)
	return &env, nil
}

func (r *SQLiteSnapshotRepo) Put(ctx context.Context, key string, env Envelope, persona domain.PersonaType) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO snapshots (slot, key, schema_version, saved_at, payload, persona)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(slot, key) DO UPDATE SET
			schema_version = excluded.schema_version,
			saved_at = excluded.saved_at,
			payload = excluded.payload,
			persona = excluded.persona`,
		r.slot, key, env.SchemaVersion, env.SavedAt.UTC().Format(time.RFC3339Nano), string(env.Payload), string(persona))
	if err != nil {
		return fmt.Errorf("writing snapshot %s/%s: %w", r.slot, key, err)
	}
	return nil
}

func (r *SQLiteSnapshotRepo) Delete(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM snapshots WHERE slot = ? AND key = ?`, r.slot, key); err != nil {
		return fmt.Errorf("deleting snapshot %s/%s: %w", r.slot, key, err)
	}
	return nil
}

func (r *SQLiteSnapshotRepo) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM snapshots WHERE slot = ?`, r.slot); err != nil {
		return fmt.Errorf("clearing slot %s: %w", r.slot, err)
	}
	return nil
}

func (r *SQLiteSnapshotRepo) Persona(ctx context.Context, key string) (domain.PersonaType, error) {
	var persona string
	err := r.db.QueryRowContext(ctx,
		`SELECT persona FROM snapshots WHERE slot = ? AND key = ?`, r.slot, key).Scan(&persona)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("snapshot %s/%s: %w", r.slot, key, ErrNotFound)
		}
		return "", fmt.Errorf("reading persona %s/%s: %w", r.slot, key, err)
	}
	return domain.PersonaType(persona), nil
}
