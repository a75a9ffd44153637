package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"

	"github.com/alexanderramin/pathway/internal/db"
)

// FailOnNthExecUoW injects Err on the Nth ExecContext call, counted across
// all transactions it opens. Reads pass through.
type FailOnNthExecUoW struct {
	DB     *sql.DB
	FailOn int32
	Err    error

	execs atomic.Int32
}

func (u *FailOnNthExecUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	tx, err := u.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if err := fn(ctx, &failingTx{DBTX: tx, uow: u}); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

type failingTx struct {
	db.DBTX
	uow *FailOnNthExecUoW
}

func (f *failingTx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if f.uow.execs.Add(1) == f.uow.FailOn {
		return nil, f.uow.Err
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
