package tx

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	dErrors "certhub/pkg/domain-errors"
)

const defaultTimeout = 5 * time.Second

// PostgresRunner runs a function inside one database transaction carried in
// ctx, so every store that consults From joins it. A transaction already in
// ctx is reused.
type PostgresRunner struct {
	db      *sqlx.DB
	timeout time.Duration
}

func NewPostgresRunner(db *sqlx.DB) *PostgresRunner {
	return &PostgresRunner{db: db, timeout: defaultTimeout}
}

func (r *PostgresRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	if _, ok := From(ctx); ok {
		return fn(ctx)
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(WithTx(ctx, tx)); err != nil {
		return err
	}
	return tx.Commit()
}
