package tx

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "certhub/pkg/domain-errors"
)

func newRunner(t *testing.T) (*PostgresRunner, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresRunner(sqlx.NewDb(db, "pgx")), mock
}

func TestRunInTxCommitsAndExposesTx(t *testing.T) {
	runner, mock := newRunner(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	err := runner.RunInTx(context.Background(), func(ctx context.Context) error {
		_, ok := From(ctx)
		assert.True(t, ok)
		return nil
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunInTxRollsBackOnError(t *testing.T) {
	runner, mock := newRunner(t)
	boom := errors.New("boom")
	mock.ExpectBegin()
	mock.ExpectRollback()

	err := runner.RunInTx(context.Background(), func(context.Context) error { return boom })
	assert.ErrorIs(t, err, boom)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunInTxJoinsExistingTx(t *testing.T) {
	runner, mock := newRunner(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	err := runner.RunInTx(context.Background(), func(outer context.Context) error {
		outerTx, _ := From(outer)
		return runner.RunInTx(outer, func(inner context.Context) error {
			innerTx, _ := From(inner)
			assert.Same(t, outerTx, innerTx)
			return nil
		})
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunInTxRejectsCancelledContext(t *testing.T) {
	runner, _ := newRunner(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := runner.RunInTx(ctx, func(context.Context) error { return nil })
	assert.True(t, dErrors.HasCode(err, dErrors.CodeTimeout))
}
