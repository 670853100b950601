package review

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"certhub/internal/certificate/models"
	id "certhub/pkg/domain"
	txcontext "certhub/pkg/platform/tx"
)

// PostgresStore persists review entries. Rows are only ever inserted.
type PostgresStore struct {
	db *sqlx.DB
}

func NewPostgres(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *PostgresStore) Append(ctx context.Context, review models.Review) error {
	query := `
		INSERT INTO reviews (id, certificate_id, actor_id, action, comments, reason, from_status, to_status, client_ip, device, created_at)
		VALUES (:id, :certificate_id, :actor_id, :action, :comments, :reason, :from_status, :to_status, :client_ip, :device, :created_at)
	`
	bound, args, err := sqlx.Named(query, review)
	if err != nil {
		return fmt.Errorf("bind review insert: %w", err)
	}
	if _, err := s.execer(ctx).ExecContext(ctx, s.db.Rebind(bound), args...); err != nil {
		return fmt.Errorf("insert review: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByCertificate(ctx context.Context, certificateID id.CertificateID) ([]models.Review, error) {
	query := `
		SELECT id, certificate_id, actor_id, action, comments, reason, from_status, to_status, client_ip, device, created_at
		FROM reviews
		WHERE certificate_id = $1
		ORDER BY created_at ASC, id ASC
	`
	reviews := []models.Review{}
	if err := s.db.SelectContext(ctx, &reviews, query, certificateID); err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, nil
}
