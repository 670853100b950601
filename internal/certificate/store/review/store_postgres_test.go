package review

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"certhub/internal/certificate/models"
	id "certhub/pkg/domain"
)

func newMockStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgres(sqlx.NewDb(db, "pgx")), mock
}

func TestAppendInsertsReview(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	entry := models.NewReview(id.NewCertificateID(), "reviewer-1", models.ReviewActionRejected,
		models.StatusSubmitted, models.StatusRejected, "", "wrong address",
		models.ReviewMetadata{ClientIP: "10.0.0.1", Device: "Firefox on Linux"}, now)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO reviews")).
		WithArgs(entry.ID.String(), entry.CertificateID.String(), "reviewer-1", "rejected", "", "wrong address",
			"submitted", "rejected", "10.0.0.1", "Firefox on Linux", now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.Append(context.Background(), entry))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListByCertificateScansRows(t *testing.T) {
	store, mock := newMockStore(t)
	certID := id.NewCertificateID()
	reviewID := id.NewReviewID()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM reviews")).
		WithArgs(certID.String()).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "certificate_id", "actor_id", "action", "comments", "reason",
			"from_status", "to_status", "client_ip", "device", "created_at",
		}).AddRow(reviewID.String(), certID.String(), "reviewer-1", "approved", "looks good", "",
			"submitted", "approved", "", "", now))

	got, err := store.ListByCertificate(context.Background(), certID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, reviewID, got[0].ID)
	assert.Equal(t, models.ReviewActionApproved, got[0].Action)
	assert.Equal(t, models.StatusApproved, got[0].ToStatus)
	require.NoError(t, mock.ExpectationsWereMet())
}
