package certificate

import (
	"context"
	"database/sql"
	"encoding/json"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"certhub/internal/certificate/compliance"
	"certhub/internal/certificate/models"
	id "certhub/pkg/domain"
	"certhub/pkg/platform/sentinel"
)

func newMockStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgres(sqlx.NewDb(db, "pgx")), mock
}

var certificateRowColumns = []string{
	"id", "type", "status", "property_ref", "details", "created_by",
	"submitted_by", "submitted_at", "created_at", "updated_at", "version",
}

func TestFindByIDReturnsNotFound(t *testing.T) {
	store, mock := newMockStore(t)
	certID := id.NewCertificateID()

	mock.ExpectQuery(regexp.QuoteMeta("FROM certificates WHERE id = $1")).
		WithArgs(certID.String()).
		WillReturnError(sql.ErrNoRows)

	_, err := store.FindByID(context.Background(), certID)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByIDAssemblesAggregate(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	certID := id.NewCertificateID()
	boardID := id.NewBoardID()
	maxZs := 1.37

	detailsJSON, err := json.Marshal(details{
		Client:       models.ClientDetails{Name: "A. Client", Address: "1 High St"},
		Installation: models.InstallationDetails{Address: "1 High St"},
	})
	require.NoError(t, err)
	boardJSON, err := json.Marshal(models.Board{ID: boardID, CertificateID: certID, Name: "DB1"})
	require.NoError(t, err)
	circuitJSON, err := json.Marshal(models.Circuit{
		ID: id.NewCircuitID(), BoardID: boardID, Number: 1, Designation: "Lighting",
		DeviceType: compliance.DeviceTypeB, DeviceRating: 32, MaxZs: &maxZs,
	})
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta("FROM certificates WHERE id = $1")).
		WithArgs(certID.String()).
		WillReturnRows(sqlmock.NewRows(certificateRowColumns).AddRow(
			certID.String(), "periodic_condition_report", "draft", "PROP-1", detailsJSON, "inspector-1",
			nil, nil, now, now, int64(3),
		))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT data FROM boards")).
		WithArgs(certID.String()).
		WillReturnRows(sqlmock.NewRows([]string{"data"}).AddRow(boardJSON))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT data FROM circuits")).
		WithArgs(certID.String()).
		WillReturnRows(sqlmock.NewRows([]string{"data"}).AddRow(circuitJSON))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT data FROM observations")).
		WithArgs(certID.String()).
		WillReturnRows(sqlmock.NewRows([]string{"data"}))

	cert, err := store.FindByID(context.Background(), certID)
	require.NoError(t, err)
	assert.Equal(t, certID, cert.ID)
	assert.Equal(t, models.StatusDraft, cert.Status)
	assert.Equal(t, int64(3), cert.Version)
	assert.Equal(t, "A. Client", cert.Client.Name)
	assert.Nil(t, cert.SubmittedAt)
	require.Len(t, cert.Boards, 1)
	require.Len(t, cert.Boards[0].Circuits, 1)
	assert.Equal(t, 1.37, *cert.Boards[0].Circuits[0].MaxZs)
	assert.Empty(t, cert.Observations)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExecuteRejectsStaleVersion(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	certID := id.NewCertificateID()
	detailsJSON, err := json.Marshal(details{})
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM certificates WHERE id = $1 FOR UPDATE")).
		WithArgs(certID.String()).
		WillReturnRows(sqlmock.NewRows(certificateRowColumns).AddRow(
			certID.String(), "minor_works", "draft", "", detailsJSON, "inspector-1",
			nil, nil, now, now, int64(5),
		))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT data FROM boards")).WillReturnRows(sqlmock.NewRows([]string{"data"}))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT data FROM circuits")).WillReturnRows(sqlmock.NewRows([]string{"data"}))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT data FROM observations")).WillReturnRows(sqlmock.NewRows([]string{"data"}))
	mock.ExpectRollback()

	called := false
	_, err = store.Execute(context.Background(), certID, 4, nil, func(*models.Certificate) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, sentinel.ErrVersionMismatch)
	assert.False(t, called)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExecutePersistsAndPrunes(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	certID := id.NewCertificateID()
	detailsJSON, err := json.Marshal(details{})
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM certificates WHERE id = $1 FOR UPDATE")).
		WithArgs(certID.String()).
		WillReturnRows(sqlmock.NewRows(certificateRowColumns).AddRow(
			certID.String(), "minor_works", "draft", "", detailsJSON, "inspector-1",
			nil, nil, now, now, int64(2),
		))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT data FROM boards")).WillReturnRows(sqlmock.NewRows([]string{"data"}))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT data FROM circuits")).WillReturnRows(sqlmock.NewRows([]string{"data"}))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT data FROM observations")).WillReturnRows(sqlmock.NewRows([]string{"data"}))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE certificates SET")).
		WithArgs(certID.String(), "draft", "PROP-9", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			sqlmock.AnyArg(), int64(3), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM observations")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM circuits")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM boards")).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	updated, err := store.Execute(context.Background(), certID, 2, nil, func(c *models.Certificate) error {
		c.PropertyRef = "PROP-9"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), updated.Version)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateReportsDuplicate(t *testing.T) {
	store, mock := newMockStore(t)
	cert, err := models.NewCertificate(id.NewCertificateID(), models.TypeMinorWorks, "",
		models.ClientDetails{}, models.InstallationDetails{}, "inspector-1", time.Now())
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO certificates")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err = store.Create(context.Background(), cert)
	assert.ErrorIs(t, err, sentinel.ErrConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}
