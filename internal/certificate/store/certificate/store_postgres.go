package certificate

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"certhub/internal/certificate/models"
	id "certhub/pkg/domain"
	"certhub/pkg/platform/sentinel"
	txcontext "certhub/pkg/platform/tx"
)

// PostgresStore persists certificates across four tables. The certificate's
// own descriptive fields live in a JSONB details column; boards, circuits and
// observations each get a row keyed by id with their body in JSONB.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgres constructs a PostgreSQL-backed certificate store.
func NewPostgres(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type queryer interface {
	sqlx.ExtContext
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
}

func (s *PostgresStore) queryer(ctx context.Context) queryer {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

// details is the JSONB shape of the certificate's descriptive fields.
type details struct {
	Client            models.ClientDetails         `json:"client"`
	Installation      models.InstallationDetails   `json:"installation"`
	Inspector         models.InspectorDetails      `json:"inspector"`
	Supply            models.SupplyCharacteristics `json:"supply"`
	OverallAssessment models.OverallAssessment     `json:"overall_assessment,omitempty"`
	Sections          models.Sections              `json:"sections"`
	Approval          models.Approval              `json:"approval"`
}

type certificateRow struct {
	ID          id.CertificateID `db:"id"`
	Type        string           `db:"type"`
	Status      string           `db:"status"`
	PropertyRef string           `db:"property_ref"`
	Details     []byte           `db:"details"`
	CreatedBy   string           `db:"created_by"`
	SubmittedBy sql.NullString   `db:"submitted_by"`
	SubmittedAt sql.NullTime     `db:"submitted_at"`
	CreatedAt   time.Time        `db:"created_at"`
	UpdatedAt   time.Time        `db:"updated_at"`
	Version     int64            `db:"version"`
}

type childRow struct {
	Data []byte `db:"data"`
}

const certificateColumns = `id, type, status, property_ref, details, created_by, submitted_by, submitted_at, created_at, updated_at, version`

func (s *PostgresStore) Create(ctx context.Context, cert *models.Certificate) error {
	if cert == nil {
		return fmt.Errorf("certificate is required")
	}
	return s.inTx(ctx, func(ctx context.Context, q queryer) error {
		row, err := toRow(cert)
		if err != nil {
			return err
		}
		query := `
			INSERT INTO certificates (` + certificateColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			ON CONFLICT (id) DO NOTHING
		`
		res, err := q.ExecContext(ctx, query,
			row.ID, row.Type, row.Status, row.PropertyRef, row.Details, row.CreatedBy,
			row.SubmittedBy, row.SubmittedAt, row.CreatedAt, row.UpdatedAt, row.Version,
		)
		if err != nil {
			return fmt.Errorf("insert certificate: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("insert certificate rows affected: %w", err)
		}
		if affected == 0 {
			return sentinel.ErrConflict
		}
		return s.saveChildren(ctx, q, cert)
	})
}

func (s *PostgresStore) FindByID(ctx context.Context, certificateID id.CertificateID) (*models.Certificate, error) {
	return s.load(ctx, s.queryer(ctx), certificateID, false)
}

// List returns matching certificates, most recently created first.
func (s *PostgresStore) List(ctx context.Context, filter models.ListFilter) ([]*models.Certificate, error) {
	q := s.queryer(ctx)
	query := `
		SELECT id FROM certificates
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC, id ASC
		LIMIT $2
	`
	var ids []id.CertificateID
	if err := q.SelectContext(ctx, &ids, query, string(filter.Status), filter.EffectiveLimit()); err != nil {
		return nil, fmt.Errorf("list certificates: %w", err)
	}
	out := make([]*models.Certificate, 0, len(ids))
	for _, certificateID := range ids {
		cert, err := s.load(ctx, q, certificateID, false)
		if errors.Is(err, sentinel.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, cert)
	}
	return out, nil
}

// Execute locks the certificate row, applies validate and mutate to the loaded
// aggregate and writes it back with the version bumped. It joins a transaction
// carried in ctx or opens its own.
func (s *PostgresStore) Execute(
	ctx context.Context,
	certificateID id.CertificateID,
	expectedVersion int64,
	validate func(*models.Certificate) error,
	mutate func(*models.Certificate) error,
) (*models.Certificate, error) {
	var result *models.Certificate
	err := s.inTx(ctx, func(ctx context.Context, q queryer) error {
		cert, err := s.load(ctx, q, certificateID, true)
		if err != nil {
			return err
		}
		if expectedVersion != 0 && cert.Version != expectedVersion {
			return sentinel.ErrVersionMismatch
		}
		if validate != nil {
			if err := validate(cert); err != nil {
				return err
			}
		}
		if mutate != nil {
			if err := mutate(cert); err != nil {
				return err
			}
		}
		previous := cert.Version
		cert.Version = previous + 1
		if err := s.update(ctx, q, cert, previous); err != nil {
			return err
		}
		if err := s.saveChildren(ctx, q, cert); err != nil {
			return err
		}
		result = cert
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// inTx runs fn on the transaction in ctx, or on a new one committed on success.
func (s *PostgresStore) inTx(ctx context.Context, fn func(ctx context.Context, q queryer) error) error {
	if tx, ok := txcontext.From(ctx); ok {
		return fn(ctx, tx)
	}
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()
	if err := fn(txcontext.WithTx(ctx, tx), tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (s *PostgresStore) load(ctx context.Context, q queryer, certificateID id.CertificateID, forUpdate bool) (*models.Certificate, error) {
	query := `SELECT ` + certificateColumns + ` FROM certificates WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	var row certificateRow
	if err := q.GetContext(ctx, &row, query, certificateID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find certificate: %w", err)
	}
	cert, err := fromRow(row)
	if err != nil {
		return nil, err
	}

	var boardRows []childRow
	if err := q.SelectContext(ctx, &boardRows,
		`SELECT data FROM boards WHERE certificate_id = $1 ORDER BY sort_order ASC, id ASC`, certificateID); err != nil {
		return nil, fmt.Errorf("load boards: %w", err)
	}
	var circuitRows []childRow
	if err := q.SelectContext(ctx, &circuitRows,
		`SELECT data FROM circuits WHERE certificate_id = $1 ORDER BY sort_order ASC, id ASC`, certificateID); err != nil {
		return nil, fmt.Errorf("load circuits: %w", err)
	}
	var observationRows []childRow
	if err := q.SelectContext(ctx, &observationRows,
		`SELECT data FROM observations WHERE certificate_id = $1 ORDER BY sort_order ASC, item_number ASC`, certificateID); err != nil {
		return nil, fmt.Errorf("load observations: %w", err)
	}

	boardIndex := make(map[id.BoardID]int, len(boardRows))
	cert.Boards = make([]models.Board, 0, len(boardRows))
	for _, r := range boardRows {
		var b models.Board
		if err := json.Unmarshal(r.Data, &b); err != nil {
			return nil, fmt.Errorf("decode board: %w", err)
		}
		b.Circuits = []models.Circuit{}
		boardIndex[b.ID] = len(cert.Boards)
		cert.Boards = append(cert.Boards, b)
	}
	for _, r := range circuitRows {
		var c models.Circuit
		if err := json.Unmarshal(r.Data, &c); err != nil {
			return nil, fmt.Errorf("decode circuit: %w", err)
		}
		i, ok := boardIndex[c.BoardID]
		if !ok {
			return nil, fmt.Errorf("circuit %s references missing board %s", c.ID, c.BoardID)
		}
		cert.Boards[i].Circuits = append(cert.Boards[i].Circuits, c)
	}
	cert.Observations = make([]models.Observation, 0, len(observationRows))
	for _, r := range observationRows {
		var o models.Observation
		if err := json.Unmarshal(r.Data, &o); err != nil {
			return nil, fmt.Errorf("decode observation: %w", err)
		}
		cert.Observations = append(cert.Observations, o)
	}
	return cert, nil
}

func (s *PostgresStore) update(ctx context.Context, q queryer, cert *models.Certificate, previousVersion int64) error {
	row, err := toRow(cert)
	if err != nil {
		return err
	}
	query := `
		UPDATE certificates SET
			status = $2,
			property_ref = $3,
			details = $4,
			submitted_by = $5,
			submitted_at = $6,
			updated_at = $7,
			version = $8
		WHERE id = $1 AND version = $9
	`
	res, err := q.ExecContext(ctx, query,
		row.ID, row.Status, row.PropertyRef, row.Details, row.SubmittedBy, row.SubmittedAt,
		row.UpdatedAt, row.Version, previousVersion,
	)
	if err != nil {
		return fmt.Errorf("update certificate: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update certificate rows affected: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrVersionMismatch
	}
	return nil
}

// saveChildren upserts every board, circuit and observation and prunes rows
// that are no longer part of the aggregate.
func (s *PostgresStore) saveChildren(ctx context.Context, q queryer, cert *models.Certificate) error {
	boardIDs := make([]string, 0, len(cert.Boards))
	var circuitIDs []string
	for _, b := range cert.Boards {
		boardIDs = append(boardIDs, b.ID.String())
		body := b
		body.Circuits = nil
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode board: %w", err)
		}
		if _, err := q.ExecContext(ctx, `
			INSERT INTO boards (id, certificate_id, sort_order, data)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (id) DO UPDATE SET sort_order = EXCLUDED.sort_order, data = EXCLUDED.data
		`, b.ID, cert.ID, b.SortOrder, data); err != nil {
			return fmt.Errorf("upsert board: %w", err)
		}
		for _, c := range b.Circuits {
			circuitIDs = append(circuitIDs, c.ID.String())
			data, err := json.Marshal(c)
			if err != nil {
				return fmt.Errorf("encode circuit: %w", err)
			}
			if _, err := q.ExecContext(ctx, `
				INSERT INTO circuits (id, certificate_id, board_id, number, sort_order, data)
				VALUES ($1, $2, $3, $4, $5, $6)
				ON CONFLICT (id) DO UPDATE SET number = EXCLUDED.number, sort_order = EXCLUDED.sort_order, data = EXCLUDED.data
			`, c.ID, cert.ID, b.ID, c.Number, c.SortOrder, data); err != nil {
				return fmt.Errorf("upsert circuit: %w", err)
			}
		}
	}

	observationIDs := make([]string, 0, len(cert.Observations))
	for _, o := range cert.Observations {
		observationIDs = append(observationIDs, o.ID.String())
		data, err := json.Marshal(o)
		if err != nil {
			return fmt.Errorf("encode observation: %w", err)
		}
		if _, err := q.ExecContext(ctx, `
			INSERT INTO observations (id, certificate_id, code, item_number, sort_order, data)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (id) DO UPDATE SET code = EXCLUDED.code, item_number = EXCLUDED.item_number,
				sort_order = EXCLUDED.sort_order, data = EXCLUDED.data
		`, o.ID, cert.ID, string(o.Code), o.ItemNumber, o.SortOrder, data); err != nil {
			return fmt.Errorf("upsert observation: %w", err)
		}
	}

	if _, err := q.ExecContext(ctx,
		`DELETE FROM observations WHERE certificate_id = $1 AND NOT (id::text = ANY($2))`,
		cert.ID, pq.Array(observationIDs)); err != nil {
		return fmt.Errorf("prune observations: %w", err)
	}
	if _, err := q.ExecContext(ctx,
		`DELETE FROM circuits WHERE certificate_id = $1 AND NOT (id::text = ANY($2))`,
		cert.ID, pq.Array(circuitIDs)); err != nil {
		return fmt.Errorf("prune circuits: %w", err)
	}
	if _, err := q.ExecContext(ctx,
		`DELETE FROM boards WHERE certificate_id = $1 AND NOT (id::text = ANY($2))`,
		cert.ID, pq.Array(boardIDs)); err != nil {
		return fmt.Errorf("prune boards: %w", err)
	}
	return nil
}

func toRow(cert *models.Certificate) (certificateRow, error) {
	body, err := json.Marshal(details{
		Client:            cert.Client,
		Installation:      cert.Installation,
		Inspector:         cert.Inspector,
		Supply:            cert.Supply,
		OverallAssessment: cert.OverallAssessment,
		Sections:          cert.Sections,
		Approval:          cert.Approval,
	})
	if err != nil {
		return certificateRow{}, fmt.Errorf("encode certificate details: %w", err)
	}
	row := certificateRow{
		ID:          cert.ID,
		Type:        string(cert.Type),
		Status:      string(cert.Status),
		PropertyRef: cert.PropertyRef,
		Details:     body,
		CreatedBy:   cert.CreatedBy,
		CreatedAt:   cert.CreatedAt,
		UpdatedAt:   cert.UpdatedAt,
		Version:     cert.Version,
	}
	if cert.SubmittedBy != "" {
		row.SubmittedBy = sql.NullString{String: cert.SubmittedBy, Valid: true}
	}
	if cert.SubmittedAt != nil {
		row.SubmittedAt = sql.NullTime{Time: *cert.SubmittedAt, Valid: true}
	}
	return row, nil
}

func fromRow(row certificateRow) (*models.Certificate, error) {
	var d details
	if err := json.Unmarshal(row.Details, &d); err != nil {
		return nil, fmt.Errorf("decode certificate details: %w", err)
	}
	cert := &models.Certificate{
		ID:                row.ID,
		Type:              models.CertificateType(row.Type),
		Status:            models.Status(row.Status),
		PropertyRef:       row.PropertyRef,
		Client:            d.Client,
		Installation:      d.Installation,
		Inspector:         d.Inspector,
		Supply:            d.Supply,
		OverallAssessment: d.OverallAssessment,
		Sections:          d.Sections,
		Approval:          d.Approval,
		Boards:            []models.Board{},
		Observations:      []models.Observation{},
		CreatedBy:         row.CreatedBy,
		SubmittedBy:       row.SubmittedBy.String,
		CreatedAt:         row.CreatedAt,
		UpdatedAt:         row.UpdatedAt,
		Version:           row.Version,
	}
	if row.SubmittedAt.Valid {
		t := row.SubmittedAt.Time
		cert.SubmittedAt = &t
	}
	return cert, nil
}
