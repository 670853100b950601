package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	id "certhub/pkg/domain"
	audit "certhub/pkg/platform/audit"
	txcontext "certhub/pkg/platform/tx"
)

// AggregateType is the outbox aggregate type for certificate events.
const AggregateType = "certificate"

// Store implements audit.Store using the transactional outbox pattern.
// Events are written to the outbox table inside the caller's transaction and
// published to Kafka by the outbox relay.
type Store struct {
	db *sqlx.DB
}

// New creates a PostgreSQL audit store that writes to the outbox.
func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *Store) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

// Payload is the JSON structure published to Kafka.
type Payload struct {
	ID            string `json:"id"`
	Category      string `json:"category"`
	Timestamp     string `json:"timestamp"`
	CertificateID string `json:"certificate_id"`
	Subject       string `json:"subject,omitempty"`
	Action        string `json:"action"`
	FromStatus    string `json:"from_status,omitempty"`
	ToStatus      string `json:"to_status,omitempty"`
	Reason        string `json:"reason,omitempty"`
	Comments      string `json:"comments,omitempty"`
	Fingerprint   string `json:"fingerprint,omitempty"`
	RequestID     string `json:"request_id,omitempty"`
	ActorID       string `json:"actor_id,omitempty"`
	ClientIP      string `json:"client_ip,omitempty"`
}

func payloadFor(eventID uuid.UUID, event audit.Event) Payload {
	return Payload{
		ID:            eventID.String(),
		Category:      string(audit.AuditEvent(event.Action).Category()),
		Timestamp:     event.Timestamp.UTC().Format(time.RFC3339Nano),
		CertificateID: event.CertificateID.String(),
		Subject:       event.Subject,
		Action:        event.Action,
		FromStatus:    event.FromStatus,
		ToStatus:      event.ToStatus,
		Reason:        event.Reason,
		Comments:      event.Comments,
		Fingerprint:   event.Fingerprint,
		RequestID:     event.RequestID,
		ActorID:       event.ActorID,
		ClientIP:      event.ClientIP,
	}
}

// Append writes an audit event to the outbox table for Kafka publishing.
func (s *Store) Append(ctx context.Context, event audit.Event) error {
	eventID := uuid.New()
	payloadBytes, err := json.Marshal(payloadFor(eventID, event))
	if err != nil {
		return fmt.Errorf("marshal audit payload: %w", err)
	}

	query := `
		INSERT INTO outbox (id, aggregate_type, aggregate_id, event_type, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = s.execer(ctx).ExecContext(ctx, query,
		eventID,
		AggregateType,
		event.CertificateID.String(),
		event.Action,
		payloadBytes,
		event.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert outbox entry: %w", err)
	}
	return nil
}

// ListByCertificate returns a certificate's events from the outbox, oldest first.
func (s *Store) ListByCertificate(ctx context.Context, certificateID id.CertificateID) ([]audit.Event, error) {
	query := `
		SELECT payload
		FROM outbox
		WHERE aggregate_type = $1 AND aggregate_id = $2
		ORDER BY created_at ASC, id ASC
	`
	var payloads [][]byte
	if err := s.db.SelectContext(ctx, &payloads, query, AggregateType, certificateID.String()); err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}

	events := make([]audit.Event, 0, len(payloads))
	for _, raw := range payloads {
		event, err := DecodePayload(raw)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, nil
}

// DecodePayload parses an outbox payload back into an audit event.
func DecodePayload(raw []byte) (audit.Event, error) {
	var p Payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return audit.Event{}, fmt.Errorf("decode audit payload: %w", err)
	}
	ts, err := time.Parse(time.RFC3339Nano, p.Timestamp)
	if err != nil {
		return audit.Event{}, fmt.Errorf("decode audit timestamp: %w", err)
	}
	certificateID, err := id.ParseCertificateID(p.CertificateID)
	if err != nil {
		return audit.Event{}, fmt.Errorf("decode audit certificate id: %w", err)
	}
	return audit.Event{
		Category:      audit.EventCategory(p.Category),
		Timestamp:     ts,
		CertificateID: certificateID,
		Subject:       p.Subject,
		Action:        p.Action,
		FromStatus:    p.FromStatus,
		ToStatus:      p.ToStatus,
		Reason:        p.Reason,
		Comments:      p.Comments,
		Fingerprint:   p.Fingerprint,
		RequestID:     p.RequestID,
		ActorID:       p.ActorID,
		ClientIP:      p.ClientIP,
	}, nil
}
