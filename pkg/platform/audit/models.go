package audit

import (
	"context"
	"time"

	id "certhub/pkg/domain"
)

// EventCategory classifies audit events by their primary purpose.
// This enables different retention policies, storage backends, and routing.
type EventCategory string

const (
	// CategoryCompliance covers events with legal significance: anything that
	// changes what a certificate says to its customer or who signed it off.
	CategoryCompliance EventCategory = "compliance"

	// CategoryOperations covers routine editing activity. These can be sampled.
	CategoryOperations EventCategory = "operations"
)

// Event is the transport-agnostic audit record stores persist.
type Event struct {
	Category      EventCategory
	Timestamp     time.Time
	CertificateID id.CertificateID
	Subject       string
	Action        string
	FromStatus    string
	ToStatus      string
	Reason        string
	Comments      string
	Fingerprint   string
	RequestID     string
	ActorID       string
	ClientIP      string
}

type AuditEvent string

const (
	// Workflow events
	EventCertificateSubmitted         AuditEvent = "certificate_submitted"
	EventCertificateResubmitted       AuditEvent = "certificate_resubmitted"
	EventCertificateApproved          AuditEvent = "certificate_approved"
	EventCertificateRejected          AuditEvent = "certificate_rejected"
	EventCertificateRevisionRequested AuditEvent = "certificate_revision_requested"

	// Editor events
	EventCertificateCreated AuditEvent = "certificate_created"
	EventCertificateUpdated AuditEvent = "certificate_updated"
	EventBoardAdded         AuditEvent = "board_added"
	EventBoardUpdated       AuditEvent = "board_updated"
	EventBoardDeleted       AuditEvent = "board_deleted"
	EventCircuitAdded       AuditEvent = "circuit_added"
	EventCircuitUpdated     AuditEvent = "circuit_updated"
	EventCircuitDeleted     AuditEvent = "circuit_deleted"
	EventCircuitsBulkAdded  AuditEvent = "circuits_bulk_added"
	EventCircuitsReordered  AuditEvent = "circuits_reordered"
	EventTemplateApplied    AuditEvent = "circuit_template_applied"
	EventObservationAdded   AuditEvent = "observation_added"
	EventObservationUpdated AuditEvent = "observation_updated"
	EventObservationDeleted AuditEvent = "observation_deleted"
)

// eventCategories maps each audit event to its category.
var eventCategories = map[AuditEvent]EventCategory{
	EventCertificateSubmitted:         CategoryCompliance,
	EventCertificateResubmitted:       CategoryCompliance,
	EventCertificateApproved:          CategoryCompliance,
	EventCertificateRejected:          CategoryCompliance,
	EventCertificateRevisionRequested: CategoryCompliance,
	EventCertificateCreated:           CategoryCompliance,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByCertificate(ctx context.Context, certificateID id.CertificateID) ([]Event, error)
}

// ComplianceEvent captures workflow actions that need guaranteed persistence.
// Use with the compliance publisher for fail-closed semantics.
type ComplianceEvent struct {
	Timestamp     time.Time        // set automatically if zero
	CertificateID id.CertificateID // required
	Action        string           // required
	FromStatus    string
	ToStatus      string
	Reason        string
	Comments      string
	Fingerprint   string
	RequestID     string
	ActorID       string
	ClientIP      string
}

// Category returns CategoryCompliance (always).
func (e ComplianceEvent) Category() EventCategory { return CategoryCompliance }

// ToEvent converts to the stored Event shape.
func (e ComplianceEvent) ToEvent() Event {
	return Event{
		Category:      CategoryCompliance,
		Timestamp:     e.Timestamp,
		CertificateID: e.CertificateID,
		Subject:       e.CertificateID.String(),
		Action:        e.Action,
		FromStatus:    e.FromStatus,
		ToStatus:      e.ToStatus,
		Reason:        e.Reason,
		Comments:      e.Comments,
		Fingerprint:   e.Fingerprint,
		RequestID:     e.RequestID,
		ActorID:       e.ActorID,
		ClientIP:      e.ClientIP,
	}
}

// OpsEvent captures editing activity with minimal overhead.
// Events are fire-and-forget with optional sampling.
type OpsEvent struct {
	Timestamp     time.Time
	CertificateID id.CertificateID
	Subject       string // board, circuit or observation id when relevant
	Action        string
	RequestID     string
	ActorID       string
}

// Category returns CategoryOperations (always).
func (e OpsEvent) Category() EventCategory { return CategoryOperations }

// ToEvent converts to the stored Event shape.
func (e OpsEvent) ToEvent() Event {
	return Event{
		Category:      CategoryOperations,
		Timestamp:     e.Timestamp,
		CertificateID: e.CertificateID,
		Subject:       e.Subject,
		Action:        e.Action,
		RequestID:     e.RequestID,
		ActorID:       e.ActorID,
	}
}
