package models

import (
	"time"

	id "certhub/pkg/domain"
)

// ReviewAction names what a review log entry records.
type ReviewAction string

const (
	ReviewActionApproved          ReviewAction = "approved"
	ReviewActionRejected          ReviewAction = "rejected"
	ReviewActionRevisionRequested ReviewAction = "revision_requested"
	ReviewActionResubmitted       ReviewAction = "resubmitted"
)

// Review is one immutable entry in a certificate's review log. Entries are
// appended by state transitions and never updated or deleted.
type Review struct {
	ID            id.ReviewID      `json:"id" db:"id"`
	CertificateID id.CertificateID `json:"certificate_id" db:"certificate_id"`
	ActorID       string           `json:"actor_id" db:"actor_id"`
	Action        ReviewAction     `json:"action" db:"action"`
	Comments      string           `json:"comments,omitempty" db:"comments"`
	Reason        string           `json:"reason,omitempty" db:"reason"`
	FromStatus    Status           `json:"from_status" db:"from_status"`
	ToStatus      Status           `json:"to_status" db:"to_status"`
	ClientIP      string           `json:"client_ip,omitempty" db:"client_ip"`
	Device        string           `json:"device,omitempty" db:"device"`
	CreatedAt     time.Time        `json:"created_at" db:"created_at"`
}

// ReviewMetadata is the request context recorded alongside a review entry.
type ReviewMetadata struct {
	ClientIP string
	Device   string
}

// NewReview builds the log entry for a transition from one status to another.
func NewReview(
	certificateID id.CertificateID,
	actorID string,
	action ReviewAction,
	from, to Status,
	comments, reason string,
	meta ReviewMetadata,
	now time.Time,
) Review {
	return Review{
		ID:            id.NewReviewID(),
		CertificateID: certificateID,
		ActorID:       actorID,
		Action:        action,
		Comments:      comments,
		Reason:        reason,
		FromStatus:    from,
		ToStatus:      to,
		ClientIP:      meta.ClientIP,
		Device:        meta.Device,
		CreatedAt:     now,
	}
}
