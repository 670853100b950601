package models

import (
	"strings"
	"time"

	dErrors "certhub/pkg/domain-errors"
)

// CanSubmit checks the certificate may be sent for review.
func (c *Certificate) CanSubmit() error {
	if !c.Status.CanTransitionTo(StatusSubmitted) {
		return dErrors.Newf(dErrors.CodeInvalidState, "certificate cannot be submitted from status %s", c.Status)
	}
	return nil
}

// ApplySubmission locks the certificate for review. It reports whether this
// was a resubmission after a revision request.
// Must only be called after CanSubmit returns nil.
func (c *Certificate) ApplySubmission(actorID string, now time.Time) (resubmitted bool) {
	resubmitted = c.Status == StatusRevisionRequested
	c.Status = StatusSubmitted
	c.SubmittedBy = actorID
	c.SubmittedAt = &now
	c.UpdatedAt = now
	return resubmitted
}

// CanReview fails with invalid_state unless the certificate awaits review.
func (c *Certificate) CanReview() error {
	if c.Status != StatusSubmitted {
		return dErrors.Newf(dErrors.CodeInvalidState, "certificate is not awaiting review (status %s)", c.Status)
	}
	return nil
}

// CanApprove checks the approval transition.
func (c *Certificate) CanApprove() error {
	return c.CanReview()
}

// ApplyApproval finalises the certificate and makes it visible to the customer.
// Must only be called after CanApprove returns nil.
func (c *Certificate) ApplyApproval(actorID, comments, fingerprint string, now time.Time) {
	c.Status = StatusApproved
	c.Approval.ApprovedBy = actorID
	c.Approval.ApprovedAt = &now
	c.Approval.CustomerVisible = true
	c.Approval.ReviewerComments = comments
	c.Approval.Fingerprint = fingerprint
	c.UpdatedAt = now
}

// CanReject checks the rejection transition. State is checked before the
// reason so a finalised certificate always reports invalid_state.
func (c *Certificate) CanReject(reason string) error {
	if err := c.CanReview(); err != nil {
		return err
	}
	if strings.TrimSpace(reason) == "" {
		return dErrors.New(dErrors.CodeValidation, "rejection reason is required")
	}
	return nil
}

// ApplyRejection finalises the certificate as rejected.
// Must only be called after CanReject returns nil.
func (c *Certificate) ApplyRejection(actorID, reason, comments string, now time.Time) {
	c.Status = StatusRejected
	c.Approval.RejectedBy = actorID
	c.Approval.RejectedAt = &now
	c.Approval.RejectionReason = strings.TrimSpace(reason)
	c.Approval.ReviewerComments = comments
	c.Approval.CustomerVisible = false
	c.UpdatedAt = now
}

// CanRequestRevision checks the revision transition; comments are required.
func (c *Certificate) CanRequestRevision(comments string) error {
	if err := c.CanReview(); err != nil {
		return err
	}
	if strings.TrimSpace(comments) == "" {
		return dErrors.New(dErrors.CodeValidation, "comments are required when requesting a revision")
	}
	return nil
}

// ApplyRevisionRequest unlocks the certificate for further edits.
// Must only be called after CanRequestRevision returns nil.
func (c *Certificate) ApplyRevisionRequest(comments string, now time.Time) {
	c.Status = StatusRevisionRequested
	c.Approval.ReviewerComments = comments
	c.UpdatedAt = now
}
