package service

import (
	"context"
	"fmt"
	"time"

	"certhub/internal/certificate/completeness"
	"certhub/internal/certificate/models"
	id "certhub/pkg/domain"
	dErrors "certhub/pkg/domain-errors"
	"certhub/pkg/platform/audit"
	"certhub/pkg/requestcontext"
)

// Submit locks a draft, or a certificate returned for revision, for review.
// In strict mode a failing required completeness check blocks the transition.
func (s *Service) Submit(ctx context.Context, certificateID id.CertificateID, expectedVersion int64) (cert *models.Certificate, err error) {
	start := time.Now()
	ctx, span := s.startSpan(ctx, "submit", certificateID)
	defer func() { endSpan(span, err) }()

	actorID := requestcontext.ActorID(ctx)
	now := requestcontext.Now(ctx)
	meta := reviewMetadata(ctx)

	var from models.Status
	var resubmitted bool
	err = s.tx.RunInTx(withTxKey(ctx, certificateID.String()), func(ctx context.Context) error {
		var execErr error
		cert, execErr = s.certificates.Execute(ctx, certificateID, expectedVersion,
			func(c *models.Certificate) error {
				if err := c.CanSubmit(); err != nil {
					return err
				}
				return s.checkSubmittable(c)
			},
			func(c *models.Certificate) error {
				from = c.Status
				resubmitted = c.ApplySubmission(actorID, now)
				event := audit.EventCertificateSubmitted
				if resubmitted {
					event = audit.EventCertificateResubmitted
				}
				if err := s.emit(ctx, audit.ComplianceEvent{
					Timestamp:     now,
					CertificateID: c.ID,
					Action:        string(event),
					FromStatus:    string(from),
					ToStatus:      string(c.Status),
					ActorID:       actorID,
				}); err != nil {
					return err
				}
				if !resubmitted {
					return nil
				}
				entry := models.NewReview(c.ID, actorID, models.ReviewActionResubmitted, from, c.Status, "", "", meta, now)
				if err := s.reviews.Append(ctx, entry); err != nil {
					return fmt.Errorf("append review entry: %w", err)
				}
				return nil
			},
		)
		return execErr
	})
	if err != nil {
		return nil, s.translate(err, "certificate not found", "failed to submit certificate")
	}

	action := "submitted"
	if resubmitted {
		action = string(models.ReviewActionResubmitted)
	}
	s.recordTransition(action, start)
	s.logAudit(ctx, action,
		"certificate_id", certificateID.String(),
		"actor_id", actorID,
		"from_status", string(from),
		"to_status", string(cert.Status),
	)
	return cert, nil
}

func (s *Service) checkSubmittable(c *models.Certificate) error {
	if !s.strict {
		return nil
	}
	report := completeness.Check(c)
	if report.Complete() {
		return nil
	}
	if s.metrics != nil {
		s.metrics.IncrementSubmissionBlocked()
	}
	failed := report.RequiredFailures()
	names := make([]string, 0, len(failed))
	for _, r := range failed {
		names = append(names, r.Check)
	}
	return dErrors.Newf(dErrors.CodeValidation, "certificate is incomplete: %v", names)
}

// Approve finalises a submitted certificate, seals its content with a
// fingerprint and makes it visible to the customer.
func (s *Service) Approve(ctx context.Context, certificateID id.CertificateID, expectedVersion int64, comments string) (*models.Certificate, error) {
	return s.review(ctx, certificateID, expectedVersion, reviewAction{
		action:   models.ReviewActionApproved,
		event:    audit.EventCertificateApproved,
		comments: comments,
		validate: func(c *models.Certificate) error { return c.CanApprove() },
		apply: func(c *models.Certificate, actorID string, now time.Time) (string, error) {
			fingerprint, err := Fingerprint(c)
			if err != nil {
				return "", err
			}
			c.ApplyApproval(actorID, comments, fingerprint, now)
			return fingerprint, nil
		},
	})
}

// Reject finalises a submitted certificate as rejected. reason is required.
func (s *Service) Reject(ctx context.Context, certificateID id.CertificateID, expectedVersion int64, reason, comments string) (*models.Certificate, error) {
	return s.review(ctx, certificateID, expectedVersion, reviewAction{
		action:   models.ReviewActionRejected,
		event:    audit.EventCertificateRejected,
		reason:   reason,
		comments: comments,
		validate: func(c *models.Certificate) error { return c.CanReject(reason) },
		apply: func(c *models.Certificate, actorID string, now time.Time) (string, error) {
			c.ApplyRejection(actorID, reason, comments, now)
			return "", nil
		},
	})
}

// RequestRevision returns a submitted certificate to the inspector for edits.
// comments are required.
func (s *Service) RequestRevision(ctx context.Context, certificateID id.CertificateID, expectedVersion int64, comments string) (*models.Certificate, error) {
	return s.review(ctx, certificateID, expectedVersion, reviewAction{
		action:   models.ReviewActionRevisionRequested,
		event:    audit.EventCertificateRevisionRequested,
		comments: comments,
		validate: func(c *models.Certificate) error { return c.CanRequestRevision(comments) },
		apply: func(c *models.Certificate, _ string, now time.Time) (string, error) {
			c.ApplyRevisionRequest(comments, now)
			return "", nil
		},
	})
}

type reviewAction struct {
	action   models.ReviewAction
	event    audit.AuditEvent
	reason   string
	comments string
	validate func(c *models.Certificate) error
	// apply performs the transition and returns the approval fingerprint, if any.
	apply func(c *models.Certificate, actorID string, now time.Time) (string, error)
}

// review runs one reviewer action under the per-certificate review lock.
// Status is checked before the authorizer so a finalised certificate reports
// invalid_state whoever asks. The audit event and review entry are written
// inside the store mutation, so a failed write leaves the status unchanged.
func (s *Service) review(ctx context.Context, certificateID id.CertificateID, expectedVersion int64, a reviewAction) (cert *models.Certificate, err error) {
	start := time.Now()
	ctx, span := s.startSpan(ctx, string(a.action), certificateID)
	defer func() { endSpan(span, err) }()

	actorID := requestcontext.ActorID(ctx)
	now := requestcontext.Now(ctx)
	meta := reviewMetadata(ctx)

	release, err := s.locker.Acquire(ctx, certificateID.String())
	if err != nil {
		return nil, s.translate(err, "certificate not found", "failed to acquire review lock")
	}
	defer func() {
		if relErr := release(context.WithoutCancel(ctx)); relErr != nil {
			s.logger.WarnContext(ctx, "failed to release review lock",
				"certificate_id", certificateID.String(),
				"error", relErr,
			)
		}
	}()

	var from models.Status
	err = s.tx.RunInTx(withTxKey(ctx, certificateID.String()), func(ctx context.Context) error {
		var execErr error
		cert, execErr = s.certificates.Execute(ctx, certificateID, expectedVersion,
			func(c *models.Certificate) error {
				if err := a.validate(c); err != nil {
					return err
				}
				if !s.authorizer.CanReview(ctx, actorID) {
					return dErrors.New(dErrors.CodeForbidden, "actor is not permitted to review certificates")
				}
				return nil
			},
			func(c *models.Certificate) error {
				from = c.Status
				fingerprint, err := a.apply(c, actorID, now)
				if err != nil {
					return err
				}
				if err := s.emit(ctx, audit.ComplianceEvent{
					Timestamp:     now,
					CertificateID: c.ID,
					Action:        string(a.event),
					FromStatus:    string(from),
					ToStatus:      string(c.Status),
					Reason:        a.reason,
					Comments:      a.comments,
					Fingerprint:   fingerprint,
					ActorID:       actorID,
				}); err != nil {
					return err
				}
				entry := models.NewReview(c.ID, actorID, a.action, from, c.Status, a.comments, a.reason, meta, now)
				if err := s.reviews.Append(ctx, entry); err != nil {
					return fmt.Errorf("append review entry: %w", err)
				}
				return nil
			},
		)
		return execErr
	})
	if err != nil {
		return nil, s.translate(err, "certificate not found", "failed to record review")
	}

	s.recordTransition(string(a.action), start)
	s.logAudit(ctx, string(a.event),
		"certificate_id", certificateID.String(),
		"actor_id", actorID,
		"from_status", string(from),
		"to_status", string(cert.Status),
	)
	return cert, nil
}

func (s *Service) recordTransition(action string, start time.Time) {
	if s.metrics == nil {
		return
	}
	s.metrics.IncrementTransition(action)
	s.metrics.ObserveTransition(start)
}

func reviewMetadata(ctx context.Context) models.ReviewMetadata {
	return models.ReviewMetadata{
		ClientIP: requestcontext.ClientIP(ctx),
		Device:   requestcontext.Device(ctx),
	}
}
