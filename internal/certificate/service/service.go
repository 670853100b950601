// Package service orchestrates the certificate editor, circuit scaffolding,
// submission and the review workflow over the certificate and review stores.
package service

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"certhub/internal/certificate/metrics"
	"certhub/internal/certificate/models"
	"certhub/internal/certificate/store/lock"
	id "certhub/pkg/domain"
	dErrors "certhub/pkg/domain-errors"
	"certhub/pkg/platform/audit"
	"certhub/pkg/platform/sentinel"
	"certhub/pkg/requestcontext"
)

// CertificateStore persists certificate aggregates (boards, circuits and
// observations included).
//
// Execute loads the certificate, checks expectedVersion (zero skips the check),
// runs validate then mutate on a private copy and persists it with Version+1.
// Nothing is persisted if either callback returns an error.
type CertificateStore interface {
	Create(ctx context.Context, cert *models.Certificate) error
	FindByID(ctx context.Context, certificateID id.CertificateID) (*models.Certificate, error)
	List(ctx context.Context, filter models.ListFilter) ([]*models.Certificate, error)
	Execute(ctx context.Context, certificateID id.CertificateID, expectedVersion int64,
		validate func(*models.Certificate) error, mutate func(*models.Certificate) error) (*models.Certificate, error)
}

// ReviewStore is the append-only review log.
type ReviewStore interface {
	Append(ctx context.Context, review models.Review) error
	ListByCertificate(ctx context.Context, certificateID id.CertificateID) ([]models.Review, error)
}

// ReviewLocker serializes review actions on one certificate across processes.
type ReviewLocker interface {
	Acquire(ctx context.Context, key string) (release func(context.Context) error, err error)
}

// ReviewAuthorizer is the injected capability check for review actions.
type ReviewAuthorizer interface {
	CanReview(ctx context.Context, actorID string) bool
}

// ReviewAuthorizerFunc adapts a function to ReviewAuthorizer.
type ReviewAuthorizerFunc func(ctx context.Context, actorID string) bool

func (f ReviewAuthorizerFunc) CanReview(ctx context.Context, actorID string) bool {
	return f(ctx, actorID)
}

// RoleAuthorizer permits actors carrying role in their request context.
func RoleAuthorizer(role string) ReviewAuthorizer {
	return ReviewAuthorizerFunc(func(ctx context.Context, actorID string) bool {
		return actorID != "" && requestcontext.HasRole(ctx, role)
	})
}

// ComplianceAuditor persists workflow audit events; failures fail the caller.
type ComplianceAuditor interface {
	Emit(ctx context.Context, event audit.ComplianceEvent) error
}

// OpsTracker records editing activity on a best-effort basis.
type OpsTracker interface {
	Track(ctx context.Context, event audit.OpsEvent)
}

// DefaultReviewerRole is the role RoleAuthorizer checks when none is configured.
const DefaultReviewerRole = "reviewer"

// Service orchestrates certificate editing and review.
type Service struct {
	certificates CertificateStore
	reviews      ReviewStore
	tx           StoreTx
	locker       ReviewLocker
	authorizer   ReviewAuthorizer
	compliance   ComplianceAuditor
	ops          OpsTracker
	logger       *slog.Logger
	metrics      *metrics.Metrics
	tracer       trace.Tracer
	strict       bool
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

// WithTx sets the transactional boundary used for multi-store writes.
func WithTx(tx StoreTx) Option {
	return func(s *Service) {
		s.tx = tx
	}
}

func WithReviewLocker(l ReviewLocker) Option {
	return func(s *Service) {
		s.locker = l
	}
}

func WithReviewAuthorizer(a ReviewAuthorizer) Option {
	return func(s *Service) {
		s.authorizer = a
	}
}

func WithComplianceAuditor(a ComplianceAuditor) Option {
	return func(s *Service) {
		s.compliance = a
	}
}

func WithOpsTracker(t OpsTracker) Option {
	return func(s *Service) {
		s.ops = t
	}
}

// WithStrictSubmission makes submit fail while required completeness checks fail.
func WithStrictSubmission(strict bool) Option {
	return func(s *Service) {
		s.strict = strict
	}
}

// New constructs a Service. Without options it uses an in-process transaction,
// an in-process review lock and RoleAuthorizer(DefaultReviewerRole).
func New(certificates CertificateStore, reviews ReviewStore, opts ...Option) *Service {
	s := &Service{
		certificates: certificates,
		reviews:      reviews,
		logger:       slog.Default(),
		tracer:       otel.Tracer("certhub/certificate"),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.tx == nil {
		s.tx = newShardedTx()
	}
	if s.locker == nil {
		s.locker = lock.NewLocal()
	}
	if s.authorizer == nil {
		s.authorizer = RoleAuthorizer(DefaultReviewerRole)
	}
	return s
}

// startSpan opens a span tagged with the certificate id.
func (s *Service) startSpan(ctx context.Context, name string, certificateID id.CertificateID) (context.Context, trace.Span) {
	ctx, span := s.tracer.Start(ctx, "certificate."+name)
	if !certificateID.IsNil() {
		span.SetAttributes(attribute.String("certificate.id", certificateID.String()))
	}
	return ctx, span
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(dErrors.CodeOf(err)))
	}
	span.End()
}

// translate maps store sentinels to coded errors. Coded errors raised by the
// domain pass through.
func (s *Service) translate(err error, notFoundMsg, internalMsg string) error {
	if err == nil {
		return nil
	}
	if _, ok := dErrors.From(err); ok {
		return err
	}
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, notFoundMsg)
	case errors.Is(err, sentinel.ErrVersionMismatch):
		if s.metrics != nil {
			s.metrics.IncrementVersionConflict()
		}
		return dErrors.Wrap(err, dErrors.CodeConflict, "certificate was modified by someone else; reload and retry")
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.Wrap(err, dErrors.CodeConflict, "conflicting write")
	case errors.Is(err, sentinel.ErrLockHeld):
		if s.metrics != nil {
			s.metrics.IncrementReviewLockContention()
		}
		return dErrors.New(dErrors.CodeConflict, "another review of this certificate is in progress")
	case errors.Is(err, context.DeadlineExceeded):
		return dErrors.Wrap(err, dErrors.CodeTimeout, "operation timed out")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, internalMsg)
}

func (s *Service) logAudit(ctx context.Context, event string, attributes ...any) {
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	args := append(attributes, "event", event, "log_type", "audit")
	if s.logger != nil {
		s.logger.InfoContext(ctx, event, args...)
	}
}

// trackEdit logs and records an editor event.
func (s *Service) trackEdit(ctx context.Context, event audit.AuditEvent, certificateID id.CertificateID, subject string) {
	actorID := requestcontext.ActorID(ctx)
	s.logAudit(ctx, string(event),
		"certificate_id", certificateID.String(),
		"actor_id", actorID,
		"subject", subject,
	)
	if s.ops == nil {
		return
	}
	s.ops.Track(ctx, audit.OpsEvent{
		Timestamp:     requestcontext.Now(ctx),
		CertificateID: certificateID,
		Subject:       subject,
		Action:        string(event),
		RequestID:     requestcontext.RequestID(ctx),
		ActorID:       actorID,
	})
}
