// Package compliance writes workflow events that must not be lost. Emit blocks
// until the store (the outbox in PostgreSQL mode) accepts the event and any
// failure is returned so the surrounding transition rolls back.
package compliance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	audit "certhub/pkg/platform/audit"
)

var (
	errMissingCertificate = errors.New("compliance event has no certificate")
	errMissingAction      = errors.New("compliance event has no action")
)

type Publisher struct {
	store   audit.Store
	logger  *slog.Logger
	metrics *Metrics
	now     func() time.Time
}

type Option func(*Publisher)

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

func WithMetrics(m *Metrics) Option {
	return func(p *Publisher) {
		p.metrics = m
	}
}

func New(store audit.Store, opts ...Option) *Publisher {
	p := &Publisher{
		store:  store,
		logger: slog.New(slog.DiscardHandler),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Emit persists event synchronously. Only actions categorised as compliance
// are accepted; editing activity belongs to the ops tracker.
func (p *Publisher) Emit(ctx context.Context, event audit.ComplianceEvent) error {
	if err := check(event); err != nil {
		return err
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = p.now()
	}

	start := p.now()
	err := p.store.Append(ctx, event.ToEvent())
	p.metrics.observe(event.Action, err, p.now().Sub(start))
	if err != nil {
		p.logger.ErrorContext(ctx, "compliance audit write failed",
			"action", event.Action,
			"certificate_id", event.CertificateID.String(),
			"actor_id", event.ActorID,
			"error", err,
		)
		return fmt.Errorf("persist %s: %w", event.Action, err)
	}
	return nil
}

func check(event audit.ComplianceEvent) error {
	var errs []error
	if event.CertificateID.IsNil() {
		errs = append(errs, errMissingCertificate)
	}
	if event.Action == "" {
		errs = append(errs, errMissingAction)
	} else if audit.AuditEvent(event.Action).Category() != audit.CategoryCompliance {
		errs = append(errs, fmt.Errorf("%s is not a compliance action", event.Action))
	}
	return errors.Join(errs...)
}
