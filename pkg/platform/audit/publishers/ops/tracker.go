// Package ops records routine editing activity. Events are sampled and
// dropped rather than failing the caller when the audit store is unhealthy.
package ops

import (
	"context"
	"log/slog"
	"time"

	audit "certhub/pkg/platform/audit"
	"certhub/pkg/platform/circuit"
)

// Tracker emits operations events with best-effort semantics.
type Tracker struct {
	store   audit.Store
	sampler *Sampler
	breaker *circuit.Breaker
	logger  *slog.Logger
	metrics *Metrics
}

type Option func(*Tracker)

func WithLogger(logger *slog.Logger) Option {
	return func(t *Tracker) {
		t.logger = logger
	}
}

func WithMetrics(m *Metrics) Option {
	return func(t *Tracker) {
		t.metrics = m
	}
}

func WithSampler(s *Sampler) Option {
	return func(t *Tracker) {
		t.sampler = s
	}
}

// WithBreaker replaces the default breaker. It should carry a cooldown, or an
// unhealthy store is called on every event.
func WithBreaker(b *circuit.Breaker) Option {
	return func(t *Tracker) {
		t.breaker = b
	}
}

// NewTracker keeps every event and stops calling the store for a minute after
// 5 consecutive failures unless configured otherwise.
func NewTracker(store audit.Store, opts ...Option) *Tracker {
	t := &Tracker{
		store:   store,
		sampler: NewSampler(1, nil),
		breaker: circuit.New("ops-audit", circuit.WithCooldown(time.Minute)),
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Track records event unless it is sampled out or the breaker is holding
// calls back. It never returns an error.
func (t *Tracker) Track(ctx context.Context, event audit.OpsEvent) {
	if !t.sampler.Keep(event.Action) {
		t.metrics.observe(outcomeSampled)
		return
	}
	if !t.breaker.Allow() {
		t.metrics.observe(outcomeDropped)
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	if err := t.store.Append(ctx, event.ToEvent()); err != nil {
		_, change := t.breaker.RecordFailure()
		t.metrics.observe(outcomeFailed)
		t.metrics.setBreaker(t.breaker.IsOpen())
		if change.Opened {
			t.logger.WarnContext(ctx, "ops audit store unhealthy; dropping events", "error", err)
		}
		t.logger.DebugContext(ctx, "ops audit dropped",
			"action", event.Action,
			"certificate_id", event.CertificateID.String(),
			"error", err,
		)
		return
	}
	if _, change := t.breaker.RecordSuccess(); change.Closed {
		t.logger.InfoContext(ctx, "ops audit store recovered")
	}
	t.metrics.observe(outcomeTracked)
	t.metrics.setBreaker(false)
}
