package worker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	id "certhub/pkg/domain"
	audit "certhub/pkg/platform/audit"
)

// ErrBufferFull is returned by Append when the inbox has no room. The ops
// tracker counts it as a store failure.
var ErrBufferFull = errors.New("audit worker buffer full")

// Worker decouples best-effort audit writes from the request path. Append
// enqueues; Run persists queued events into the wrapped store.
type Worker struct {
	store  audit.Store
	inbox  chan audit.Event
	logger *slog.Logger
}

func NewWorker(store audit.Store, capacity int, logger *slog.Logger) *Worker {
	if capacity <= 0 {
		capacity = 1024
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{store: store, inbox: make(chan audit.Event, capacity), logger: logger}
}

// Append queues event without blocking.
func (w *Worker) Append(_ context.Context, event audit.Event) error {
	select {
	case w.inbox <- event:
		return nil
	default:
		return ErrBufferFull
	}
}

// ListByCertificate reads through to the wrapped store. Queued events are not
// visible until Run has persisted them.
func (w *Worker) ListByCertificate(ctx context.Context, certificateID id.CertificateID) ([]audit.Event, error) {
	return w.store.ListByCertificate(ctx, certificateID)
}

// Pending reports how many events are waiting to be persisted.
func (w *Worker) Pending() int {
	return len(w.inbox)
}

// Run persists events until ctx is cancelled, then drains what is already
// queued with a short grace period.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.drain()
			return ctx.Err()
		case event := <-w.inbox:
			w.persist(ctx, event)
		}
	}
}

func (w *Worker) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for {
		select {
		case event := <-w.inbox:
			w.persist(ctx, event)
		default:
			return
		}
	}
}

func (w *Worker) persist(ctx context.Context, event audit.Event) {
	if err := w.store.Append(ctx, event); err != nil {
		w.logger.WarnContext(ctx, "failed to persist queued audit event",
			"action", event.Action,
			"certificate_id", event.CertificateID.String(),
			"error", err,
		)
	}
}
