package outbox

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/robfig/cron/v3"

	"certhub/pkg/platform/circuit"
)

// Publisher delivers one outbox row to the broker.
type Publisher interface {
	Publish(ctx context.Context, topic string, key, value []byte, headers map[string]string) error
}

// Relay moves committed outbox rows to Kafka. Rows are claimed with
// SKIP LOCKED so several relays can run against one database. A batch stops at
// the first failed row, keeping per-certificate order intact.
type Relay struct {
	db        *sqlx.DB
	publisher Publisher
	topic     string
	batchSize int
	breaker   *circuit.Breaker
	logger    *slog.Logger
	metrics   *Metrics
	now       func() time.Time
}

type Option func(*Relay)

func WithBatchSize(n int) Option {
	return func(r *Relay) {
		if n > 0 {
			r.batchSize = n
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(r *Relay) { r.logger = logger }
}

func WithMetrics(m *Metrics) Option {
	return func(r *Relay) { r.metrics = m }
}

func WithBreaker(b *circuit.Breaker) Option {
	return func(r *Relay) { r.breaker = b }
}

func WithClock(now func() time.Time) Option {
	return func(r *Relay) { r.now = now }
}

func New(db *sqlx.DB, publisher Publisher, topic string, opts ...Option) *Relay {
	r := &Relay{
		db:        db,
		publisher: publisher,
		topic:     topic,
		batchSize: 100,
		breaker:   circuit.New("kafka-outbox"),
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type row struct {
	ID          string `db:"id"`
	AggregateID string `db:"aggregate_id"`
	EventType   string `db:"event_type"`
	Payload     []byte `db:"payload"`
}

const claimQuery = `
	SELECT id, aggregate_id, event_type, payload
	FROM outbox
	WHERE published_at IS NULL
	ORDER BY created_at ASC, id ASC
	LIMIT $1
	FOR UPDATE SKIP LOCKED
`

const markQuery = `UPDATE outbox SET published_at = $1 WHERE id::text = ANY($2)`

// RunOnce claims one batch, produces it and marks the produced rows. While the
// breaker is open only a single row is attempted per run.
func (r *Relay) RunOnce(ctx context.Context) (published int, err error) {
	limit := r.batchSize
	if r.breaker.IsOpen() {
		limit = 1
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin outbox tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var rows []row
	if err := tx.SelectContext(ctx, &rows, claimQuery, limit); err != nil {
		return 0, fmt.Errorf("claim outbox rows: %w", err)
	}
	if len(rows) == 0 {
		if err := tx.Commit(); err != nil {
			return 0, fmt.Errorf("commit outbox tx: %w", err)
		}
		committed = true
		return 0, nil
	}

	ids := make([]string, 0, len(rows))
	var publishErr error
	for _, rw := range rows {
		headers := map[string]string{
			"event_id":   rw.ID,
			"event_type": rw.EventType,
		}
		if err := r.publisher.Publish(ctx, r.topic, []byte(rw.AggregateID), rw.Payload, headers); err != nil {
			publishErr = fmt.Errorf("publish outbox row %s: %w", rw.ID, err)
			r.recordFailure(ctx)
			break
		}
		r.recordSuccess(ctx)
		ids = append(ids, rw.ID)
	}

	if len(ids) > 0 {
		if _, err := tx.ExecContext(ctx, markQuery, r.now().UTC(), pq.Array(ids)); err != nil {
			return 0, fmt.Errorf("mark outbox rows published: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit outbox tx: %w", err)
	}
	committed = true

	if r.metrics != nil {
		r.metrics.observeBatch(len(rows), len(ids), publishErr != nil)
	}
	return len(ids), publishErr
}

func (r *Relay) recordFailure(ctx context.Context) {
	_, change := r.breaker.RecordFailure()
	if change.Opened {
		r.logger.WarnContext(ctx, "outbox relay breaker opened, probing one row per run",
			"breaker", r.breaker.Name(),
		)
		if r.metrics != nil {
			r.metrics.setBreakerOpen(true)
		}
	}
}

func (r *Relay) recordSuccess(ctx context.Context) {
	_, change := r.breaker.RecordSuccess()
	if change.Closed {
		r.logger.InfoContext(ctx, "outbox relay breaker closed",
			"breaker", r.breaker.Name(),
		)
		if r.metrics != nil {
			r.metrics.setBreakerOpen(false)
		}
	}
}

// Schedule registers RunOnce on a cron spec such as "@every 5s". Overlapping
// runs are skipped. The caller starts and stops the returned scheduler.
func (r *Relay) Schedule(ctx context.Context, spec string) (*cron.Cron, error) {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	_, err := c.AddFunc(spec, func() {
		n, err := r.RunOnce(ctx)
		if err != nil {
			r.logger.ErrorContext(ctx, "outbox relay run failed",
				"published", n,
				"error", err,
			)
			return
		}
		if n > 0 {
			r.logger.DebugContext(ctx, "outbox relay published rows", "published", n)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("schedule outbox relay %q: %w", spec, err)
	}
	return c, nil
}
