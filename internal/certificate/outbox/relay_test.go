package outbox

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"certhub/pkg/platform/circuit"
)

type published struct {
	topic   string
	key     string
	value   string
	headers map[string]string
}

type fakePublisher struct {
	sent   []published
	failOn string
}

func (f *fakePublisher) Publish(_ context.Context, topic string, key, value []byte, headers map[string]string) error {
	if f.failOn != "" && headers["event_id"] == f.failOn {
		return errors.New("broker unavailable")
	}
	f.sent = append(f.sent, published{topic: topic, key: string(key), value: string(value), headers: headers})
	return nil
}

var rowColumns = []string{"id", "aggregate_id", "event_type", "payload"}

func newRelay(t *testing.T, pub Publisher, opts ...Option) (*Relay, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	fixed := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	opts = append([]Option{WithClock(func() time.Time { return fixed })}, opts...)
	return New(sqlx.NewDb(db, "pgx"), pub, "certificate-reviews", opts...), mock
}

func TestRunOncePublishesAndMarks(t *testing.T) {
	pub := &fakePublisher{}
	relay, mock := newRelay(t, pub)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE SKIP LOCKED")).
		WithArgs(100).
		WillReturnRows(sqlmock.NewRows(rowColumns).
			AddRow("e1", "cert-1", "certificate_submitted", []byte(`{"action":"certificate_submitted"}`)).
			AddRow("e2", "cert-1", "certificate_approved", []byte(`{"action":"certificate_approved"}`)))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE outbox SET published_at")).
		WithArgs(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	n, err := relay.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.Len(t, pub.sent, 2)
	assert.Equal(t, "certificate-reviews", pub.sent[0].topic)
	assert.Equal(t, "cert-1", pub.sent[0].key)
	assert.Equal(t, "certificate_approved", pub.sent[1].headers["event_type"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunOnceStopsAtFirstFailure(t *testing.T) {
	pub := &fakePublisher{failOn: "e2"}
	relay, mock := newRelay(t, pub)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE SKIP LOCKED")).
		WillReturnRows(sqlmock.NewRows(rowColumns).
			AddRow("e1", "cert-1", "certificate_submitted", []byte(`{}`)).
			AddRow("e2", "cert-1", "certificate_approved", []byte(`{}`)).
			AddRow("e3", "cert-2", "certificate_submitted", []byte(`{}`)))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE outbox SET published_at")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	n, err := relay.RunOnce(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, n)
	require.Len(t, pub.sent, 1)
	assert.Equal(t, "e1", pub.sent[0].headers["event_id"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunOnceEmptyBatch(t *testing.T) {
	pub := &fakePublisher{}
	relay, mock := newRelay(t, pub)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE SKIP LOCKED")).
		WillReturnRows(sqlmock.NewRows(rowColumns))
	mock.ExpectCommit()

	n, err := relay.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, pub.sent)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunOnceProbesSingleRowWhileBreakerOpen(t *testing.T) {
	breaker := circuit.New("kafka-outbox", circuit.WithFailureThreshold(1))
	breaker.RecordFailure()
	require.True(t, breaker.IsOpen())

	pub := &fakePublisher{}
	relay, mock := newRelay(t, pub, WithBreaker(breaker))

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE SKIP LOCKED")).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(rowColumns).AddRow("e1", "cert-1", "certificate_submitted", []byte(`{}`)))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE outbox SET published_at")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	n, err := relay.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.False(t, breaker.IsOpen())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRejectsBadSpec(t *testing.T) {
	relay, _ := newRelay(t, &fakePublisher{})
	_, err := relay.Schedule(context.Background(), "every other tuesday")
	require.Error(t, err)

	c, err := relay.Schedule(context.Background(), "@every 5s")
	require.NoError(t, err)
	assert.Len(t, c.Entries(), 1)
}
