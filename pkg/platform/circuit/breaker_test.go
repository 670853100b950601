package circuit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBreakerStartsClosed(t *testing.T) {
	b := New("kafka")
	assert.False(t, b.IsOpen())
	assert.Equal(t, StateClosed, b.State())
	assert.Equal(t, "kafka", b.Name())
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	b := New("kafka", WithFailureThreshold(3))

	useFallback, change := b.RecordFailure()
	assert.False(t, useFallback)
	assert.False(t, change.Opened)

	useFallback, change = b.RecordFailure()
	assert.False(t, useFallback)
	assert.False(t, change.Opened)

	useFallback, change = b.RecordFailure()
	assert.True(t, useFallback)
	assert.True(t, change.Opened)
	assert.True(t, b.IsOpen())
}

func TestBreakerClosesAfterConsecutiveSuccesses(t *testing.T) {
	b := New("kafka", WithFailureThreshold(1), WithSuccessThreshold(2))

	b.RecordFailure()
	assert.True(t, b.IsOpen())

	usePrimary, change := b.RecordSuccess()
	assert.False(t, usePrimary)
	assert.False(t, change.Closed)
	assert.True(t, b.IsOpen())

	usePrimary, change = b.RecordSuccess()
	assert.True(t, usePrimary)
	assert.True(t, change.Closed)
	assert.False(t, b.IsOpen())
}

func TestBreakerSuccessClearsFailures(t *testing.T) {
	b := New("kafka", WithFailureThreshold(3))

	b.RecordFailure()
	b.RecordFailure()
	assert.False(t, b.IsOpen())

	b.RecordSuccess()

	b.RecordFailure()
	b.RecordFailure()
	assert.False(t, b.IsOpen())

	b.RecordFailure()
	assert.True(t, b.IsOpen())
}

func TestBreakerFailureWhileOpenClearsSuccesses(t *testing.T) {
	b := New("kafka", WithFailureThreshold(1), WithSuccessThreshold(3))

	b.RecordFailure()
	assert.True(t, b.IsOpen())

	b.RecordSuccess()
	b.RecordSuccess()

	b.RecordFailure()
	assert.True(t, b.IsOpen())

	b.RecordSuccess()
	b.RecordSuccess()
	assert.True(t, b.IsOpen())
	b.RecordSuccess()
	assert.False(t, b.IsOpen())
}

func TestBreakerReset(t *testing.T) {
	b := New("kafka", WithFailureThreshold(1))

	b.RecordFailure()
	assert.True(t, b.IsOpen())

	b.Reset()
	assert.False(t, b.IsOpen())
	assert.Equal(t, StateClosed, b.State())
}

func TestBreakerStaysOpenOnFurtherFailures(t *testing.T) {
	b := New("kafka", WithFailureThreshold(1))

	b.RecordFailure()

	useFallback, change := b.RecordFailure()
	assert.True(t, useFallback)
	assert.False(t, change.Opened)
}

func TestBreakerSuccessWhileClosedUsesPrimary(t *testing.T) {
	b := New("kafka")
	usePrimary, change := b.RecordSuccess()
	assert.True(t, usePrimary)
	assert.Equal(t, Change{}, change)
}

func TestBreakerAllowWithoutCooldown(t *testing.T) {
	b := New("kafka", WithFailureThreshold(1))
	b.RecordFailure()
	assert.True(t, b.IsOpen())
	assert.True(t, b.Allow())
}

func TestBreakerCooldownHoldsCallsBack(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	b := New("ops-audit", WithFailureThreshold(2), WithCooldown(time.Minute))
	b.now = func() time.Time { return now }

	assert.True(t, b.Allow())
	b.RecordFailure()
	b.RecordFailure()
	assert.False(t, b.Allow())

	now = now.Add(time.Minute)
	assert.True(t, b.Allow(), "probe after cooldown")

	b.RecordFailure()
	assert.False(t, b.Allow(), "failed probe restarts the cooldown")

	now = now.Add(time.Minute)
	_, change := b.RecordSuccess()
	assert.True(t, change.Closed)
	assert.True(t, b.Allow())
}
