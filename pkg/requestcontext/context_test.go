package requestcontext

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestActor(t *testing.T) {
	ctx := WithActor(context.Background(), "reviewer-7", "reviewer", "engineer")

	assert.Equal(t, "reviewer-7", ActorID(ctx))
	assert.True(t, HasRole(ctx, "reviewer"))
	assert.False(t, HasRole(ctx, "admin"))
	assert.Empty(t, ActorID(context.Background()))
}

func TestNowFallsBackToWallClock(t *testing.T) {
	fixed := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, fixed, Now(WithTime(context.Background(), fixed)))
	assert.WithinDuration(t, time.Now(), Now(context.Background()), time.Second)
}

func TestClientMetadata(t *testing.T) {
	ctx := WithClientMetadata(context.Background(), "203.0.113.9", "curl/8.5", "Other")
	ctx = WithRequestID(ctx, "req-1")

	assert.Equal(t, "203.0.113.9", ClientIP(ctx))
	assert.Equal(t, "curl/8.5", UserAgent(ctx))
	assert.Equal(t, "Other", Device(ctx))
	assert.Equal(t, "req-1", RequestID(ctx))
	assert.Empty(t, Device(context.Background()))
}
