//go:build integration

package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"certhub/pkg/testutil/containers"
)

func TestRedisStore(t *testing.T) {
	rc := containers.GetManager().GetRedis(t)
	ctx := context.Background()
	require.NoError(t, rc.FlushAll(ctx))

	store := NewRedisStore(rc.Client)
	for i := range 3 {
		result, err := store.Allow(ctx, "actor:inspector-1", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, result.Allowed)
		assert.Equal(t, 3-(i+1), result.Remaining)
	}

	result, err := store.Allow(ctx, "actor:inspector-1", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, result.Allowed)
	assert.Positive(t, result.RetryAfter)

	other, err := store.Allow(ctx, "actor:inspector-2", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, other.Allowed)
}
