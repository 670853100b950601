package lock

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalLockerExcludesConcurrentHolders(t *testing.T) {
	locker := NewLocal()
	ctx := context.Background()

	var inside, maxInside int32
	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := locker.Acquire(ctx, "cert-1")
			if !assert.NoError(t, err) {
				return
			}
			n := atomic.AddInt32(&inside, 1)
			for {
				m := atomic.LoadInt32(&maxInside)
				if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inside, -1)
			assert.NoError(t, release(ctx))
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxInside)
	assert.Empty(t, locker.locks)
}

func TestLocalLockerKeysAreIndependent(t *testing.T) {
	locker := NewLocal()
	ctx := context.Background()

	releaseA, err := locker.Acquire(ctx, "cert-a")
	require.NoError(t, err)
	releaseB, err := locker.Acquire(ctx, "cert-b")
	require.NoError(t, err)

	require.NoError(t, releaseA(ctx))
	require.NoError(t, releaseB(ctx))
}

func TestLocalLockerHonoursContext(t *testing.T) {
	locker := NewLocal()
	release, err := locker.Acquire(context.Background(), "cert-1")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = locker.Acquire(ctx, "cert-1")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	require.NoError(t, release(context.Background()))
	require.NoError(t, release(context.Background()), "release is idempotent")

	again, err := locker.Acquire(context.Background(), "cert-1")
	require.NoError(t, err)
	require.NoError(t, again(context.Background()))
}
