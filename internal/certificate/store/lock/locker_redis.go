package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"certhub/pkg/platform/sentinel"
)

const (
	keyPrefix = "certhub:review-lock:"

	defaultTTL       = 30 * time.Second
	defaultWait      = 5 * time.Second
	defaultRetryStep = 50 * time.Millisecond
)

// releaseScript deletes the lock only while it still carries our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker is a lease lock shared by every instance pointing at the same
// Redis. Leases expire after ttl so a crashed holder cannot block review
// forever.
type RedisLocker struct {
	client    *redis.Client
	ttl       time.Duration
	wait      time.Duration
	retryStep time.Duration
}

type RedisOption func(*RedisLocker)

// WithTTL sets the lease duration.
func WithTTL(ttl time.Duration) RedisOption {
	return func(l *RedisLocker) {
		if ttl > 0 {
			l.ttl = ttl
		}
	}
}

// WithWait sets how long Acquire retries before reporting the lock as held.
func WithWait(wait time.Duration) RedisOption {
	return func(l *RedisLocker) {
		if wait >= 0 {
			l.wait = wait
		}
	}
}

func NewRedis(client *redis.Client, opts ...RedisOption) *RedisLocker {
	l := &RedisLocker{
		client:    client,
		ttl:       defaultTTL,
		wait:      defaultWait,
		retryStep: defaultRetryStep,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

// Acquire retries SET NX until the lease is won or the wait elapses, then
// returns sentinel.ErrLockHeld.
func (l *RedisLocker) Acquire(ctx context.Context, key string) (func(context.Context) error, error) {
	redisKey := keyPrefix + key
	token := uuid.NewString()
	deadline := time.Now().Add(l.wait)

	for {
		ok, err := l.client.SetNX(ctx, redisKey, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire review lock: %w", errors.Join(sentinel.ErrUnavailable, err))
		}
		if ok {
			return l.releaser(redisKey, token), nil
		}
		if !time.Now().Before(deadline) {
			return nil, sentinel.ErrLockHeld
		}
		timer := time.NewTimer(l.retryStep)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

func (l *RedisLocker) releaser(redisKey, token string) func(context.Context) error {
	return func(ctx context.Context) error {
		err := releaseScript.Run(ctx, l.client, []string{redisKey}, token).Err()
		if err != nil && !errors.Is(err, redis.Nil) {
			return fmt.Errorf("release review lock: %w", err)
		}
		return nil
	}
}
