package service

import (
	"context"
	"hash/fnv"
	"sync"
	"time"

	dErrors "certhub/pkg/domain-errors"
)

// StoreTx provides a transactional boundary spanning the certificate store,
// the review log and the audit outbox. Implementations may wrap a database
// transaction carried in ctx or, in-memory, a lock.
type StoreTx interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// numTxShards spreads in-process transactions across mutexes keyed by
// certificate id.
const numTxShards = 64

const defaultTxTimeout = 5 * time.Second

type shardedTx struct {
	shards  [numTxShards]sync.Mutex
	timeout time.Duration
}

func newShardedTx() *shardedTx {
	return &shardedTx{timeout: defaultTxTimeout}
}

func (t *shardedTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	shard := t.selectShard(ctx)
	t.shards[shard].Lock()
	defer t.shards[shard].Unlock()

	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	return fn(ctx)
}

func (t *shardedTx) selectShard(ctx context.Context) int {
	key, _ := ctx.Value(txKeyCtx).(string)
	if key == "" {
		return 0
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % numTxShards)
}

type txKey struct{}

var txKeyCtx = txKey{}

// withTxKey scopes an in-process transaction to one certificate.
func withTxKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, txKeyCtx, key)
}
