// Package lock provides per-certificate review locks.
package lock

import (
	"context"
	"sync"
)

// LocalLocker serializes review actions within one process. Acquire waits for
// the current holder instead of failing, so the second of two concurrent
// reviewers sees the state the first one left behind.
type LocalLocker struct {
	mu    sync.Mutex
	locks map[string]*entry
}

type entry struct {
	ch   chan struct{}
	refs int
}

func NewLocal() *LocalLocker {
	return &LocalLocker{locks: make(map[string]*entry)}
}

// Acquire blocks until key is free or ctx is done.
func (l *LocalLocker) Acquire(ctx context.Context, key string) (func(context.Context) error, error) {
	l.mu.Lock()
	e, ok := l.locks[key]
	if !ok {
		e = &entry{ch: make(chan struct{}, 1)}
		l.locks[key] = e
	}
	e.refs++
	l.mu.Unlock()

	select {
	case e.ch <- struct{}{}:
	case <-ctx.Done():
		l.unref(key, e)
		return nil, ctx.Err()
	}

	var once sync.Once
	release := func(context.Context) error {
		once.Do(func() {
			<-e.ch
			l.unref(key, e)
		})
		return nil
	}
	return release, nil
}

func (l *LocalLocker) unref(key string, e *entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(l.locks, key)
	}
}
