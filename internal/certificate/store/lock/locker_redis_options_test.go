package lock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRedisLockerOptions(t *testing.T) {
	l := NewRedis(nil)
	assert.Equal(t, defaultWait, l.wait)
	assert.Equal(t, defaultTTL, l.ttl)

	l = NewRedis(nil, WithWait(0), WithTTL(time.Minute))
	assert.Zero(t, l.wait, "zero wait makes Acquire a single attempt")
	assert.Equal(t, time.Minute, l.ttl)

	l = NewRedis(nil, WithWait(-time.Second), WithTTL(0))
	assert.Equal(t, defaultWait, l.wait)
	assert.Equal(t, defaultTTL, l.ttl)
}
