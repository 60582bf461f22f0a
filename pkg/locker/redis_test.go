package locker

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	testPrefix  = "media-fetch"
	testLockKey = "usage-report"
)

func newTestLocker(t *testing.T, mr *miniredis.Miniredis) *RedisLocker {
	t.Helper()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisLocker(client, testPrefix, zap.NewNop())
}

func TestRedisLocker_AcquireUsesPrefixedKey(t *testing.T) {
	mr := miniredis.RunT(t)
	l := newTestLocker(t, mr)

	acquired, err := l.Acquire(context.Background(), testLockKey, 5*time.Second)

	require.NoError(t, err)
	assert.True(t, acquired)
	assert.True(t, mr.Exists("media-fetch:lock:usage-report"))
}

func TestRedisLocker_SecondInstanceIsRejected(t *testing.T) {
	mr := miniredis.RunT(t)
	first, second := newTestLocker(t, mr), newTestLocker(t, mr)
	ctx := context.Background()

	acquired, err := first.Acquire(ctx, testLockKey, 5*time.Second)
	require.NoError(t, err)
	require.True(t, acquired)

	acquired, _ = second.Acquire(ctx, testLockKey, 5*time.Second)
	assert.False(t, acquired)

	require.NoError(t, second.Release(ctx, testLockKey))
	require.NoError(t, first.Release(ctx, testLockKey))

	acquired, err = second.Acquire(ctx, testLockKey, 5*time.Second)
	require.NoError(t, err)
	assert.True(t, acquired)
}

func TestRedisLocker_ConcurrentAcquisition(t *testing.T) {
	mr := miniredis.RunT(t)

	const instances = 5
	results := make(chan bool, instances)
	for i := 0; i < instances; i++ {
		l := newTestLocker(t, mr)
		go func() {
			acquired, _ := l.Acquire(context.Background(), testLockKey, 2*time.Second)
			results <- acquired
		}()
	}

	won := 0
	for i := 0; i < instances; i++ {
		if <-results {
			won++
		}
	}

	assert.Equal(t, 1, won)
}

func TestRedisLocker_CanceledContext(t *testing.T) {
	mr := miniredis.RunT(t)
	l := newTestLocker(t, mr)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	acquired, err := l.Acquire(ctx, testLockKey, 5*time.Second)

	assert.Error(t, err)
	assert.False(t, acquired)
}
