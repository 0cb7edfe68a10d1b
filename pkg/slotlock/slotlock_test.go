package slotlock

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "lock:appointments:2024-06-10", Key("2024-06-10"))
}

func TestNoopLocker_RunsFn(t *testing.T) {
	called := false
	err := NoopLocker{}.WithLock(context.Background(), "2024-06-10", func(ctx context.Context) error {
		called = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, called)
}

func TestNoopLocker_PropagatesError(t *testing.T) {
	boom := errors.New("boom")
	err := NoopLocker{}.WithLock(context.Background(), "2024-06-10", func(ctx context.Context) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestRedisLocker_UnreachableServer(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	locker := NewRedisLocker(client, time.Second)
	called := false
	err := locker.WithLock(context.Background(), "2024-06-10", func(ctx context.Context) error {
		called = true
		return nil
	})

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrLockNotAcquired)
	assert.False(t, called)
}

func newMiniredis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisLocker_ReleasesKey(t *testing.T) {
	mr, client := newMiniredis(t)
	locker := NewRedisLocker(client, 5*time.Second)

	err := locker.WithLock(context.Background(), "2024-06-10", func(ctx context.Context) error {
		assert.True(t, mr.Exists(Key("2024-06-10")))
		return nil
	})
	require.NoError(t, err)
	assert.False(t, mr.Exists(Key("2024-06-10")))
}

func TestRedisLocker_DoesNotReleaseForeignToken(t *testing.T) {
	mr, client := newMiniredis(t)
	locker := NewRedisLocker(client, 5*time.Second)

	err := locker.WithLock(context.Background(), "2024-06-10", func(ctx context.Context) error {
		// ключ истек и перехвачен другим владельцем
		require.NoError(t, mr.Set(Key("2024-06-10"), "other-owner"))
		return nil
	})
	require.NoError(t, err)

	val, err := mr.Get(Key("2024-06-10"))
	require.NoError(t, err)
	assert.Equal(t, "other-owner", val)
}

func TestRedisLocker_WaitsForHolder(t *testing.T) {
	_, client := newMiniredis(t)
	locker := NewRedisLocker(client, 5*time.Second)

	acquired := make(chan struct{})
	release := make(chan struct{})

	var (
		mu    sync.Mutex
		order []string
	)
	record := func(s string) {
		mu.Lock()
		defer mu.Unlock()
		order = append(order, s)
	}

	holderErr := make(chan error, 1)
	go func() {
		holderErr <- locker.WithLock(context.Background(), "2024-06-10", func(ctx context.Context) error {
			close(acquired)
			<-release
			record("first")
			return nil
		})
	}()
	<-acquired

	waiterErr := make(chan error, 1)
	go func() {
		waiterErr <- locker.WithLock(context.Background(), "2024-06-10", func(ctx context.Context) error {
			record("second")
			return nil
		})
	}()

	time.Sleep(50 * time.Millisecond)
	close(release)

	require.NoError(t, <-holderErr)
	require.NoError(t, <-waiterErr)
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestRedisLocker_OtherDateNotBlocked(t *testing.T) {
	_, client := newMiniredis(t)
	locker := NewRedisLocker(client, 5*time.Second).WithWait(0)

	err := locker.WithLock(context.Background(), "2024-06-10", func(ctx context.Context) error {
		return locker.WithLock(ctx, "2024-06-11", func(ctx context.Context) error { return nil })
	})
	assert.NoError(t, err)
}

func TestRedisLocker_WaitExhausted(t *testing.T) {
	mr, client := newMiniredis(t)
	require.NoError(t, mr.Set(Key("2024-06-10"), "held"))

	locker := NewRedisLocker(client, 5*time.Second).WithWait(50 * time.Millisecond)
	called := false
	start := time.Now()
	err := locker.WithLock(context.Background(), "2024-06-10", func(ctx context.Context) error {
		called = true
		return nil
	})

	assert.ErrorIs(t, err, ErrLockNotAcquired)
	assert.False(t, called)
	assert.Less(t, time.Since(start), time.Second)
}

func TestRedisLocker_ContextCancelledWhileWaiting(t *testing.T) {
	mr, client := newMiniredis(t)
	require.NoError(t, mr.Set(Key("2024-06-10"), "held"))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	err := NewRedisLocker(client, 5*time.Second).WithLock(ctx, "2024-06-10", func(ctx context.Context) error {
		return nil
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.NotErrorIs(t, err, ErrLockNotAcquired)
}
