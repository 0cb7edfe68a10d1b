// Package slotlock guards check-then-insert sections with a short-lived Redis lock.
package slotlock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrLockNotAcquired is returned when another request held the lock for the whole wait budget
var ErrLockNotAcquired = errors.New("slotlock: lock not acquired")

const (
	keyPrefix = "lock:appointments:"

	minRetryDelay = 10 * time.Millisecond
	maxRetryDelay = 200 * time.Millisecond
)

// Locker runs fn while holding a named lock
type Locker interface {
	WithLock(ctx context.Context, name string, fn func(ctx context.Context) error) error
}

// Key builds the lock key for a calendar date ("2006-01-02")
func Key(date string) string {
	return keyPrefix + date
}

// RedisLocker implements Locker with SET NX and a token-checked release.
// A held key is polled with exponential backoff until the wait budget runs out,
// so concurrent requests for the same date queue up instead of failing.
type RedisLocker struct {
	client *redis.Client
	ttl    time.Duration
	wait   time.Duration
}

// NewRedisLocker creates a locker whose keys expire after ttl.
// Acquisition waits up to ttl by default.
func NewRedisLocker(client *redis.Client, ttl time.Duration) *RedisLocker {
	return &RedisLocker{client: client, ttl: ttl, wait: ttl}
}

// WithWait sets how long WithLock keeps retrying a held key
func (l *RedisLocker) WithWait(wait time.Duration) *RedisLocker {
	if wait >= 0 {
		l.wait = wait
	}
	return l
}

func (l *RedisLocker) WithLock(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	key := Key(name)
	token := uuid.NewString()

	if err := l.acquire(ctx, key, token); err != nil {
		return err
	}

	defer func() {
		// контекст запроса мог быть отменен, снимаем блокировку независимо от него
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
		defer cancel()
		_ = l.release(releaseCtx, key, token)
	}()

	lockedCtx, cancel := context.WithTimeout(ctx, l.ttl)
	defer cancel()

	return fn(lockedCtx)
}

func (l *RedisLocker) acquire(ctx context.Context, key, token string) error {
	deadline := time.Now().Add(l.wait)
	delay := minRetryDelay

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return fmt.Errorf("slotlock: acquire %s: %w", key, err)
		}
		if ok {
			return nil
		}

		if time.Now().Add(delay).After(deadline) {
			return fmt.Errorf("%w: %s held for %s", ErrLockNotAcquired, key, l.wait)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("slotlock: acquire %s: %w", key, ctx.Err())
		case <-timer.C:
		}

		delay = min(delay*2, maxRetryDelay)
	}
}

var unlockScript = redis.NewScript(`
local val = redis.call("GET", KEYS[1])
if val == ARGV[1] then
  return redis.call("DEL", KEYS[1])
else
  return 0
end
`)

func (l *RedisLocker) release(ctx context.Context, key, token string) error {
	_, err := unlockScript.Run(ctx, l.client, []string{key}, token).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("slotlock: release %s: %w", key, err)
	}
	return nil
}

// NoopLocker runs fn directly. Used when Redis is disabled.
type NoopLocker struct{}

func (NoopLocker) WithLock(ctx context.Context, _ string, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// NewRedisClient connects and pings Redis
func NewRedisClient(ctx context.Context, addr, username, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Username:     username,
		Password:     password,
		DB:           db,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		PoolSize:     10,
		MinIdleConns: 1,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("slotlock: ping redis: %w", err)
	}

	return rdb, nil
}
