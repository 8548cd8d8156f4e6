package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/iho/splitledger/internal/domain"
)

// ErrEmptyLockKey is returned when WithLock is called without a key.
var ErrEmptyLockKey = errors.New("lock key cannot be empty")

// LockOptions configures lock acquisition.
type LockOptions struct {
	// Expiry releases the lock automatically if the holder dies. A live
	// holder renews it every Expiry/2 until fn returns.
	Expiry time.Duration
	// Tries is the number of acquisition attempts before giving up.
	Tries int
	// RetryDelay is the pause between attempts.
	RetryDelay time.Duration
}

// DefaultLockOptions waits up to about three seconds for a busy lock.
func DefaultLockOptions() LockOptions {
	return LockOptions{
		Expiry:     10 * time.Second,
		Tries:      32,
		RetryDelay: 100 * time.Millisecond,
	}
}

// Locker implements usecase.Locker with redsync, so settlements are
// serialized across every server instance sharing the Redis.
type Locker struct {
	rs     *redsync.Redsync
	opts   LockOptions
	prefix string
	logger zerolog.Logger
}

// NewLocker creates a Locker over client.
func NewLocker(client redis.UniversalClient, opts LockOptions, logger zerolog.Logger) *Locker {
	if opts.Expiry <= 0 {
		opts.Expiry = DefaultLockOptions().Expiry
	}
	if opts.Tries < 1 {
		opts.Tries = 1
	}

	return &Locker{
		rs:     redsync.New(goredis.NewPool(client)),
		opts:   opts,
		prefix: "lock:",
		logger: logger,
	}
}

// WithLock runs fn while holding the lock for key. The lock is extended
// in the background for as long as fn runs. A lock still held by someone
// else after all tries yields domain.ErrLockNotAcquired. Errors from fn
// are returned unchanged.
func (l *Locker) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	if strings.TrimSpace(key) == "" {
		return ErrEmptyLockKey
	}

	mutex := l.rs.NewMutex(
		l.prefix+key,
		redsync.WithExpiry(l.opts.Expiry),
		redsync.WithTries(l.opts.Tries),
		redsync.WithRetryDelay(l.opts.RetryDelay),
	)

	if err := mutex.LockContext(ctx); err != nil {
		if isContention(err) {
			l.logger.Debug().Str("lock_key", key).Msg("lock busy")
			return fmt.Errorf("%w: %s", domain.ErrLockNotAcquired, key)
		}
		return fmt.Errorf("acquire lock %s: %w", key, err)
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		l.keepAlive(ctx, mutex, key, stop)
	}()

	defer func() {
		close(stop)
		<-done
		// Release even if the caller's context is already done.
		if ok, err := mutex.UnlockContext(context.WithoutCancel(ctx)); !ok || err != nil {
			l.logger.Error().Err(err).Str("lock_key", key).Bool("unlock_ok", ok).Msg("failed to release lock")
		}
	}()

	return fn(ctx)
}

// keepAlive extends mutex every half expiry until stop is closed. A failed
// extension is logged and retried on the next tick; the unique
// idempotency key still rejects a duplicate write if the lock lapses.
func (l *Locker) keepAlive(ctx context.Context, mutex *redsync.Mutex, key string, stop <-chan struct{}) {
	ticker := time.NewTicker(l.opts.Expiry / 2)
	defer ticker.Stop()

	extendCtx := context.WithoutCancel(ctx)
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if ok, err := mutex.ExtendContext(extendCtx); !ok || err != nil {
				l.logger.Warn().Err(err).Str("lock_key", key).Bool("extend_ok", ok).Msg("failed to extend lock")
			}
		}
	}
}

func isContention(err error) bool {
	var taken *redsync.ErrTaken
	return errors.Is(err, redsync.ErrFailed) ||
		errors.As(err, &taken) ||
		strings.Contains(err.Error(), "lock already taken")
}
