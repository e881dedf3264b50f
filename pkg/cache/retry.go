package cache

import (
	"context"
	goerrors "errors"
	"net"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/drivetrain/pkg/errors"
)

// Backoff is a retry policy for remote cache operations. Only errors of class
// unavailable are retried; everything else returns on the first attempt.
type Backoff struct {
	Attempts int
	Initial  time.Duration
	Max      time.Duration
}

// DefaultBackoff tries three times, waiting 100ms then 200ms.
var DefaultBackoff = Backoff{Attempts: 3, Initial: 100 * time.Millisecond, Max: time.Second}

// NoRetry runs an operation once.
var NoRetry = Backoff{Attempts: 1}

// delay returns the wait before attempt n (1-based, n >= 1).
func (b Backoff) delay(n int) time.Duration {
	d := b.Initial
	for i := 1; i < n; i++ {
		d *= 2
		if b.Max > 0 && d >= b.Max {
			return b.Max
		}
	}
	return d
}

// Do runs fn until it succeeds, fails with a non-transient error, the
// attempts run out or ctx is done.
func (b Backoff) Do(ctx context.Context, fn func() error) error {
	attempts := max(b.Attempts, 1)
	var err error
	for n := 1; ; n++ {
		if err = fn(); err == nil || !errors.IsUnavailable(err) || n == attempts {
			return err
		}
		t := time.NewTimer(b.delay(n))
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
}

// transient tags network failures from the Redis client as unavailable.
// redis.Nil and command errors pass through untouched.
func transient(op string, err error) error {
	if err == nil || goerrors.Is(err, redis.Nil) {
		return err
	}
	var ne net.Error
	if goerrors.As(err, &ne) {
		return errors.Wrap(errors.ErrCodeUnavailable, err, "redis %s", op)
	}
	return err
}
