package retry

import (
	"context"
	"errors"
	"math/rand"
	"time"
)

// TransientError wraps failures worth retrying: transaction conflicts,
// serialization failures, timeouts. Business errors are never wrapped.
type TransientError struct {
	Err error
}

func (e TransientError) Error() string {
	return "transient: " + e.Err.Error()
}

func (e TransientError) Unwrap() error {
	return e.Err
}

func Transient(err error) error {
	if err == nil {
		return nil
	}
	return TransientError{Err: err}
}

func IsTransient(err error) bool {
	var te TransientError
	return errors.As(err, &te)
}

// Do runs fn up to attempts times, backing off exponentially with
// jitter between attempts. Only transient errors are retried; anything
// else returns immediately. The last error is returned unwrapped so
// callers see the underlying failure once retries are exhausted.
func Do(ctx context.Context, attempts int, base time.Duration, fn func(ctx context.Context) error) error {
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for i := 0; i < attempts; i++ {
		err = fn(ctx)
		if err == nil || !IsTransient(err) {
			return unwrap(err)
		}

		if i == attempts-1 {
			break
		}

		backoff := base << uint(i)
		backoff += time.Duration(rand.Int63n(int64(base)))

		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return unwrap(err)
}

func unwrap(err error) error {
	var te TransientError
	if errors.As(err, &te) {
		return te.Err
	}
	return err
}
