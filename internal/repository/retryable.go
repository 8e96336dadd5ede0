package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrRetryExhausted wraps the last transient failure once every attempt has
// been consumed.
var ErrRetryExhausted = errors.New("failed after retries")

const (
	pgUniqueViolation      = "23505"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

// IsRetryable classifies a failure as a transient conflict worth re-running
// the whole transaction for: a unique violation (two calls raced to the same
// invoice number), a serialization failure or a deadlock. Everything else is
// terminal.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation, pgSerializationFailure, pgDeadlockDetected:
			return true
		}
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "deadlock") || strings.Contains(msg, "serialization")
}

// Retry runs op up to maxAttempts times, backing off between attempts. The op
// must be self-contained: every read the transaction depends on (the issued
// invoice numbers in particular) has to happen inside it, because a competing
// commit is exactly what a retry is compensating for.
func Retry(ctx context.Context, maxAttempts int, op func(context.Context) error) error {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 100 * time.Millisecond
	bo.MaxInterval = 2 * time.Second
	policy := backoff.WithContext(backoff.WithMaxRetries(bo, uint64(maxAttempts-1)), ctx)

	err := backoff.Retry(func() error {
		if err := op(ctx); err != nil {
			if IsRetryable(err) {
				return err
			}
			return backoff.Permanent(err)
		}
		return nil
	}, policy)

	if err != nil && IsRetryable(err) {
		return fmt.Errorf("%w (%d attempts): %v", ErrRetryExhausted, maxAttempts, err)
	}
	return err
}
