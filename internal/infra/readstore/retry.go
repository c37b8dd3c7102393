package readstore

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgErrCodeSerializationFailure = "40001"
	pgErrCodeDeadlockDetected     = "40P01"

	readRetryDelay = 50 * time.Millisecond
)

// withReadRetry runs fn and retries it exactly once on a transient database
// error. Writes go through the unit of work and are never retried here.
func withReadRetry[T any](ctx context.Context, fn func(ctx context.Context) (T, error)) (T, error) {
	result, err := fn(ctx)
	if err == nil || !isTransient(err) {
		return result, err
	}

	select {
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	case <-time.After(readRetryDelay):
	}

	return fn(ctx)
}

func isTransient(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case pgErrCodeSerializationFailure, pgErrCodeDeadlockDetected:
		return true
	default:
		return false
	}
}
