package postgres

import (
	"context"
	"errors"
	"time"

	"log/slog"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL error codes marking a transient conflict between concurrent
// ledger writes.
const (
	pgErrSerializationFailure = "40001"
	pgErrDeadlock             = "40P01"
)

// Ledger writes are short transactions contending only on the trip
// version row, so conflicts clear quickly; retry fast and give up early
// rather than holding the request open.
const (
	defaultMaxAttempts     = 4
	defaultInitialInterval = 25 * time.Millisecond
	defaultMaxInterval     = 500 * time.Millisecond
	defaultMaxElapsedTime  = 5 * time.Second
)

// Retrier implements usecase.Retrier for transaction writes that race on
// the trip version row.
type Retrier struct {
	logger          *slog.Logger
	maxAttempts     int
	initialInterval time.Duration
	maxInterval     time.Duration
	maxElapsedTime  time.Duration
}

// NewRetrier creates a Retrier tuned for ledger write conflicts.
func NewRetrier() *Retrier {
	return &Retrier{
		logger:          slog.Default(),
		maxAttempts:     defaultMaxAttempts,
		initialInterval: defaultInitialInterval,
		maxInterval:     defaultMaxInterval,
		maxElapsedTime:  defaultMaxElapsedTime,
	}
}

// Retry runs op, backing off exponentially while it fails with a
// serialization failure or deadlock. Any other error aborts immediately
// and is returned as-is.
func (r *Retrier) Retry(ctx context.Context, op func() error) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = r.initialInterval
	policy.MaxInterval = r.maxInterval
	policy.MaxElapsedTime = r.maxElapsedTime

	attempt := 0

	return backoff.Retry(func() error {
		attempt++

		err := op()
		if err == nil {
			return nil
		}

		code, transient := conflictCode(err)
		if !transient || attempt >= r.maxAttempts {
			return backoff.Permanent(err)
		}

		r.logger.Warn("ledger write conflict, retrying",
			"pg_code", code,
			"attempt", attempt,
			"error", err,
		)

		return err
	}, backoff.WithContext(policy, ctx))
}

// conflictCode extracts the PostgreSQL error code and reports whether it
// marks a retryable write conflict.
func conflictCode(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return "", false
	}

	switch pgErr.Code {
	case pgErrSerializationFailure, pgErrDeadlock:
		return pgErr.Code, true
	}

	return pgErr.Code, false
}
