package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/avast/retry-go/v4"
	"go.uber.org/zap"

	"github.com/teranos/cuebit/errors"
	"github.com/teranos/cuebit/sym"
)

// Beginner is satisfied by *sql.DB. Tests pass a sqlmock-backed *sql.DB.
type Beginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// WithTx runs fn inside a transaction. The transaction commits when fn returns
// nil and rolls back when fn returns an error or panics.
func WithTx(ctx context.Context, db Beginner, fn func(*sql.Tx) error) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin transaction")
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				err = errors.WithSecondaryError(err, rbErr)
			}
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "commit transaction")
	}
	return nil
}

// RetryPolicy controls how WithRetryTx retries transactions that hit a busy database.
type RetryPolicy struct {
	Attempts uint
	Delay    time.Duration
}

// DefaultRetryPolicy retries a handful of times with a short backoff.
var DefaultRetryPolicy = RetryPolicy{Attempts: 5, Delay: 20 * time.Millisecond}

// WithRetryTx is WithTx, rerunning the whole transaction while SQLite reports
// the database as busy or locked. Any other error is returned immediately.
func WithRetryTx(ctx context.Context, db Beginner, policy RetryPolicy, logger *zap.SugaredLogger, fn func(*sql.Tx) error) error {
	if policy.Attempts == 0 {
		policy = DefaultRetryPolicy
	}

	return retry.Do(
		func() error {
			return WithTx(ctx, db, fn)
		},
		retry.Context(ctx),
		retry.Attempts(policy.Attempts),
		retry.Delay(policy.Delay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(IsBusy),
		retry.OnRetry(func(n uint, err error) {
			if logger != nil {
				logger.Debugw("Retrying busy transaction",
					"symbol", sym.DB,
					"attempt", n+1,
					"error", err,
				)
			}
		}),
	)
}
