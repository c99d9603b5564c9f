// Package storage provides the SQLite implementation of the prompt registry store.
// It handles transactions, JSON serialization of tags and meta, and query construction.
package storage

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"github.com/teranos/cuebit/cue"
	"github.com/teranos/cuebit/db"
	"github.com/teranos/cuebit/errors"
)

// Store is a cue.Store backed by a SQLite database opened with package db.
type Store struct {
	db     *sql.DB
	logger *zap.SugaredLogger
	retry  db.RetryPolicy
}

var _ cue.Store = (*Store)(nil)

// New creates a store over a migrated database. A nil logger disables logging.
func New(conn *sql.DB, logger *zap.SugaredLogger) *Store {
	return NewWithRetry(conn, logger, db.DefaultRetryPolicy)
}

// NewWithRetry creates a store that retries busy transactions according to policy.
func NewWithRetry(conn *sql.DB, logger *zap.SugaredLogger, policy db.RetryPolicy) *Store {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Store{db: conn, logger: logger, retry: policy}
}

// Read runs fn in a transaction.
func (s *Store) Read(ctx context.Context, fn func(cue.Tx) error) error {
	return s.run(ctx, fn)
}

// Write runs fn in a transaction. Connections open write transactions with
// BEGIN IMMEDIATE, so concurrent writers are serialized by SQLite; a writer
// that still finds the database busy is retried from the start.
func (s *Store) Write(ctx context.Context, fn func(cue.Tx) error) error {
	return s.run(ctx, fn)
}

func (s *Store) run(ctx context.Context, fn func(cue.Tx) error) error {
	err := db.WithRetryTx(ctx, s.db, s.retry, s.logger, func(tx *sql.Tx) error {
		return fn(&sqlTx{ctx: ctx, tx: tx})
	})
	if errors.Kind(err) == errors.KindUnknown {
		return storeErr(err, "transaction failed")
	}
	return err
}
