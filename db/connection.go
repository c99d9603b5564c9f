package db

import (
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/teranos/cuebit/errors"
	"github.com/teranos/cuebit/sym"
)

// SQLiteBusyTimeoutMS is how long a connection waits on a locked database
// before the driver gives up with SQLITE_BUSY.
const SQLiteBusyTimeoutMS = 5000

// Options tunes how a database is opened. The zero value is usable.
type Options struct {
	// BusyTimeoutMS overrides SQLiteBusyTimeoutMS when positive.
	BusyTimeoutMS int
	// MaxOpenConns caps the connection pool. In-memory databases are always
	// pinned to a single connection so every caller sees the same data.
	MaxOpenConns int
}

// Open opens a SQLite database at the specified path with optimized settings.
// If logger is provided, logs database operations; otherwise operates silently.
func Open(path string, logger *zap.SugaredLogger) (*sql.DB, error) {
	return OpenWithOptions(path, Options{}, logger)
}

// OpenWithOptions opens a SQLite database using opts.
//
// Pragmas are passed through the DSN so that every pooled connection gets them,
// and write transactions begin IMMEDIATE so concurrent writers queue on the
// busy timeout instead of failing a lock upgrade halfway through.
func OpenWithOptions(path string, opts Options, logger *zap.SugaredLogger) (*sql.DB, error) {
	if logger != nil {
		logger.Debugw("Opening database", "path", path, "symbol", sym.DB)
	}

	busyTimeout := opts.BusyTimeoutMS
	if busyTimeout <= 0 {
		busyTimeout = SQLiteBusyTimeoutMS
	}

	memory := isMemoryPath(path)
	db, err := sql.Open("sqlite3", dsn(path, busyTimeout, memory))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open database %s", path)
	}

	switch {
	case memory:
		db.SetMaxOpenConns(1)
	case opts.MaxOpenConns > 0:
		db.SetMaxOpenConns(opts.MaxOpenConns)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "failed to connect to database %s", path)
	}

	if logger != nil {
		logger.Infow("Database opened successfully",
			"path", path,
			"symbol", sym.DB,
			"wal_mode", !memory,
			"foreign_keys", true,
			"busy_timeout_ms", busyTimeout,
		)
	}

	return db, nil
}

// OpenWithMigrations opens the database and brings its schema up to date.
func OpenWithMigrations(path string, logger *zap.SugaredLogger) (*sql.DB, error) {
	return OpenWithMigrationsOptions(path, Options{}, logger)
}

// OpenWithMigrationsOptions is OpenWithMigrations with explicit options.
func OpenWithMigrationsOptions(path string, opts Options, logger *zap.SugaredLogger) (*sql.DB, error) {
	db, err := OpenWithOptions(path, opts, logger)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}

	if err := Migrate(db, logger); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to run migrations")
	}

	return db, nil
}

func isMemoryPath(path string) bool {
	return path == ":memory:" || strings.Contains(path, "mode=memory")
}

func dsn(path string, busyTimeout int, memory bool) string {
	params := url.Values{}
	params.Set("_foreign_keys", "on")
	params.Set("_busy_timeout", fmt.Sprint(busyTimeout))
	params.Set("_txlock", "immediate")
	if !memory {
		params.Set("_journal_mode", "WAL")
	}

	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + params.Encode()
}
