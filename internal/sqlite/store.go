// Package sqlite implements the SQLite store behind mart.
// It owns the connection, the embedded schema migrations, first-run seeding,
// and the classification of driver errors into constraint violations and
// faults.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/mesh-intelligence/mart/internal/logger"
	"github.com/mesh-intelligence/mart/pkg/types"
)

// DatabaseFileName is the SQLite file created inside Config.DataDir.
const DatabaseFileName = "mart.db"

// Ping retry bounds used while the database file is locked by another
// process.
const (
	pingRetries  = 5
	pingInterval = 100 * time.Millisecond
)

// Store is an open, migrated SQLite database.
type Store struct {
	db   *sql.DB
	path string
}

// Open validates cfg, creates DataDir if needed, opens the database, applies
// the embedded migrations, and seeds it when cfg.Seed is set.
func Open(ctx context.Context, cfg types.Config) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := logger.FromContext(ctx)

	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("sqlite: create data dir: %w", err)
	}

	path := filepath.Join(dataDir, DatabaseFileName)
	db, err := sql.Open(driverName, buildDSN(path, cfg.GetBusyTimeout()))
	if err != nil {
		return nil, fmt.Errorf("sqlite: open database: %w", err)
	}
	// One connection: pragmas are per connection and the tracking session
	// performs exactly one round-trip per commit.
	db.SetMaxOpenConns(1)

	if err := ping(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: ping: %w", err)
	}
	if err := applyMigrations(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	if cfg.Seed {
		if err := Seed(ctx, db); err != nil {
			db.Close()
			return nil, fmt.Errorf("sqlite: seed: %w", err)
		}
	}

	log.Debug("sqlite store opened", "path", path, "seed", cfg.Seed)
	return &Store{db: db, path: path}, nil
}

// DB returns the underlying handle.
func (s *Store) DB() *sql.DB { return s.db }

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

// Close releases the database handle. Close is idempotent.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func buildDSN(path string, busy time.Duration) string {
	return fmt.Sprintf("%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)",
		path, busy.Milliseconds())
}

// ping retries only while the database reports itself busy or locked.
func ping(ctx context.Context, db *sql.DB) error {
	backoff := retry.WithMaxRetries(pingRetries, retry.NewConstant(pingInterval))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := db.PingContext(ctx); err != nil {
			if IsBusy(err) {
				return retry.RetryableError(err)
			}
			return err
		}
		return nil
	})
}
