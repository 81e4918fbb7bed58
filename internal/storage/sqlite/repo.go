// Package sqlite implements a SQLite-backed run history using database/sql
// and the pure-Go modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"modecount/internal/storage"

	_ "modernc.org/sqlite"
)

// Config holds SQLite repository configuration derived from storage.Config.
type Config struct {
	// DSN is a SQLite connection string or file path, e.g.:
	//   "file:runs.db?_pragma=busy_timeout(5000)"
	//   "runs.db"
	DSN string

	// Table is the run-history table. "main.runs" style names are passed
	// through.
	Table string
}

// Repository is a SQLite-backed storage.Repository.
type Repository struct {
	db     *sql.DB
	cfg    Config
	insert string
}

// NewRepository opens a SQLite connection and returns a Repository plus a
// Close function for cleanup.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, nil, fmt.Errorf("sqlite: DSN must not be empty")
	}

	db, err := sql.Open("sqlite", cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("sqlite: open: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("sqlite: ping: %w", err)
	}

	closeFn := func() { db.Close() }
	return &Repository{
		db:     db,
		cfg:    cfg,
		insert: storage.InsertSQL(cfg.Table, quoteIdent, func(int) string { return "?" }),
	}, closeFn, nil
}

// EnsureTable creates the run-history table when it is missing.
func (r *Repository) EnsureTable(ctx context.Context) error {
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	started_at TIMESTAMP NOT NULL,
	path TEXT NOT NULL,
	bytes INTEGER NOT NULL,
	fingerprint TEXT NOT NULL,
	threads INTEGER NOT NULL,
	word_width INTEGER NOT NULL,
	strategy TEXT NOT NULL,
	lines INTEGER NOT NULL,
	mode_value INTEGER NOT NULL,
	mode_count INTEGER NOT NULL,
	elapsed_us INTEGER NOT NULL
)`, storage.QuoteFQN(r.cfg.Table, quoteIdent))
	if _, err := r.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("sqlite: create table: %w", err)
	}
	return nil
}

// SaveRun inserts one run.
func (r *Repository) SaveRun(ctx context.Context, run storage.Run) error {
	if _, err := r.db.ExecContext(ctx, r.insert, run.Values()...); err != nil {
		return fmt.Errorf("sqlite: insert run: %w", err)
	}
	return nil
}

// quoteIdent double-quotes a single identifier.
func quoteIdent(id string) string { return `"` + strings.ReplaceAll(id, `"`, `""`) + `"` }
