// Package mysql implements a MySQL run history using go-sql-driver/mysql.
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"modecount/internal/storage"

	"github.com/go-sql-driver/mysql"
)

// Config holds MySQL repository configuration.
type Config struct {
	DSN   string // e.g. "user:pass@tcp(localhost:3306)/runs"
	Table string
}

// Repository is a MySQL-backed storage.Repository.
type Repository struct {
	db     *sql.DB
	cfg    Config
	insert string
}

// NewRepository constructs a Repository and returns a Close function for cleanup.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	mcfg, err := parseDSN(cfg.DSN)
	if err != nil {
		return nil, nil, err
	}
	conn, err := mysql.NewConnector(mcfg)
	if err != nil {
		return nil, nil, fmt.Errorf("mysql: connector: %w", err)
	}
	db := sql.OpenDB(conn)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("mysql: ping: %w", err)
	}
	close := func() { _ = db.Close() }
	return &Repository{db: db, cfg: cfg, insert: insertSQL(cfg.Table)}, close, nil
}

// parseDSN validates dsn and forces time values to round-trip as time.Time.
func parseDSN(dsn string) (*mysql.Config, error) {
	mcfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("mysql dsn: %w", err)
	}
	mcfg.ParseTime = true
	mcfg.Loc = time.UTC
	return mcfg, nil
}

// EnsureTable creates the run-history table when it is missing.
func (r *Repository) EnsureTable(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createSQL(r.cfg.Table)); err != nil {
		return fmt.Errorf("mysql: create table: %w", err)
	}
	return nil
}

// SaveRun inserts one run.
func (r *Repository) SaveRun(ctx context.Context, run storage.Run) error {
	if _, err := r.db.ExecContext(ctx, r.insert, run.Values()...); err != nil {
		return fmt.Errorf("mysql: insert run: %w", err)
	}
	return nil
}

func createSQL(table string) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	started_at DATETIME(6) NOT NULL,
	path VARCHAR(4096) NOT NULL,
	bytes BIGINT NOT NULL,
	fingerprint VARCHAR(16) NOT NULL,
	threads INT NOT NULL,
	word_width SMALLINT NOT NULL,
	strategy VARCHAR(16) NOT NULL,
	lines BIGINT NOT NULL,
	mode_value SMALLINT NOT NULL,
	mode_count BIGINT NOT NULL,
	elapsed_us BIGINT NOT NULL
)`, storage.QuoteFQN(table, myIdent))
}

func insertSQL(table string) string {
	return storage.InsertSQL(table, myIdent, func(int) string { return "?" })
}

// myIdent backtick-quotes a single identifier.
func myIdent(id string) string { return "`" + strings.ReplaceAll(id, "`", "``") + "`" }
