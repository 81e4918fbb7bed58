// Package mssql implements a Microsoft SQL Server run history using
// go-mssqldb.
package mssql

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"modecount/internal/storage"

	_ "github.com/microsoft/go-mssqldb"
	"github.com/microsoft/go-mssqldb/msdsn"
)

// Config holds MSSQL repository configuration.
type Config struct {
	DSN   string
	Table string // e.g. "dbo.modecount_runs"
}

// Repository is an MSSQL-backed storage.Repository.
type Repository struct {
	db     *sql.DB
	cfg    Config
	insert string
}

// NewRepository constructs a Repository and returns a Close function for cleanup.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	// Validate DSN early to fail fast on obvious mistakes.
	if _, err := msdsn.Parse(cfg.DSN); err != nil {
		return nil, nil, fmt.Errorf("mssql dsn: %w", err)
	}
	db, err := sql.Open("sqlserver", cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("sql.Open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("ping: %w", err)
	}
	close := func() { _ = db.Close() }
	return &Repository{db: db, cfg: cfg, insert: insertSQL(cfg.Table)}, close, nil
}

// EnsureTable creates the run-history table when it is missing.
func (r *Repository) EnsureTable(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createSQL(r.cfg.Table)); err != nil {
		return fmt.Errorf("mssql: create table: %w", err)
	}
	return nil
}

// SaveRun inserts one run.
func (r *Repository) SaveRun(ctx context.Context, run storage.Run) error {
	if _, err := r.db.ExecContext(ctx, r.insert, run.Values()...); err != nil {
		return fmt.Errorf("mssql: insert run: %w", err)
	}
	return nil
}

func createSQL(table string) string {
	return fmt.Sprintf(`IF OBJECT_ID(N'%s', N'U') IS NULL
CREATE TABLE %s (
	id BIGINT IDENTITY(1,1) PRIMARY KEY,
	started_at DATETIME2 NOT NULL,
	path NVARCHAR(4000) NOT NULL,
	bytes BIGINT NOT NULL,
	fingerprint VARCHAR(16) NOT NULL,
	threads INT NOT NULL,
	word_width SMALLINT NOT NULL,
	strategy VARCHAR(16) NOT NULL,
	lines BIGINT NOT NULL,
	mode_value SMALLINT NOT NULL,
	mode_count BIGINT NOT NULL,
	elapsed_us BIGINT NOT NULL
)`, strings.ReplaceAll(msFQN(table), "'", "''"), msFQN(table))
}

func insertSQL(table string) string {
	return storage.InsertSQL(table, msIdent, func(i int) string { return "@p" + strconv.Itoa(i) })
}

// msIdent bracket-quotes a single identifier.
func msIdent(id string) string { return `[` + strings.ReplaceAll(id, `]`, `]]`) + `]` }

// msFQN quotes a possibly schema-qualified name like "dbo.runs" to
// "[dbo].[runs]".
func msFQN(name string) string { return storage.QuoteFQN(name, msIdent) }
