// Package postgres implements a Postgres run history using pgx v5.
package postgres

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"modecount/internal/storage"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Config holds Postgres repository configuration.
type Config struct {
	DSN   string // connection string for pgxpool
	Table string // target table, e.g. "public.modecount_runs"
}

// Repository is a Postgres-backed storage.Repository.
type Repository struct {
	pool   *pgxpool.Pool
	cfg    Config
	insert string
}

// NewRepository constructs a Repository and returns a Close function for cleanup.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	pcfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("postgres: parse dsn: %w", err)
	}
	// One insert per run; a single connection is plenty.
	pcfg.MaxConns = 1

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, nil, fmt.Errorf("pgxpool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("postgres: ping: %w", err)
	}
	close := func() { pool.Close() }
	return &Repository{pool: pool, cfg: cfg, insert: insertSQL(cfg.Table)}, close, nil
}

// EnsureTable creates the run-history table when it is missing.
func (r *Repository) EnsureTable(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, createSQL(r.cfg.Table)); err != nil {
		return fmt.Errorf("postgres: create table: %w", err)
	}
	return nil
}

// SaveRun inserts one run.
func (r *Repository) SaveRun(ctx context.Context, run storage.Run) error {
	if _, err := r.pool.Exec(ctx, r.insert, run.Values()...); err != nil {
		return fmt.Errorf("postgres: insert run: %w", err)
	}
	return nil
}

func createSQL(table string) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	id bigserial PRIMARY KEY,
	started_at timestamptz NOT NULL,
	path text NOT NULL,
	bytes bigint NOT NULL,
	fingerprint text NOT NULL,
	threads integer NOT NULL,
	word_width smallint NOT NULL,
	strategy text NOT NULL,
	lines bigint NOT NULL,
	mode_value smallint NOT NULL,
	mode_count bigint NOT NULL,
	elapsed_us bigint NOT NULL
)`, pgFQN(table))
}

func insertSQL(table string) string {
	return storage.InsertSQL(table, pgIdent, func(i int) string { return "$" + strconv.Itoa(i) })
}

// pgIdent quotes a single identifier.
func pgIdent(id string) string { return pgx.Identifier{id}.Sanitize() }

// pgFQN quotes a possibly schema-qualified name like "public.runs" to
// "public"."runs".
func pgFQN(name string) string { return pgx.Identifier(strings.Split(name, ".")).Sanitize() }
