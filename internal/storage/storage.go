// Package storage records the outcome of every counting run in a run-history
// table. Backends (sqlite, postgres, mssql, mysql) register a Factory under
// their kind from init; import modecount/internal/storage/all to enable them
// all.
package storage

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"
)

// Config selects and configures a backend.
type Config struct {
	Kind  string // registered backend kind, e.g. "sqlite"
	DSN   string // driver-specific connection string
	Table string // run-history table, optionally schema-qualified
}

// Run is one row of run history.
type Run struct {
	StartedAt   time.Time
	Path        string
	Bytes       int64
	Fingerprint uint64 // xxh3 of the input; 0 when not computed
	Threads     int
	WordWidth   int
	Strategy    string
	Lines       uint64
	Value       int
	Count       uint64
	Elapsed     time.Duration
}

// Columns lists the run-history columns in insert order. Values returns the
// matching arguments.
var Columns = []string{
	"started_at",
	"path",
	"bytes",
	"fingerprint",
	"threads",
	"word_width",
	"strategy",
	"lines",
	"mode_value",
	"mode_count",
	"elapsed_us",
}

// Values returns r as insert arguments aligned with Columns. The fingerprint
// is rendered as 16 hex digits (empty when unset) and counts are converted
// to int64, which every backend accepts.
func (r Run) Values() []any {
	fp := ""
	if r.Fingerprint != 0 {
		fp = fmt.Sprintf("%016x", r.Fingerprint)
	}
	return []any{
		r.StartedAt.UTC(),
		r.Path,
		r.Bytes,
		fp,
		int64(r.Threads),
		int64(r.WordWidth),
		r.Strategy,
		int64(r.Lines),
		int64(r.Value),
		int64(r.Count),
		r.Elapsed.Microseconds(),
	}
}

// Repository persists runs.
type Repository interface {
	// EnsureTable creates the run-history table when it does not exist.
	EnsureTable(ctx context.Context) error
	// SaveRun inserts one run.
	SaveRun(ctx context.Context, r Run) error
	// Close releases the connection pool.
	Close()
}

// Factory opens a Repository for cfg.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register makes a backend available under kind, replacing any previous one.
func Register(kind string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[kind] = f
}

// ListKinds returns the registered kinds in sorted order.
func ListKinds() []string {
	mu.RLock()
	defer mu.RUnlock()
	kinds := make([]string, 0, len(factories))
	for k := range factories {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// New opens the backend registered under cfg.Kind after checking the table
// name.
func New(ctx context.Context, cfg Config) (Repository, error) {
	mu.RLock()
	f, ok := factories[cfg.Kind]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("storage: unsupported kind %q (registered: %s)", cfg.Kind, strings.Join(ListKinds(), ", "))
	}
	if err := ValidateTable(cfg.Table); err != nil {
		return nil, err
	}
	return f(ctx, cfg)
}

var tableRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// ValidateTable accepts "name" or "schema.name" made of letters, digits and
// underscores.
func ValidateTable(table string) error {
	if !tableRe.MatchString(table) {
		return fmt.Errorf("storage: invalid table name %q", table)
	}
	return nil
}

// QuoteFQN quotes every dot-separated part of name with quote.
func QuoteFQN(name string, quote func(string) string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = quote(p)
	}
	return strings.Join(parts, ".")
}

// InsertSQL builds the run insert statement for table. placeholder returns
// the bind marker of the i-th argument, starting at 1.
func InsertSQL(table string, quote func(string) string, placeholder func(i int) string) string {
	cols := make([]string, len(Columns))
	marks := make([]string, len(Columns))
	for i, c := range Columns {
		cols[i] = quote(c)
		marks[i] = placeholder(i + 1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		QuoteFQN(table, quote), strings.Join(cols, ", "), strings.Join(marks, ", "))
}
