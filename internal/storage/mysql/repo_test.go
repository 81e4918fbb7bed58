package mysql

import (
	"context"
	"strings"
	"testing"
	"time"

	"modecount/internal/storage"
)

// TestAdapterRegistration stubs newRepository, so it does not run in
// parallel.
func TestAdapterRegistration(t *testing.T) {
	orig := newRepository
	defer func() { newRepository = orig }()

	var gotCfg Config
	closed := false
	newRepository = func(ctx context.Context, cfg Config) (*Repository, func(), error) {
		gotCfg = cfg
		return &Repository{}, func() { closed = true }, nil
	}

	repo, err := storage.New(context.Background(), storage.Config{
		Kind:  "mysql",
		DSN:   "user:pass@tcp(localhost:3306)/runs",
		Table: "modecount_runs",
	})
	if err != nil {
		t.Fatalf("storage.New: %v", err)
	}
	if gotCfg.DSN != "user:pass@tcp(localhost:3306)/runs" {
		t.Fatalf("cfg.DSN = %q", gotCfg.DSN)
	}
	repo.Close()
	if !closed {
		t.Fatal("Close() did not invoke closeFn")
	}
}

func TestParseDSN(t *testing.T) {
	t.Parallel()

	cfg, err := parseDSN("user:pass@tcp(db:3306)/runs")
	if err != nil {
		t.Fatalf("parseDSN: %v", err)
	}
	if cfg.Addr != "db:3306" || cfg.DBName != "runs" || !cfg.ParseTime || cfg.Loc != time.UTC {
		t.Fatalf("parsed = %+v", cfg)
	}

	if _, err := parseDSN("user:pass@tcp(db:3306)runs"); err == nil {
		t.Fatal("expected error for DSN without '/'")
	}
}

func TestSQL(t *testing.T) {
	t.Parallel()

	ins := insertSQL("runs")
	if !strings.HasPrefix(ins, "INSERT INTO `runs` (`started_at`") || strings.Count(ins, "?") != len(storage.Columns) {
		t.Fatalf("insertSQL = %s", ins)
	}
	if !strings.Contains(createSQL("app.runs"), "CREATE TABLE IF NOT EXISTS `app`.`runs`") {
		t.Fatalf("createSQL = %s", createSQL("app.runs"))
	}
}
