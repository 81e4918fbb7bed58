package config

import (
	"errors"
	"flag"
	"io"
	"runtime"
	"testing"
)

func newFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func envFunc(env map[string]string) func(string) string {
	return func(k string) string { return env[k] }
}

// TestLoadFromArgs_EnvDefaultsAndFlags validates the precedence model:
// environment seeds defaults, explicit flags override env.
func TestLoadFromArgs_EnvDefaultsAndFlags(t *testing.T) {
	t.Parallel()

	env := map[string]string{
		"ELEMENTS":        "1000000",
		"THREADS":         "16",
		"WORD_WIDTH":      "4",
		"STRATEGY":        "shared",
		"VERBOSE":         "yes",
		"METRICS_BACKEND": "datadog",
		"DATADOG_ADDR":    "127.0.0.1:8125",
		"STORE_KIND":      "sqlite",
		"STORE_DSN":       "file:runs.db",
	}

	cfg, err := LoadFromArgs(newFlagSet(), envFunc(env), []string{"-threads=3", "-strategy", "private", "input.txt"})
	if err != nil {
		t.Fatalf("LoadFromArgs: %v", err)
	}

	if cfg.Path != "input.txt" {
		t.Fatalf("Path = %q", cfg.Path)
	}
	if cfg.Elements != 1000000 || cfg.WordWidth != 4 || !cfg.Verbose {
		t.Fatalf("env not applied: %+v", cfg)
	}
	if cfg.Threads != 3 || cfg.Strategy != "private" {
		t.Fatalf("flag override not applied: threads=%d strategy=%q", cfg.Threads, cfg.Strategy)
	}
	if cfg.MetricsBackend != "datadog" || cfg.DatadogAddr == "" {
		t.Fatalf("metrics env not applied: %+v", cfg)
	}
	if cfg.StoreKind != "sqlite" || cfg.StoreDSN != "file:runs.db" || cfg.StoreTable != DefaultStoreTable {
		t.Fatalf("store env not applied: %+v", cfg)
	}
}

func TestLoadFromArgs_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := LoadFromArgs(newFlagSet(), envFunc(nil), []string{"in.txt"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Threads != runtime.NumCPU() {
		t.Fatalf("Threads = %d, want NumCPU %d", cfg.Threads, runtime.NumCPU())
	}
	if cfg.WordWidth != DefaultWordWidth || cfg.Strategy != DefaultStrategy {
		t.Fatalf("defaults not set: %+v", cfg)
	}
	if cfg.GCPercent != DefaultGCPercent || cfg.MetricsBackend != "none" || cfg.StoreKind != "" {
		t.Fatalf("defaults not set: %+v", cfg)
	}
	if issues := Validate(cfg); len(issues) != 0 {
		t.Fatalf("default config has issues: %+v", issues)
	}
}

func TestLoadFromArgs_BadIntEnvIsAnIssue(t *testing.T) {
	t.Parallel()

	cfg, err := LoadFromArgs(newFlagSet(), envFunc(map[string]string{"THREADS": "many"}), []string{"in.txt"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Threads != runtime.NumCPU() {
		t.Fatalf("Threads = %d, want built-in default", cfg.Threads)
	}
	if !hasIssue(t, Validate(cfg), SeverityError, "env.THREADS", "not an integer") {
		t.Fatalf("expected env.THREADS issue, got %+v", Validate(cfg))
	}
	if err := cfg.Check(); !errors.Is(err, ErrInvalid) {
		t.Fatalf("Check() = %v, want ErrInvalid", err)
	}
}

func TestLoadFromArgs_ExtraArgsWarn(t *testing.T) {
	t.Parallel()

	cfg, err := LoadFromArgs(newFlagSet(), envFunc(nil), []string{"a.txt", "b.txt"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Path != "a.txt" {
		t.Fatalf("Path = %q", cfg.Path)
	}
	if !hasIssue(t, Validate(cfg), SeverityWarning, "args", "extra argument") {
		t.Fatalf("expected args warning, got %+v", Validate(cfg))
	}
	if err := cfg.Check(); err != nil {
		t.Fatalf("warnings must not fail Check: %v", err)
	}
}

func TestLoadFromArgs_ParseError(t *testing.T) {
	t.Parallel()

	if _, err := LoadFromArgs(newFlagSet(), envFunc(nil), []string{"-no-such-flag"}); err == nil {
		t.Fatal("expected error for unknown flag")
	}
	if _, err := LoadFromArgs(newFlagSet(), envFunc(nil), []string{"-h"}); !errors.Is(err, flag.ErrHelp) {
		t.Fatalf("-h: err = %v, want flag.ErrHelp", err)
	}
}
