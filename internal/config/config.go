// Package config centralizes modecount configuration. Every tunable is a
// command-line flag whose default is seeded from an environment variable,
// so the same binary works from a shell and from a container manifest. Flags
// are defined before parsing so that -help lists every knob with its
// effective default.
//
// Typical usage:
//
//	cfg, err := config.Load() // reads os.Args and os.Environ
//
// For tests, prefer LoadFromArgs to keep them hermetic:
//
//	fs := flag.NewFlagSet("test", flag.ContinueOnError)
//	getenv := func(k string) string { return testEnv[k] }
//	cfg, err := config.LoadFromArgs(fs, getenv, []string{"-threads=4", "input.txt"})
package config

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
)

// Config holds all process configuration derived from flags, environment
// variables and the positional input path. It is a plain value and safe to
// copy after construction.
type Config struct {
	// Path is the input file, the single positional argument.
	Path string

	// Count tunables.
	Elements  int    // expected number of lines; 0 disables the check
	Threads   int    // segments scanned in parallel
	WordWidth int    // 8 or 4 bytes per word
	Strategy  string // "private" or "shared"

	Verbose     bool // per-phase timings and a summary on stderr
	Verify      bool // check segment invariants before scanning
	Fingerprint bool // xxh3 of the input, recorded in run history

	// Profiling via github.com/pkg/profile: "", "cpu", "mem" or "trace".
	Profile    string
	ProfileDir string

	// GCPercent is applied with debug.SetGCPercent unless GOGC is set.
	// 0 leaves the runtime default.
	GCPercent int

	// Metrics backend: "none", "pushgateway" or "datadog".
	MetricsBackend string
	PushgatewayURL string
	DatadogAddr    string
	MetricsJob     string

	// Run history. An empty StoreKind disables it.
	StoreKind  string
	StoreDSN   string
	StoreTable string

	// loadIssues collects problems found while loading: unparsable
	// environment values and stray arguments.
	loadIssues []Issue
}

// Defaults.
const (
	DefaultWordWidth  = 8
	DefaultStrategy   = "private"
	DefaultProfileDir = "./profile"
	DefaultGCPercent  = 800
	DefaultStoreTable = "modecount_runs"
	DefaultMetricsJob = "modecount"
)

// LoadFromArgs builds a Config by defining flags on fs, seeding each flag's
// default from getenv, and then parsing args. The first positional argument
// left after the flags is the input path.
//
// Precedence:
//  1. Environment values seed each flag's default.
//  2. Explicit CLI flags (in args) override the seeded defaults.
//
// Environment values that do not parse are kept as issues and reported by
// Validate; the flag keeps its built-in default. The returned error is only
// set when fs.Parse fails (including flag.ErrHelp).
func LoadFromArgs(fs *flag.FlagSet, getenv func(string) string, args []string) (*Config, error) {
	cfg := &Config{}

	envOrDefaultFn := func(k, d string) string {
		if v := getenv(k); v != "" {
			return v
		}
		return d
	}
	intEnvOrDefaultFn := func(k string, d int) int {
		v := strings.TrimSpace(getenv(k))
		if v == "" {
			return d
		}
		i, err := strconv.Atoi(v)
		if err != nil {
			cfg.loadIssues = append(cfg.loadIssues, Issue{
				Severity: SeverityError,
				Path:     "env." + k,
				Message:  fmt.Sprintf("%q is not an integer", v),
			})
			return d
		}
		return i
	}
	boolEnvOrDefaultFn := func(k string, d bool) bool {
		if v := strings.ToLower(getenv(k)); v != "" {
			switch v {
			case "1", "true", "yes", "on":
				return true
			case "0", "false", "no", "off":
				return false
			}
		}
		return d
	}

	// Count
	fs.IntVar(&cfg.Elements, "elements", intEnvOrDefaultFn("ELEMENTS", 0), "Expected number of lines; a mismatch is logged (0 = no check)")
	fs.IntVar(&cfg.Threads, "threads", intEnvOrDefaultFn("THREADS", runtime.NumCPU()), "Number of segments scanned in parallel")
	fs.IntVar(&cfg.WordWidth, "word", intEnvOrDefaultFn("WORD_WIDTH", DefaultWordWidth), "Scan word width in bytes: 4 or 8")
	fs.StringVar(&cfg.Strategy, "strategy", envOrDefaultFn("STRATEGY", DefaultStrategy), "Counting strategy: 'private' or 'shared'")
	fs.BoolVar(&cfg.Verbose, "v", boolEnvOrDefaultFn("VERBOSE", false), "Log phase timings and a summary to stderr")
	fs.BoolVar(&cfg.Verify, "verify", boolEnvOrDefaultFn("VERIFY_SEGMENTS", false), "Check segment invariants before scanning")
	fs.BoolVar(&cfg.Fingerprint, "fingerprint", boolEnvOrDefaultFn("FINGERPRINT", false), "Hash the input with xxh3 while scanning")

	// Runtime
	fs.StringVar(&cfg.Profile, "profile", getenv("PROFILE"), "Profile mode: cpu, mem or trace (empty = off)")
	fs.StringVar(&cfg.ProfileDir, "profile-dir", envOrDefaultFn("PROFILE_DIR", DefaultProfileDir), "Directory for profile output")
	fs.IntVar(&cfg.GCPercent, "gc-percent", intEnvOrDefaultFn("GC_PERCENT", DefaultGCPercent), "GC percent while counting, ignored when GOGC is set (0 = runtime default)")

	// Metrics
	fs.StringVar(&cfg.MetricsBackend, "metrics-backend", envOrDefaultFn("METRICS_BACKEND", "none"), "Metrics backend: none, pushgateway or datadog")
	fs.StringVar(&cfg.PushgatewayURL, "pushgateway-url", getenv("PUSHGATEWAY_URL"), "Prometheus Pushgateway base URL")
	fs.StringVar(&cfg.DatadogAddr, "datadog-addr", getenv("DATADOG_ADDR"), "DogStatsD address, e.g. 127.0.0.1:8125")
	fs.StringVar(&cfg.MetricsJob, "metrics-job", envOrDefaultFn("METRICS_JOB", DefaultMetricsJob), "Job label attached to metrics")

	// Run history
	fs.StringVar(&cfg.StoreKind, "store", getenv("STORE_KIND"), "Run history backend: sqlite, postgres, mssql or mysql (empty = off)")
	fs.StringVar(&cfg.StoreDSN, "store-dsn", getenv("STORE_DSN"), "Run history DSN")
	fs.StringVar(&cfg.StoreTable, "store-table", envOrDefaultFn("STORE_TABLE", DefaultStoreTable), "Run history table")

	if args == nil {
		args = []string{}
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	cfg.Path = fs.Arg(0)
	if fs.NArg() > 1 {
		cfg.loadIssues = append(cfg.loadIssues, Issue{
			Severity: SeverityWarning,
			Path:     "args",
			Message:  fmt.Sprintf("ignoring %d extra argument(s) after %q", fs.NArg()-1, cfg.Path),
		})
	}
	return cfg, nil
}

// Load is the production entry point. It parses os.Args[1:] on
// flag.CommandLine with os.Getenv as the environment source.
func Load() (*Config, error) {
	return LoadFromArgs(flag.CommandLine, os.Getenv, os.Args[1:])
}
