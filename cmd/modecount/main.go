// Command modecount prints the most frequent value of a file holding one
// integer in [0, 999] per line:
//
//	modecount [flags] <input-file-path>
//	Found <value>, max: <count>
//
// Every flag has an environment fallback (THREADS, ELEMENTS, WORD_WIDTH,
// STRATEGY, ...); run with -h for the full list.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"runtime/debug"
	"time"

	"modecount/internal/config"
	"modecount/internal/metrics"
	"modecount/internal/metrics/datadog"
	"modecount/internal/metrics/prompush"
	"modecount/internal/mode"
	"modecount/internal/parser/ints"
	"modecount/internal/report"
	"modecount/internal/storage"

	// register all run-history backends with the storage factory.
	_ "modecount/internal/storage/all"

	"github.com/pkg/profile"
)

// Exit codes.
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Getenv, os.Stdout, os.Stderr))
}

// run is main without the process globals; it returns the exit code.
func run(ctx context.Context, args []string, getenv func(string) string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("modecount", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: modecount [flags] <input-file-path>")
		fs.PrintDefaults()
	}

	cfg, err := config.LoadFromArgs(fs, getenv, args)
	if errors.Is(err, flag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		return exitUsage
	}
	if cfg.Path == "" {
		fs.Usage()
		return exitUsage
	}

	for _, iss := range config.Validate(cfg) {
		fmt.Fprintf(stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
	}
	if err := cfg.Check(); err != nil {
		fmt.Fprintf(stderr, "modecount: %v\n", err)
		return exitError
	}
	// Both already passed Check.
	width, _ := ints.ParseWidth(cfg.WordWidth)
	strategy, _ := mode.ParseStrategy(cfg.Strategy)

	if cfg.Profile != "" {
		defer startProfile(cfg).Stop()
	}

	// Reduce GC frequency during the one-shot run, unless overridden by env.
	if cfg.GCPercent != 0 && getenv("GOGC") == "" {
		prev := debug.SetGCPercent(cfg.GCPercent)
		defer debug.SetGCPercent(prev)
	}

	flush, err := setupMetrics(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "modecount: %v\n", err)
		return exitError
	}
	defer flush()

	start := time.Now()
	rep, err := mode.Run(ctx, cfg.Path, mode.Options{
		Threads:     cfg.Threads,
		Width:       width,
		Strategy:    strategy,
		Elements:    cfg.Elements,
		Fingerprint: cfg.Fingerprint,
		Verify:      cfg.Verify,
		Verbose:     cfg.Verbose,
		Job:         cfg.MetricsJob,
	})
	if err != nil {
		fmt.Fprintf(stderr, "modecount: %v\n", err)
		return exitError
	}

	fmt.Fprintln(stdout, report.Line(rep.Result))

	if cfg.Verbose {
		p := report.NewPrinter()
		log.Printf("summary: %s", report.Summary(p, rep))
		if err := report.WriteSegments(stderr, p, rep); err != nil {
			log.Printf("summary: write segments: %v", err)
		}
	}

	if cfg.StoreKind != "" {
		t0 := time.Now()
		err := saveRun(ctx, cfg, rep, start)
		metrics.RecordStep(cfg.MetricsJob, "store", err, time.Since(t0))
		if err != nil {
			fmt.Fprintf(stderr, "modecount: %v\n", err)
			return exitError
		}
		if cfg.Verbose {
			log.Printf("store: kind=%s table=%s saved", cfg.StoreKind, cfg.StoreTable)
		}
	}
	return exitOK
}

// startProfile starts the profile selected by cfg.Profile, which Validate
// restricts to cpu, mem or trace.
func startProfile(cfg *config.Config) interface{ Stop() } {
	kind := profile.CPUProfile
	switch cfg.Profile {
	case "mem":
		kind = profile.MemProfile
	case "trace":
		kind = profile.TraceProfile
	}
	return profile.Start(kind, profile.ProfilePath(cfg.ProfileDir), profile.NoShutdownHook, profile.Quiet)
}

// setupMetrics installs the configured metrics backend and returns the
// function that flushes it at exit.
func setupMetrics(cfg *config.Config) (func(), error) {
	var b metrics.Backend
	switch cfg.MetricsBackend {
	case "pushgateway":
		pb, err := prompush.NewBackend(cfg.MetricsJob, cfg.PushgatewayURL)
		if err != nil {
			return nil, err
		}
		b = pb
	case "datadog":
		db, err := datadog.NewBackend(datadog.Config{
			Addr:       cfg.DatadogAddr,
			GlobalTags: []string{"job:" + cfg.MetricsJob},
		})
		if err != nil {
			return nil, err
		}
		b = db
	default:
		return func() {}, nil
	}

	if cfg.Verbose {
		log.Printf("metrics: backend=%s job=%s", cfg.MetricsBackend, cfg.MetricsJob)
	}
	metrics.SetBackend(b)
	return func() {
		if err := metrics.Flush(); err != nil {
			log.Printf("metrics: flush error: %v", err)
		}
	}, nil
}

// saveRun appends rep to the run-history table, creating it if needed.
func saveRun(ctx context.Context, cfg *config.Config, rep mode.Report, started time.Time) error {
	repo, err := storage.New(ctx, storage.Config{
		Kind:  cfg.StoreKind,
		DSN:   cfg.StoreDSN,
		Table: cfg.StoreTable,
	})
	if err != nil {
		return err
	}
	defer repo.Close()

	if err := repo.EnsureTable(ctx); err != nil {
		return err
	}
	return repo.SaveRun(ctx, runFromReport(rep, started))
}

func runFromReport(rep mode.Report, started time.Time) storage.Run {
	return storage.Run{
		StartedAt:   started,
		Path:        rep.Path,
		Bytes:       int64(rep.Bytes),
		Fingerprint: rep.Fingerprint,
		Threads:     rep.Threads,
		WordWidth:   int(rep.Width),
		Strategy:    string(rep.Strategy),
		Lines:       rep.Lines,
		Value:       rep.Value,
		Count:       rep.Count,
		Elapsed:     rep.Elapsed,
	}
}
