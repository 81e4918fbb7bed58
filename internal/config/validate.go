package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"modecount/internal/mode"
	"modecount/internal/parser/ints"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError blocks the run.
	SeverityError IssueSeverity = "error"
	// SeverityWarning is surfaced to the user but does not block the run.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation finding.
//
// Path names the setting, using its flag name (e.g. "threads", "store-dsn")
// or "env.NAME" for an environment variable that could not be parsed.
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a single
// error in contexts that expect error.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// ErrInvalid matches every *ValidationError with errors.Is.
var ErrInvalid = errors.New("config: invalid configuration")

// ValidationError carries the error-severity issues of a Config.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Issues))
	for i, iss := range e.Issues {
		msgs[i] = iss.Path + ": " + iss.Message
	}
	return "config: " + strings.Join(msgs, "; ")
}

// Is reports whether target is ErrInvalid.
func (e *ValidationError) Is(target error) bool { return target == ErrInvalid }

// Check runs Validate and returns a *ValidationError holding every
// error-severity issue, or nil when there is none. Warnings are dropped;
// call Validate to see them.
func (c *Config) Check() error {
	var errs []Issue
	for _, iss := range Validate(c) {
		if iss.Severity == SeverityError {
			errs = append(errs, iss)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return &ValidationError{Issues: errs}
}

var knownStoreKinds = map[string]struct{}{
	"sqlite":   {},
	"postgres": {},
	"mssql":    {},
	"mysql":    {},
}

// tableRe accepts "name" or "schema.name".
var tableRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// Validate performs static checks over cfg and returns every issue found.
// It does not mutate cfg.
func Validate(cfg *Config) []Issue {
	issues := append([]Issue(nil), cfg.loadIssues...)

	if strings.TrimSpace(cfg.Path) == "" {
		issues = append(issues, Issue{SeverityError, "path", "input file path is required"})
	}

	issues = append(issues, validateCount(cfg)...)
	issues = append(issues, validateRuntime(cfg)...)
	issues = append(issues, validateMetrics(cfg)...)
	issues = append(issues, validateStore(cfg)...)
	return issues
}

func validateCount(cfg *Config) []Issue {
	var issues []Issue

	if cfg.Threads < 1 {
		issues = append(issues, Issue{SeverityError, "threads", fmt.Sprintf("must be >= 1 (got %d)", cfg.Threads)})
	}
	if cfg.Elements < 0 {
		issues = append(issues, Issue{SeverityError, "elements", fmt.Sprintf("must be >= 0 (got %d)", cfg.Elements)})
	}
	if _, err := ints.ParseWidth(cfg.WordWidth); err != nil {
		issues = append(issues, Issue{SeverityError, "word", err.Error()})
	}
	if _, err := mode.ParseStrategy(cfg.Strategy); err != nil {
		issues = append(issues, Issue{SeverityError, "strategy", err.Error()})
	}
	return issues
}

func validateRuntime(cfg *Config) []Issue {
	var issues []Issue

	switch cfg.Profile {
	case "", "cpu", "mem", "trace":
	default:
		issues = append(issues, Issue{SeverityError, "profile", fmt.Sprintf("unknown profile mode %q (want cpu, mem or trace)", cfg.Profile)})
	}
	if cfg.Profile != "" && strings.TrimSpace(cfg.ProfileDir) == "" {
		issues = append(issues, Issue{SeverityError, "profile-dir", "profiling requires an output directory"})
	}
	if cfg.GCPercent < 0 {
		issues = append(issues, Issue{SeverityWarning, "gc-percent", "a negative value disables the garbage collector"})
	}
	return issues
}

func validateMetrics(cfg *Config) []Issue {
	var issues []Issue

	switch cfg.MetricsBackend {
	case "", "none":
	case "pushgateway":
		if strings.TrimSpace(cfg.PushgatewayURL) == "" {
			issues = append(issues, Issue{SeverityError, "pushgateway-url", "pushgateway backend requires a URL"})
		}
	case "datadog":
		if strings.TrimSpace(cfg.DatadogAddr) == "" {
			issues = append(issues, Issue{SeverityError, "datadog-addr", "datadog backend requires an agent address"})
		}
	default:
		issues = append(issues, Issue{SeverityError, "metrics-backend", fmt.Sprintf("unknown metrics backend %q (want none, pushgateway or datadog)", cfg.MetricsBackend)})
	}
	return issues
}

func validateStore(cfg *Config) []Issue {
	var issues []Issue

	if cfg.StoreKind == "" {
		if cfg.StoreDSN != "" {
			issues = append(issues, Issue{SeverityWarning, "store-dsn", "ignored because no store kind is set"})
		}
		return issues
	}
	if _, ok := knownStoreKinds[cfg.StoreKind]; !ok {
		issues = append(issues, Issue{SeverityError, "store", fmt.Sprintf("unknown store kind %q (want sqlite, postgres, mssql or mysql)", cfg.StoreKind)})
	}
	if strings.TrimSpace(cfg.StoreDSN) == "" {
		issues = append(issues, Issue{SeverityError, "store-dsn", fmt.Sprintf("%s store requires a DSN", cfg.StoreKind)})
	}
	if !tableRe.MatchString(cfg.StoreTable) {
		issues = append(issues, Issue{SeverityError, "store-table", fmt.Sprintf("invalid table name %q", cfg.StoreTable)})
	}
	if !cfg.Fingerprint {
		issues = append(issues, Issue{SeverityWarning, "fingerprint", "run history is stored without an input fingerprint"})
	}
	return issues
}
