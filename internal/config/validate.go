// This file adds a lightweight linter for Config values. It performs static
// checks over a loaded Config and returns a list of issues (errors and
// warnings) that callers can surface in the CLI or in tests.
package config

import (
	"fmt"
	"strings"
	"time"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates an issue that should block execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates an issue that is surfaced but not fatal.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation finding.
//
// Path is a dotted path into the config (e.g. "storage.kind"); Message is
// human-readable.
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a
// single error where convenient.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// Validate performs static validation of a Config. It does not mutate the
// config; callers decide whether warnings are fatal.
func Validate(c *Config) []Issue {
	var issues []Issue

	errf := func(path, format string, args ...any) {
		issues = append(issues, Issue{SeverityError, path, fmt.Sprintf(format, args...)})
	}
	warnf := func(path, format string, args ...any) {
		issues = append(issues, Issue{SeverityWarning, path, fmt.Sprintf(format, args...)})
	}

	if strings.TrimSpace(c.Source.Path) == "" {
		errf("source.path", "input file path is required")
	}
	if len(c.Source.Delimiter) > 1 {
		warnf("source.delimiter", "only the first rune of %q is used", c.Source.Delimiter)
	}

	if len(c.Rules.DateLayouts) == 0 {
		errf("rules.date_layouts", "at least one date layout is required")
	}
	// Layouts must round-trip a reference date or they can never match.
	ref := time.Date(2021, 11, 3, 0, 0, 0, 0, time.UTC)
	for i, layout := range c.Rules.DateLayouts {
		if _, err := time.Parse(layout, ref.Format(layout)); err != nil {
			errf(fmt.Sprintf("rules.date_layouts[%d]", i), "layout %q does not parse its own output: %v", layout, err)
		}
	}
	if len(c.Rules.IDSentinels) == 0 {
		warnf("rules.id_sentinels", "empty sentinel set; only blank and non-numeric IDs will be rejected")
	}
	if len(c.Rules.CountryMap) == 0 {
		warnf("rules.country_map", "empty country map; country values pass through unnormalized")
	}
	switch c.Rules.SignPolicy {
	case "", "abs":
	default:
		errf("rules.sign_policy", "unknown sign policy %q (supported: abs)", c.Rules.SignPolicy)
	}

	switch c.Storage.Kind {
	case "none":
	case "postgres", "sqlite":
		if strings.TrimSpace(c.Storage.DSN) == "" {
			errf("storage.dsn", "DSN is required for storage kind %q", c.Storage.Kind)
		}
		if strings.TrimSpace(c.Storage.Table) == "" {
			errf("storage.table", "clean table name is required")
		}
		if strings.TrimSpace(c.Storage.LedgerTable) == "" {
			errf("storage.ledger_table", "ledger table name is required")
		}
	default:
		errf("storage.kind", "unknown storage kind %q (supported: postgres, sqlite, none)", c.Storage.Kind)
	}
	if c.Storage.BatchSize <= 0 {
		errf("storage.batch_size", "batch size must be > 0, got %d", c.Storage.BatchSize)
	}

	switch c.Metrics.Backend {
	case "", "none":
	case "pushgateway":
		if strings.TrimSpace(c.Metrics.PushgatewayURL) == "" {
			warnf("metrics.pushgateway_url", "no URL configured; default http://localhost:9091 will be used")
		}
	case "datadog":
		if strings.TrimSpace(c.Metrics.StatsdAddr) == "" {
			errf("metrics.statsd_addr", "statsd address is required for the datadog backend")
		}
	default:
		warnf("metrics.backend", "unknown backend %q; metrics will be disabled", c.Metrics.Backend)
	}

	if c.Runtime.ApplyWorkers < 1 {
		errf("runtime.apply_workers", "apply workers must be >= 1, got %d", c.Runtime.ApplyWorkers)
	}

	return issues
}

// HasError reports whether any issue in the slice is an error.
func HasError(issues []Issue) bool {
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			return true
		}
	}
	return false
}
