package config

import (
	"strings"
	"testing"
)

func validConfig() *Config {
	c := Default()
	c.Source.Path = "transactions.csv"
	return c
}

func pathsOf(issues []Issue) []string {
	var out []string
	for _, iss := range issues {
		out = append(out, iss.Path)
	}
	return out
}

func hasPath(issues []Issue, path string) bool {
	for _, iss := range issues {
		if iss.Path == path {
			return true
		}
	}
	return false
}

func TestValidateDefaults(t *testing.T) {
	issues := Validate(validConfig())
	if HasError(issues) {
		t.Fatalf("default config has errors: %v", pathsOf(issues))
	}
}

func TestValidateMissingSourcePath(t *testing.T) {
	c := validConfig()
	c.Source.Path = "  "
	issues := Validate(c)
	if !HasError(issues) || !hasPath(issues, "source.path") {
		t.Errorf("expected source.path error, got %v", pathsOf(issues))
	}
}

func TestValidateDateLayouts(t *testing.T) {
	c := validConfig()
	c.Rules.DateLayouts = nil
	issues := Validate(c)
	if !HasError(issues) || !hasPath(issues, "rules.date_layouts") {
		t.Fatalf("empty layout list not flagged: %v", pathsOf(issues))
	}

	// The default layouts must survive the round-trip self-check.
	for _, iss := range Validate(validConfig()) {
		if strings.HasPrefix(iss.Path, "rules.date_layouts[") {
			t.Errorf("default layout flagged: %v", iss)
		}
	}
}

func TestValidateStorage(t *testing.T) {
	c := validConfig()
	c.Storage.Kind = "postgres"
	issues := Validate(c)
	if !hasPath(issues, "storage.dsn") {
		t.Errorf("postgres without DSN not flagged: %v", pathsOf(issues))
	}

	c = validConfig()
	c.Storage.Kind = "oracle"
	if issues := Validate(c); !hasPath(issues, "storage.kind") {
		t.Errorf("unknown kind not flagged: %v", pathsOf(issues))
	}

	c = validConfig()
	c.Storage.BatchSize = 0
	if issues := Validate(c); !hasPath(issues, "storage.batch_size") {
		t.Errorf("zero batch size not flagged: %v", pathsOf(issues))
	}
}

func TestValidateMetrics(t *testing.T) {
	c := validConfig()
	c.Metrics.Backend = "datadog"
	issues := Validate(c)
	if !HasError(issues) || !hasPath(issues, "metrics.statsd_addr") {
		t.Errorf("datadog without address not flagged: %v", pathsOf(issues))
	}

	c = validConfig()
	c.Metrics.Backend = "graphite"
	issues = Validate(c)
	if HasError(issues) {
		t.Errorf("unknown metrics backend should only warn: %v", issues)
	}
	if !hasPath(issues, "metrics.backend") {
		t.Errorf("unknown backend not surfaced: %v", pathsOf(issues))
	}
}

func TestValidateSignPolicy(t *testing.T) {
	c := validConfig()
	c.Rules.SignPolicy = "negate"
	if issues := Validate(c); !hasPath(issues, "rules.sign_policy") {
		t.Errorf("unknown sign policy not flagged: %v", pathsOf(issues))
	}
}

func TestValidateWorkers(t *testing.T) {
	c := validConfig()
	c.Runtime.ApplyWorkers = 0
	issues := Validate(c)
	if !HasError(issues) || !hasPath(issues, "runtime.apply_workers") {
		t.Errorf("zero workers not flagged: %v", pathsOf(issues))
	}
}

func TestIssueError(t *testing.T) {
	iss := Issue{SeverityError, "storage.kind", "unknown storage kind"}
	if got := iss.Error(); got != "error at storage.kind: unknown storage kind" {
		t.Errorf("Error() = %q", got)
	}
}
