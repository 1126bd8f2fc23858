// Package storage contains storage-agnostic contracts and utilities for
// publishing pipeline output. Concrete backends live in subpackages and are
// selected through NewRepository.
package storage

import (
	"context"
	"fmt"
)

// Config selects and configures a storage backend.
type Config struct {
	// Kind selects the backend: "postgres" or "sqlite".
	Kind string

	// DSN is the backend connection string.
	DSN string

	// Table is the clean-record destination table.
	Table string

	// LedgerTable is the rejection-ledger destination table.
	LedgerTable string
}

// Repository is a sink for one pipeline run's output: the clean record set
// and the rejection ledger, each bulk-loaded column-aligned.
type Repository interface {
	// Bootstrap creates the destination tables when they do not exist.
	Bootstrap(ctx context.Context) error

	// CopyClean bulk-inserts clean rows aligned to 'columns' order and
	// returns the number of rows inserted.
	CopyClean(ctx context.Context, columns []string, rows [][]any) (int64, error)

	// CopyLedger bulk-inserts ledger rows aligned to 'columns' order.
	CopyLedger(ctx context.Context, columns []string, rows [][]any) (int64, error)
}

// Factory constructs a Repository plus a cleanup func from a Config.
type Factory func(ctx context.Context, cfg Config) (Repository, func(), error)

var factories = map[string]Factory{}

// Register installs a backend factory under the given kind. Called from the
// backend packages' init.
func Register(kind string, f Factory) { factories[kind] = f }

// NewRepository builds the repository selected by cfg.Kind.
func NewRepository(ctx context.Context, cfg Config) (Repository, func(), error) {
	f, ok := factories[cfg.Kind]
	if !ok {
		return nil, nil, fmt.Errorf("storage: unknown kind %q", cfg.Kind)
	}
	return f(ctx, cfg)
}
