// Package sqlite implements a SQLite-backed storage.Repository using
// database/sql. It performs batched INSERTs inside a transaction; SQLite has
// no dedicated bulk-load API like Postgres COPY, but transactions keep
// performance acceptable for moderate volumes.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"txclean/internal/storage"
)

func init() {
	storage.Register("sqlite", func(ctx context.Context, cfg storage.Config) (storage.Repository, func(), error) {
		return NewRepository(ctx, cfg)
	})
}

// Repository is a SQLite-backed implementation of storage.Repository.
type Repository struct {
	db  *sql.DB
	cfg storage.Config
}

// NewRepository opens a SQLite connection using the provided DSN and returns
// a Repository plus a Close function for cleanup.
//
// The DSN is passed directly to database/sql, for example:
//
//	"file:txclean.db?cache=shared&_fk=1"
//	"txclean.db"
func NewRepository(ctx context.Context, cfg storage.Config) (*Repository, func(), error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, nil, fmt.Errorf("sqlite: DSN must not be empty")
	}

	db, err := sql.Open("sqlite", cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("sqlite: open: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("sqlite: ping: %w", err)
	}

	closeFn := func() { db.Close() }
	return &Repository{db: db, cfg: cfg}, closeFn, nil
}

// Bootstrap creates the clean and ledger tables when absent.
func (r *Repository) Bootstrap(ctx context.Context) error {
	clean := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	order_id       TEXT PRIMARY KEY,
	order_date     TEXT NOT NULL,
	customer_name  TEXT,
	country        TEXT,
	product_id     TEXT,
	product_name   TEXT NOT NULL,
	category       TEXT,
	quantity       REAL NOT NULL,
	unit_price     REAL NOT NULL,
	discount_code  TEXT,
	sales_rep      TEXT,
	payment_method TEXT,
	order_source   TEXT
)`, r.cfg.Table)

	ledger := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	origin_index INTEGER NOT NULL,
	stage        TEXT NOT NULL,
	reason       TEXT NOT NULL
)`, r.cfg.LedgerTable)

	for _, ddl := range []string{clean, ledger} {
		if _, err := r.db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("sqlite: bootstrap: %w", err)
		}
	}
	return nil
}

// CopyClean implements storage.Repository.
func (r *Repository) CopyClean(ctx context.Context, columns []string, rows [][]any) (int64, error) {
	return r.copy(ctx, r.cfg.Table, columns, rows)
}

// CopyLedger implements storage.Repository.
func (r *Repository) CopyLedger(ctx context.Context, columns []string, rows [][]any) (int64, error) {
	return r.copy(ctx, r.cfg.LedgerTable, columns, rows)
}

// copy inserts the rows into table using a single transaction and a prepared
// INSERT statement. len(row) must equal len(columns) for every row.
func (r *Repository) copy(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	if len(columns) == 0 {
		return 0, fmt.Errorf("sqlite: copy: columns must not be empty")
	}
	if len(rows) == 0 {
		return 0, nil
	}

	placeholders := make([]string, len(columns))
	for i := range placeholders {
		placeholders[i] = "?"
	}
	stmtSQL := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		table,
		strings.Join(columns, ", "),
		strings.Join(placeholders, ", "),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("sqlite: begin tx: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, stmtSQL)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("sqlite: prepare insert: %w", err)
	}
	defer stmt.Close()

	var inserted int64
	for _, row := range rows {
		if len(row) != len(columns) {
			_ = tx.Rollback()
			return inserted, fmt.Errorf("sqlite: copy: row length %d != columns length %d", len(row), len(columns))
		}
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			_ = tx.Rollback()
			return inserted, fmt.Errorf("sqlite: insert into %s: %w", table, err)
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return inserted, fmt.Errorf("sqlite: commit: %w", err)
	}
	return inserted, nil
}
