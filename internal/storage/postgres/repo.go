// Package postgres implements a Postgres storage.Repository using pgx v5.
// Rows are bulk-loaded with the native COPY protocol.
package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"txclean/internal/storage"
)

func init() {
	storage.Register("postgres", func(ctx context.Context, cfg storage.Config) (storage.Repository, func(), error) {
		return NewRepository(ctx, cfg)
	})
}

// Repository is a Postgres-backed implementation of storage.Repository.
type Repository struct {
	pool *pgxpool.Pool
	cfg  storage.Config
}

// NewRepository constructs a Repository and returns a Close function for
// cleanup. The DSN is anything pgxpool accepts, e.g. "postgresql://...".
func NewRepository(ctx context.Context, cfg storage.Config) (*Repository, func(), error) {
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("pgxpool: %w", err)
	}
	closeFn := func() { pool.Close() }
	return &Repository{pool: pool, cfg: cfg}, closeFn, nil
}

// Bootstrap creates the clean and ledger tables when absent.
func (r *Repository) Bootstrap(ctx context.Context) error {
	clean := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	order_id       text PRIMARY KEY,
	order_date     date NOT NULL,
	customer_name  text,
	country        text,
	product_id     text,
	product_name   text NOT NULL,
	category       text,
	quantity       double precision NOT NULL,
	unit_price     double precision NOT NULL,
	discount_code  text,
	sales_rep      text,
	payment_method text,
	order_source   text
)`, pgFQN(r.cfg.Table))

	ledger := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	origin_index bigint NOT NULL,
	stage        text NOT NULL,
	reason       text NOT NULL
)`, pgFQN(r.cfg.LedgerTable))

	for _, ddl := range []string{clean, ledger} {
		if _, err := r.pool.Exec(ctx, ddl); err != nil {
			return fmt.Errorf("postgres: bootstrap: %w", err)
		}
	}
	return nil
}

// CopyClean implements storage.Repository via the COPY protocol.
func (r *Repository) CopyClean(ctx context.Context, columns []string, rows [][]any) (int64, error) {
	return r.copy(ctx, r.cfg.Table, columns, rows)
}

// CopyLedger implements storage.Repository via the COPY protocol.
func (r *Repository) CopyLedger(ctx context.Context, columns []string, rows [][]any) (int64, error) {
	return r.copy(ctx, r.cfg.LedgerTable, columns, rows)
}

func (r *Repository) copy(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	n, err := r.pool.CopyFrom(ctx, splitFQN(table), columns, pgx.CopyFromRows(rows))
	if err != nil {
		return n, fmt.Errorf("postgres: copy into %s: %w", table, err)
	}
	return n, nil
}

// splitFQN converts "schema.table" into a pgx.Identifier {"schema","table"}.
func splitFQN(fqn string) pgx.Identifier {
	parts := strings.Split(fqn, ".")
	id := make(pgx.Identifier, 0, len(parts))
	for _, p := range parts {
		id = append(id, p)
	}
	return id
}

// pgIdent safely quotes a single identifier segment for Postgres.
func pgIdent(id string) string { return `"` + strings.ReplaceAll(id, `"`, `""`) + `"` }

// pgFQN quotes a possibly schema-qualified name like "public.tx_clean" to
// "public"."tx_clean". With no dot, it returns a single quoted ident.
func pgFQN(name string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = pgIdent(p)
	}
	return strings.Join(parts, ".")
}
