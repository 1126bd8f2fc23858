package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"txclean/internal/cleaner"
	"txclean/internal/config"
	"txclean/internal/logging"
	"txclean/internal/metrics"
	"txclean/internal/metrics/datadog"
	"txclean/internal/metrics/prompush"
	"txclean/internal/parser/csv"
	"txclean/internal/schema"
	"txclean/internal/storage"

	// Register storage backends with the factory.
	_ "txclean/internal/storage/postgres"
	_ "txclean/internal/storage/sqlite"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Clean the raw feed and publish the result",
	Long: `Run executes the full pipeline: ingest the raw CSV, resolve
identities, normalize fields, impute gaps, and publish the clean record set
plus the rejection ledger to the configured sink. With storage kind "none"
the run is a dry run that only reports the reconciliation summary.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := lint(); err != nil {
			return err
		}
		initMetrics()
		defer func() {
			if err := metrics.Flush(); err != nil {
				logging.Warn().Err(err).Msg("metrics flush failed")
			}
		}()
		return runPipeline(cmd.Context())
	},
}

// initMetrics installs the configured metrics backend; the default nop
// backend stays in place on any failure.
func initMetrics() {
	switch cfg.Metrics.Backend {
	case "pushgateway":
		url := cfg.Metrics.PushgatewayURL
		if url == "" {
			url = "http://localhost:9091"
		}
		b, err := prompush.NewBackend(cfg.Job, url)
		if err != nil {
			logging.Warn().Err(err).Msg("metrics: pushgateway init failed; disabled")
			return
		}
		metrics.SetBackend(b)
	case "datadog":
		b, err := datadog.NewBackend(datadog.Config{Addr: cfg.Metrics.StatsdAddr, Namespace: "txclean."})
		if err != nil {
			logging.Warn().Err(err).Msg("metrics: datadog init failed; disabled")
			return
		}
		metrics.SetBackend(b)
	}
}

func runPipeline(ctx context.Context) error {
	start := time.Now()

	f, err := os.Open(cfg.Source.Path)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	var comma rune
	if cfg.Source.Delimiter != "" {
		comma = []rune(cfg.Source.Delimiter)[0]
	}
	p := csv.NewParser(csv.Options{
		HasHeader:  cfg.Source.HasHeader,
		Comma:      comma,
		LazyQuotes: cfg.Source.LazyQuotes,
		HeaderMap:  cfg.Source.HeaderMap,
	})

	raws, skipped, err := p.Parse(f)
	if err != nil {
		return fmt.Errorf("ingest %s: %w", cfg.Source.Path, err)
	}
	metrics.AddRecords("parse_skipped", float64(skipped))
	logging.Info().
		Int("records", len(raws)).
		Int("unreadable_rows", skipped).
		Str("path", cfg.Source.Path).
		Msg("feed ingested")

	pipe := cleaner.New(cfg.Rules, cfg.Runtime.ApplyWorkers)
	res, err := pipe.Run(ctx, raws)
	if err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}

	logReconciliation(res)

	if cfg.Storage.Kind != "none" {
		if err := publish(ctx, cfg.Storage, res); err != nil {
			return err
		}
	}

	logging.Info().Dur("elapsed", time.Since(start)).Msg("run complete")
	return nil
}

// logReconciliation reports the input/output accounting; the identity
// ingested = clean + Σ rejections must always hold.
func logReconciliation(res cleaner.Result) {
	ev := logging.Info().
		Int("ingested", res.Stats.Ingested).
		Int("clean", res.Stats.Kept).
		Int("rejected", len(res.Ledger))
	for reason, n := range res.Stats.Rejected {
		ev = ev.Int("rejected_"+string(reason), n)
	}
	ev.Msg("reconciliation")

	if res.Stats.Ingested != res.Stats.Kept+len(res.Ledger) {
		logging.Error().
			Int("ingested", res.Stats.Ingested).
			Int("accounted", res.Stats.Kept+len(res.Ledger)).
			Msg("reconciliation identity violated")
	}
}

// publish bulk-loads the clean set and the ledger into the configured sink.
// Output is only written after the full pipeline pass has completed.
func publish(ctx context.Context, sc config.Storage, res cleaner.Result) error {
	repo, closeFn, err := storage.NewRepository(ctx, storage.Config{
		Kind:        sc.Kind,
		DSN:         sc.DSN,
		Table:       sc.Table,
		LedgerTable: sc.LedgerTable,
	})
	if err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	defer closeFn()

	if err := repo.Bootstrap(ctx); err != nil {
		return err
	}

	cleanRows := make(chan []any, sc.BatchSize)
	go func() {
		defer close(cleanRows)
		for _, rec := range res.Clean {
			select {
			case cleanRows <- rec.Row():
			case <-ctx.Done():
				return
			}
		}
	}()
	loaded, err := storage.LoadBatches(ctx, schema.CleanColumns, cleanRows, sc.BatchSize, repo.CopyClean)
	if err != nil {
		return fmt.Errorf("load clean records: %w", err)
	}
	metrics.AddRecords("loaded", float64(loaded))

	ledgerRows := make(chan []any, sc.BatchSize)
	go func() {
		defer close(ledgerRows)
		for _, rej := range res.Ledger {
			select {
			case ledgerRows <- rej.Row():
			case <-ctx.Done():
				return
			}
		}
	}()
	ledgered, err := storage.LoadBatches(ctx, schema.LedgerColumns, ledgerRows, sc.BatchSize, repo.CopyLedger)
	if err != nil {
		return fmt.Errorf("load ledger: %w", err)
	}

	logging.Info().
		Int64("clean_rows", loaded).
		Int64("ledger_rows", ledgered).
		Str("table", sc.Table).
		Str("ledger_table", sc.LedgerTable).
		Msg("output published")
	return nil
}
