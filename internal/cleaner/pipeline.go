// Package cleaner implements the transaction-cleaning pipeline: identity
// resolution, per-field normalization, and statistical imputation, producing
// a canonical record set plus a rejection ledger.
//
// The pipeline is a deterministic batch transform. Stages run in a fixed
// order and short-circuit per record: a record rejected at any stage does
// not proceed, while the rest of the batch continues. The imputation donor
// tables require a full view of the kept set, so the pipeline is an explicit
// two-pass design (aggregate, then apply) rather than a row-by-row mutating
// loop.
package cleaner

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"txclean/internal/config"
	"txclean/internal/logging"
	"txclean/internal/metrics"
	"txclean/internal/schema"
)

// Pipeline sequences the cleaning stages.
type Pipeline struct {
	ids     *IdentityResolver
	norm    *Normalizer
	workers int
}

// New builds a Pipeline from the configured rule tables. workers controls
// the sharded normalize/impute apply passes; any value below 1 runs
// sequentially. The output is identical for every worker count.
func New(rules config.Rules, workers int) *Pipeline {
	if workers < 1 {
		workers = 1
	}
	return &Pipeline{
		ids:     NewIdentityResolver(rules.IDSentinels),
		norm:    NewNormalizer(rules),
		workers: workers,
	}
}

// Stats summarizes a run for reconciliation: Ingested = len(Clean) + the sum
// of Rejected counts.
type Stats struct {
	Ingested int
	Kept     int
	Rejected map[Reason]int
}

// Result is the outcome of one pipeline run.
type Result struct {
	Clean  []schema.CleanRecord
	Ledger []Rejection
	Stats  Stats
}

// outcome is the per-record result slot of a parallel apply pass.
type outcome struct {
	rec    schema.CleanRecord
	reason Reason
	ok     bool
}

// Run executes the pipeline over the ingested batch. The clean output is
// ordered by origin index, as is the ledger. Run only fails on cancellation;
// record-level problems land in the ledger, never in the error.
func (p *Pipeline) Run(ctx context.Context, raws []schema.RawRecord) (Result, error) {
	res := Result{Stats: Stats{Ingested: len(raws)}}

	// Stage 1: identity resolution (sequential; needs the global
	// first-occurrence view).
	start := time.Now()
	kept, ledger := p.ids.Resolve(raws)
	metrics.RecordStep("identity", time.Since(start), nil)
	logging.Debug().
		Int("in", len(raws)).
		Int("kept", len(kept)).
		Int("rejected", len(ledger)).
		Msg("identity resolution done")

	// Stage 2: normalization (per-record independent; sharded).
	start = time.Now()
	normed := make([]outcome, len(kept))
	err := p.forEach(ctx, len(kept), func(i int) {
		rec, reason, ok := p.norm.Record(kept[i])
		normed[i] = outcome{rec: rec, reason: reason, ok: ok}
	})
	metrics.RecordStep("normalize", time.Since(start), err)
	if err != nil {
		return Result{}, err
	}

	candidates := make([]schema.CleanRecord, 0, len(kept))
	for i, out := range normed {
		if !out.ok {
			ledger = append(ledger, Rejection{Origin: kept[i].Origin, Stage: StageNormalize, Reason: out.reason})
			continue
		}
		candidates = append(candidates, out.rec)
	}

	// Stage 3: aggregate pass over the pre-imputation kept set.
	aggs := BuildAggregates(candidates)
	logging.Debug().
		Float64("mean_quantity", aggs.MeanQuantity).
		Int("candidates", len(candidates)).
		Msg("imputation aggregates built")

	// Stage 4: imputation apply pass (read-only tables; sharded).
	start = time.Now()
	imputed := make([]outcome, len(candidates))
	err = p.forEach(ctx, len(candidates), func(i int) {
		rec, reason, ok := aggs.Impute(candidates[i])
		imputed[i] = outcome{rec: rec, reason: reason, ok: ok}
	})
	metrics.RecordStep("impute", time.Since(start), err)
	if err != nil {
		return Result{}, err
	}

	for i, out := range imputed {
		if !out.ok {
			ledger = append(ledger, Rejection{Origin: candidates[i].Origin, Stage: StageImpute, Reason: out.reason})
			continue
		}
		res.Clean = append(res.Clean, out.rec)
	}

	sortLedger(ledger)
	res.Ledger = ledger
	res.Stats.Kept = len(res.Clean)
	res.Stats.Rejected = CountByReason(ledger)

	metrics.AddRecords("ingested", float64(res.Stats.Ingested))
	metrics.AddRecords("clean", float64(res.Stats.Kept))
	for reason, n := range res.Stats.Rejected {
		metrics.AddRejections(string(reason), float64(n))
	}
	return res, nil
}

// forEach runs fn over [0, n) sharded across the configured worker count,
// stopping early on cancellation. Each index is touched by exactly one
// goroutine and writes only its own result slot, so runs are deterministic.
func (p *Pipeline) forEach(ctx context.Context, n int, fn func(i int)) error {
	if n == 0 {
		return nil
	}
	workers := p.workers
	if workers > n {
		workers = n
	}
	if workers == 1 {
		for i := 0; i < n; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			fn(i)
		}
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)
	chunk := (n + workers - 1) / workers
	for lo := 0; lo < n; lo += chunk {
		lo, hi := lo, lo+chunk
		if hi > n {
			hi = n
		}
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				fn(i)
			}
			return nil
		})
	}
	return g.Wait()
}
