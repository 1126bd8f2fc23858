// This file implements a generic, batched loader that drains typed rows
// from a channel and invokes a provided bulk-insert function (CopyFn) per
// batch. Backends implement CopyFn using their most efficient primitive
// (Postgres COPY, SQLite transactional INSERT).
package storage

import (
	"context"
	"fmt"
	"time"

	"txclean/internal/logging"
	"txclean/internal/metrics"
)

// CopyFn abstracts a backend's bulk insert capability. Implementations
// insert the provided rows (aligned to 'columns' order) and return the
// number of rows inserted. The function must be safe for repeated calls and
// cancel promptly when ctx is done.
type CopyFn func(ctx context.Context, columns []string, rows [][]any) (int64, error)

// LoadBatches drains rows from 'in', groups them into batches of size
// 'batchSize', and calls copyFn for each non-empty batch. It returns the
// total number of rows reported by copyFn and the first error encountered.
//
// Cancellation: returns (total, ctx.Err()) when canceled. Progress is logged
// with running totals and instantaneous rows/sec on each successful flush.
func LoadBatches(
	ctx context.Context,
	columns []string,
	in <-chan []any,
	batchSize int,
	copyFn CopyFn,
) (int64, error) {
	if batchSize <= 0 {
		return 0, fmt.Errorf("batchSize must be > 0")
	}
	if copyFn == nil {
		return 0, fmt.Errorf("copyFn must not be nil")
	}

	var (
		total       int64
		batches     int64
		batch       = make([][]any, 0, batchSize)
		lastFlushTS = time.Now()
		lastTotal   int64
	)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := copyFn(ctx, columns, batch)
		total += n
		// Reuse the allocated slice; keep capacity to avoid churn.
		batch = batch[:0]
		if err != nil {
			logging.Error().Err(err).Int64("total", total).Msg("loader: batch copy failed")
			return err
		}

		batches++
		metrics.AddBatches(1)
		now := time.Now()
		sinceLast := now.Sub(lastFlushTS)
		rps := float64(0)
		if sinceLast > 0 {
			rps = float64(total-lastTotal) / sinceLast.Seconds()
		}
		logging.Debug().
			Int64("batch", batches).
			Float64("rps", rps).
			Int64("total_inserted", total).
			Msg("loader: batch flushed")
		lastFlushTS = now
		lastTotal = total
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return total, ctx.Err()

		case row, ok := <-in:
			if !ok {
				if err := flush(); err != nil {
					return total, err
				}
				return total, nil
			}
			batch = append(batch, row)
			if len(batch) >= batchSize {
				if err := flush(); err != nil {
					return total, err
				}
			}
		}
	}
}
