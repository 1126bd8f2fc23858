package storage

import (
	"context"
	"errors"
	"testing"
)

// fakeCopy records every batch it is handed.
type fakeCopy struct {
	batches [][][]any
	failOn  int // 1-based call number to fail on; 0 never fails
	calls   int
}

func (f *fakeCopy) fn(ctx context.Context, columns []string, rows [][]any) (int64, error) {
	f.calls++
	if f.failOn != 0 && f.calls == f.failOn {
		return 0, errors.New("copy failed")
	}
	// Snapshot; the loader reuses its batch slice after the call.
	cp := make([][]any, len(rows))
	copy(cp, rows)
	f.batches = append(f.batches, cp)
	return int64(len(rows)), nil
}

func feed(rows ...[]any) <-chan []any {
	ch := make(chan []any, len(rows))
	for _, r := range rows {
		ch <- r
	}
	close(ch)
	return ch
}

func row(id int) []any { return []any{id, "x"} }

func TestLoadBatchesGrouping(t *testing.T) {
	fake := &fakeCopy{}
	in := feed(row(1), row(2), row(3), row(4), row(5))

	total, err := LoadBatches(context.Background(), []string{"id", "v"}, in, 2, fake.fn)
	if err != nil {
		t.Fatalf("LoadBatches: %v", err)
	}
	if total != 5 {
		t.Errorf("total = %d, want 5", total)
	}
	if len(fake.batches) != 3 {
		t.Fatalf("got %d batches, want 3 (2+2+1)", len(fake.batches))
	}
	if len(fake.batches[0]) != 2 || len(fake.batches[1]) != 2 || len(fake.batches[2]) != 1 {
		t.Errorf("batch sizes = %d/%d/%d", len(fake.batches[0]), len(fake.batches[1]), len(fake.batches[2]))
	}
	if fake.batches[2][0][0] != 5 {
		t.Errorf("final batch holds %v", fake.batches[2])
	}
}

func TestLoadBatchesEmptyInput(t *testing.T) {
	fake := &fakeCopy{}
	total, err := LoadBatches(context.Background(), []string{"id"}, feed(), 10, fake.fn)
	if err != nil || total != 0 {
		t.Fatalf("got (%d, %v), want (0, nil)", total, err)
	}
	if fake.calls != 0 {
		t.Errorf("copyFn called %d times on empty input", fake.calls)
	}
}

func TestLoadBatchesCopyError(t *testing.T) {
	fake := &fakeCopy{failOn: 2}
	in := feed(row(1), row(2), row(3), row(4))

	total, err := LoadBatches(context.Background(), []string{"id", "v"}, in, 2, fake.fn)
	if err == nil {
		t.Fatal("expected error from failing copy")
	}
	if total != 2 {
		t.Errorf("total = %d, want the 2 rows from the successful first batch", total)
	}
}

func TestLoadBatchesCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	in := make(chan []any) // never closed, never fed
	_, err := LoadBatches(ctx, []string{"id"}, in, 10, (&fakeCopy{}).fn)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestLoadBatchesInvalidArgs(t *testing.T) {
	if _, err := LoadBatches(context.Background(), nil, feed(), 0, (&fakeCopy{}).fn); err == nil {
		t.Error("batchSize 0 accepted")
	}
	if _, err := LoadBatches(context.Background(), nil, feed(), 10, nil); err == nil {
		t.Error("nil copyFn accepted")
	}
}
