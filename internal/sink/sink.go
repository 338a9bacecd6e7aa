// Package sink persists projected rows and answers whether a file was
// already ingested.
package sink

import (
	"context"
	"errors"
	"fmt"

	"github.com/Rahamath-Saniya-ms/edi-pipeline/internal/projector"
)

// ErrUnknownTable is returned when rows name a table outside the allow-list.
var ErrUnknownTable = errors.New("unknown table")

// Writer stores the rows of one run. Writing the same runID twice must not
// duplicate rows.
type Writer interface {
	Write(ctx context.Context, runID string, tables *projector.Tables) (WriteResult, error)
	Close() error
}

// Oracle reports whether rows for filename have already been stored.
type Oracle interface {
	Seen(ctx context.Context, filename string) (bool, error)
}

// WriteResult summarizes one Write call.
type WriteResult struct {
	Inserted   map[projector.Table]int `json:"inserted"`
	Duplicates int                     `json:"duplicates"`
}

// Total is the number of rows newly stored.
func (r WriteResult) Total() int {
	n := 0
	for _, c := range r.Inserted {
		n += c
	}
	return n
}

func newResult() WriteResult {
	return WriteResult{Inserted: make(map[projector.Table]int)}
}

// RowKey is the per-row idempotency key: replaying a run reproduces it.
func RowKey(runID string, table projector.Table, index int) string {
	return fmt.Sprintf("%s_%s_%d", runID, table, index)
}

// checkTables guards the allow-list before any sink touches storage.
func checkTables(tables *projector.Tables) error {
	for _, t := range projector.AllTables {
		for _, r := range tables.Rows(t) {
			if !r.Table().Valid() {
				return fmt.Errorf("%w: %q", ErrUnknownTable, r.Table())
			}
		}
	}
	return nil
}

// Multi fans a write out to several writers in order. The first error stops
// the fan-out; the result of the first writer is returned.
type Multi struct {
	writers []Writer
}

// NewMulti returns a Writer that writes to each w in turn.
func NewMulti(w ...Writer) *Multi {
	return &Multi{writers: w}
}

func (m *Multi) Write(ctx context.Context, runID string, tables *projector.Tables) (WriteResult, error) {
	var first WriteResult
	for i, w := range m.writers {
		res, err := w.Write(ctx, runID, tables)
		if err != nil {
			return first, err
		}
		if i == 0 {
			first = res
		}
	}
	if first.Inserted == nil {
		first = newResult()
	}
	return first, nil
}

// Close closes every writer and returns the first error.
func (m *Multi) Close() error {
	var first error
	for _, w := range m.writers {
		if err := w.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
