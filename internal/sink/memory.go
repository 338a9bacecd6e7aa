package sink

import (
	"context"
	"sync"

	"github.com/Rahamath-Saniya-ms/edi-pipeline/internal/projector"
)

// Memory keeps rows in process. It backs dry runs and tests.
type Memory struct {
	mu        sync.RWMutex
	rows      map[projector.Table][]projector.Record
	keys      map[string]struct{}
	filenames map[string]struct{}
}

func NewMemory() *Memory {
	return &Memory{
		rows:      make(map[projector.Table][]projector.Record),
		keys:      make(map[string]struct{}),
		filenames: make(map[string]struct{}),
	}
}

func (m *Memory) Write(ctx context.Context, runID string, tables *projector.Tables) (WriteResult, error) {
	res := newResult()
	if err := checkTables(tables); err != nil {
		return res, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, table := range projector.AllTables {
		for i, r := range tables.Rows(table) {
			key := RowKey(runID, table, i)
			if _, dup := m.keys[key]; dup {
				res.Duplicates++
				continue
			}
			m.keys[key] = struct{}{}
			m.rows[table] = append(m.rows[table], r)
			res.Inserted[table]++
		}
	}
	for _, ic := range tables.Interchanges {
		m.filenames[ic.SourceFilename] = struct{}{}
	}
	return res, nil
}

func (m *Memory) Seen(_ context.Context, filename string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.filenames[filename]
	return ok, nil
}

// Rows returns a copy of the stored rows of table.
func (m *Memory) Rows(table projector.Table) []projector.Record {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]projector.Record(nil), m.rows[table]...)
}

func (m *Memory) Close() error { return nil }
