package tabular

import (
	"context"
	"sync"
)

// Memory is a Loader that serves tables kept in memory, keyed by source identifier.
// Every Load returns a fresh Records value, so closing it never affects the stored data.
type Memory struct {
	mutex  sync.RWMutex
	tables map[string]memoryTable
}

type memoryTable struct {
	header []string
	rows   [][]string
}

func (m *Memory) Set(source string, header []string, rows ...[]string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.tables == nil {
		m.tables = make(map[string]memoryTable)
	}
	m.tables[source] = memoryTable{header: header, rows: rows}
}

func (m *Memory) Load(ctx context.Context, source string) (Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	t, ok := m.tables[source]
	if !ok {
		return nil, ErrSourceNotFound.F("%s", source)
	}
	rows := make([][]string, len(t.rows))
	copy(rows, t.rows)
	return NewRecords(t.header, rows), nil
}
