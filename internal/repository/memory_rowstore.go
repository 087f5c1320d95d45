package repository

import (
	"context"
	"fmt"
	"sync"
)

// MemoryRowStore keeps rows in process memory. It backs local development
// (STORE_BACKEND=memory) and tests.
type MemoryRowStore struct {
	mu     sync.RWMutex
	sheets map[string][][]string
}

// NewMemoryRowStore creates an empty MemoryRowStore.
func NewMemoryRowStore() *MemoryRowStore {
	return &MemoryRowStore{sheets: make(map[string][][]string)}
}

// Seed appends rows to a sheet without a context, for fixtures.
func (m *MemoryRowStore) Seed(sheet string, rows ...[]string) *MemoryRowStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range rows {
		m.sheets[sheet] = append(m.sheets[sheet], copyRow(row))
	}
	return m
}

func (m *MemoryRowStore) ReadRows(ctx context.Context, sheet string) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	rows := m.sheets[sheet]
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = copyRow(row)
	}
	return out, nil
}

func (m *MemoryRowStore) AppendRows(ctx context.Context, sheet string, rows [][]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range rows {
		m.sheets[sheet] = append(m.sheets[sheet], copyRow(row))
	}
	return nil
}

func (m *MemoryRowStore) UpdateRow(ctx context.Context, sheet string, index int, row []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	rows := m.sheets[sheet]
	if index < 0 || index >= len(rows) {
		return fmt.Errorf("row %d out of range for %s", index, sheet)
	}
	rows[index] = copyRow(row)
	return nil
}

func copyRow(row []string) []string {
	out := make([]string, len(row))
	copy(out, row)
	return out
}
