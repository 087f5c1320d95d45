package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/GTDGit/customer_portal/internal/utils"
)

// table binds a RowStore to one sheet and bounds every call with a timeout.
// Backend failures come back wrapped in utils.ErrUpstream.
type table struct {
	store   RowStore
	sheet   string
	timeout time.Duration
}

func newTable(store RowStore, sheet string, timeout time.Duration) table {
	return table{store: store, sheet: sheet, timeout: timeout}
}

func (t table) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if t.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, t.timeout)
}

func (t table) read(ctx context.Context) ([][]string, error) {
	ctx, cancel := t.withTimeout(ctx)
	defer cancel()

	rows, err := t.store.ReadRows(ctx, t.sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", utils.ErrUpstream, t.sheet, err)
	}
	return rows, nil
}

func (t table) append(ctx context.Context, rows ...[]string) error {
	ctx, cancel := t.withTimeout(ctx)
	defer cancel()

	if err := t.store.AppendRows(ctx, t.sheet, rows); err != nil {
		return fmt.Errorf("%w: append %s: %w", utils.ErrUpstream, t.sheet, err)
	}
	return nil
}

func (t table) update(ctx context.Context, index int, row []string) error {
	ctx, cancel := t.withTimeout(ctx)
	defer cancel()

	if err := t.store.UpdateRow(ctx, t.sheet, index, row); err != nil {
		return fmt.Errorf("%w: update %s row %d: %w", utils.ErrUpstream, t.sheet, index, err)
	}
	return nil
}
