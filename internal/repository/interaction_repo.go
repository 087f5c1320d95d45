package repository

import (
	"context"
	"sort"
	"time"

	"github.com/GTDGit/customer_portal/internal/models"
)

// InteractionRepository appends and reads the chat interaction log.
type InteractionRepository struct {
	table table
}

// NewInteractionRepository creates a new InteractionRepository.
func NewInteractionRepository(store RowStore, timeout time.Duration) *InteractionRepository {
	return &InteractionRepository{table: newTable(store, SheetInteractions, timeout)}
}

// Append writes one log entry.
func (r *InteractionRepository) Append(ctx context.Context, entry models.InteractionLog) error {
	return r.table.append(ctx, encodeInteraction(entry))
}

// ListRecent returns up to limit entries, newest first.
func (r *InteractionRepository) ListRecent(ctx context.Context, limit int) ([]models.InteractionLog, error) {
	rows, err := r.table.read(ctx)
	if err != nil {
		return nil, err
	}
	entries := validRecords(SheetInteractions, decodeRows(rows, decodeInteraction))
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}
