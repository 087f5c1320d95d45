package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// PostgresRowStore keeps sheet rows in the sheet_rows table, one TEXT[] of
// cells per row. row_no starts at 1 for the first data row of a sheet.
type PostgresRowStore struct {
	db *sqlx.DB
}

// NewPostgresRowStore creates a RowStore over an open database.
func NewPostgresRowStore(db *sqlx.DB) *PostgresRowStore {
	return &PostgresRowStore{db: db}
}

type sheetRow struct {
	RowNo int            `db:"row_no"`
	Cells pq.StringArray `db:"cells"`
}

func (s *PostgresRowStore) ReadRows(ctx context.Context, sheet string) ([][]string, error) {
	const q = `SELECT row_no, cells FROM sheet_rows WHERE sheet = $1 ORDER BY row_no`

	var rows []sheetRow
	if err := s.db.SelectContext(ctx, &rows, q, sheet); err != nil {
		return nil, fmt.Errorf("failed to select %s rows: %w", sheet, err)
	}

	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string(r.Cells))
	}
	return out, nil
}

func (s *PostgresRowStore) AppendRows(ctx context.Context, sheet string, rows [][]string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	// Serialise appends per sheet so row numbers stay dense.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, sheet); err != nil {
		return fmt.Errorf("failed to lock %s: %w", sheet, err)
	}

	var last int
	if err := tx.GetContext(ctx, &last, `SELECT COALESCE(MAX(row_no), 0) FROM sheet_rows WHERE sheet = $1`, sheet); err != nil {
		return fmt.Errorf("failed to read last row of %s: %w", sheet, err)
	}

	const insert = `INSERT INTO sheet_rows (sheet, row_no, cells) VALUES ($1, $2, $3)`
	for i, row := range rows {
		if _, err := tx.ExecContext(ctx, insert, sheet, last+i+1, pq.StringArray(row)); err != nil {
			return fmt.Errorf("failed to insert %s row: %w", sheet, err)
		}
	}

	return tx.Commit()
}

func (s *PostgresRowStore) UpdateRow(ctx context.Context, sheet string, index int, row []string) error {
	const q = `UPDATE sheet_rows SET cells = $1, updated_at = NOW() WHERE sheet = $2 AND row_no = $3`

	res, err := s.db.ExecContext(ctx, q, pq.StringArray(row), sheet, index+1)
	if err != nil {
		return fmt.Errorf("failed to update %s row %d: %w", sheet, index, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("row %d not found in %s", index, sheet)
	}
	return nil
}
