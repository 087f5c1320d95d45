package repository

import (
	"context"
	"fmt"

	"github.com/GTDGit/customer_portal/pkg/sheets"
)

// SheetsRowStore keeps rows in a Google spreadsheet, one tab per sheet.
// The first row of every tab is a header.
type SheetsRowStore struct {
	client *sheets.Client
}

// NewSheetsRowStore creates a RowStore backed by the given sheets client.
func NewSheetsRowStore(client *sheets.Client) *SheetsRowStore {
	return &SheetsRowStore{client: client}
}

// ReadRows fetches the whole tab and drops the header.
func (s *SheetsRowStore) ReadRows(ctx context.Context, sheet string) ([][]string, error) {
	rows, err := s.client.GetValues(ctx, sheet)
	if err != nil {
		return nil, err
	}
	if len(rows) <= 1 {
		return [][]string{}, nil
	}
	return rows[1:], nil
}

// AppendRows appends after the last populated row.
func (s *SheetsRowStore) AppendRows(ctx context.Context, sheet string, rows [][]string) error {
	return s.client.AppendValues(ctx, sheet+"!A1", rows)
}

// UpdateRow overwrites a data row; data row 0 lives on spreadsheet row 2.
func (s *SheetsRowStore) UpdateRow(ctx context.Context, sheet string, index int, row []string) error {
	return s.client.UpdateValues(ctx, fmt.Sprintf("%s!A%d", sheet, index+2), [][]string{row})
}
