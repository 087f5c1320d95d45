package repository

import "context"

// Sheet (table) names of the record store.
const (
	SheetCustomers    = "Customers"
	SheetOrders       = "Orders"
	SheetProducts     = "Products"
	SheetInteractions = "Interactions"
)

// RowStore is the tabular backend behind the repositories. Rows are positional
// string cells; ReadRows excludes any header row and index is the 0-based
// position of a data row as returned by ReadRows.
type RowStore interface {
	ReadRows(ctx context.Context, sheet string) ([][]string, error)
	AppendRows(ctx context.Context, sheet string, rows [][]string) error
	UpdateRow(ctx context.Context, sheet string, index int, row []string) error
}
