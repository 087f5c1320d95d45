// Package sheets is a thin client over the Google Sheets v4 values API that
// exchanges rows as plain string cells.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"
)

const (
	// valueInputRaw stores cells exactly as sent so JSON cells are not reinterpreted.
	valueInputRaw = "RAW"
	// renderUnformatted returns numbers without locale formatting.
	renderUnformatted = "UNFORMATTED_VALUE"
	// renderDatesFormatted keeps date cells as text instead of serial numbers.
	renderDatesFormatted = "FORMATTED_STRING"
)

// Config holds the spreadsheet identity and credentials.
type Config struct {
	SpreadsheetID   string
	CredentialsPath string
}

// Client reads and writes rows of a single spreadsheet.
type Client struct {
	values        *gsheets.SpreadsheetsValuesService
	spreadsheetID string
}

// NewClient builds a Client authenticated with a service-account credentials file.
func NewClient(ctx context.Context, cfg Config, opts ...option.ClientOption) (*Client, error) {
	if cfg.SpreadsheetID == "" {
		return nil, errors.New("spreadsheet id is required")
	}
	if cfg.CredentialsPath != "" {
		opts = append([]option.ClientOption{
			option.WithCredentialsFile(cfg.CredentialsPath),
			option.WithScopes(gsheets.SpreadsheetsScope),
		}, opts...)
	}

	svc, err := gsheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Client{
		values:        svc.Spreadsheets.Values,
		spreadsheetID: cfg.SpreadsheetID,
	}, nil
}

// GetValues returns every row of the given A1 range, header included.
func (c *Client) GetValues(ctx context.Context, readRange string) ([][]string, error) {
	resp, err := c.values.Get(c.spreadsheetID, readRange).
		ValueRenderOption(renderUnformatted).
		DateTimeRenderOption(renderDatesFormatted).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", readRange, err)
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		row := make([]string, len(raw))
		for i, v := range raw {
			row[i] = cellString(v)
		}
		rows = append(rows, row)
	}

	log.Debug().Str("range", readRange).Int("rows", len(rows)).Msg("[SHEETS] Read values")
	return rows, nil
}

// AppendValues appends rows after the last row of the table found in appendRange.
func (c *Client) AppendValues(ctx context.Context, appendRange string, rows [][]string) error {
	_, err := c.values.Append(c.spreadsheetID, appendRange, toValueRange(rows)).
		ValueInputOption(valueInputRaw).
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to append to %s: %w", appendRange, err)
	}
	return nil
}

// UpdateValues overwrites the cells starting at updateRange.
func (c *Client) UpdateValues(ctx context.Context, updateRange string, rows [][]string) error {
	_, err := c.values.Update(c.spreadsheetID, updateRange, toValueRange(rows)).
		ValueInputOption(valueInputRaw).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", updateRange, err)
	}
	return nil
}

func toValueRange(rows [][]string) *gsheets.ValueRange {
	values := make([][]interface{}, 0, len(rows))
	for _, row := range rows {
		cells := make([]interface{}, len(row))
		for i, v := range row {
			cells[i] = v
		}
		values = append(values, cells)
	}
	return &gsheets.ValueRange{MajorDimension: "ROWS", Values: values}
}

func cellString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}
