package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/customer_portal/internal/models"
)

// Column positions per sheet.
const (
	colCustomerID = iota
	colCustomerCompany
	colCustomerEmail
	colCustomerPhone
	colCustomerRegistered
	colCustomerTotalSpent
	colCustomerLastOrder
	colCustomerStatus
)

const (
	colOrderID = iota
	colOrderCustomer
	colOrderDate
	colOrderProducts
	colOrderQuantities
	colOrderTotal
	colOrderStatus
	colOrderTracking
	colOrderNotes
)

const (
	colProductSKU = iota
	colProductName
	colProductCategory
	colProductPrice
	colProductStock
	colProductDescription
	colProductCompatibility
	colProductImage
)

const (
	colInteractionTimestamp = iota
	colInteractionCustomer
	colInteractionChannel
	colInteractionQuery
	colInteractionResponse
	colInteractionSession
	colInteractionSatisfaction
)

// dateLayouts are tried in order when parsing stored timestamps.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"1/2/2006 15:04:05",
	"1/2/2006",
}

// Spreadsheet serial dates count days from serialEpoch; maxSerialDate is
// 9999-12-31.
var serialEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

const maxSerialDate = 2958465

// RowResult is the outcome of decoding one row: Err is nil for a usable
// Record and describes why the row is malformed otherwise.
type RowResult[T any] struct {
	Index  int
	Record T
	Err    error
}

// OK reports whether the row decoded.
func (r RowResult[T]) OK() bool { return r.Err == nil }

// decodeRows decodes every row, keeping malformed ones as failed results.
func decodeRows[T any](rows [][]string, decode func([]string) (T, error)) []RowResult[T] {
	out := make([]RowResult[T], 0, len(rows))
	for i, row := range rows {
		rec, err := decode(row)
		out = append(out, RowResult[T]{Index: i, Record: rec, Err: err})
	}
	return out
}

// validRecords returns the decoded records and logs malformed rows.
// A malformed row never fails the batch.
func validRecords[T any](sheet string, results []RowResult[T]) []T {
	out := make([]T, 0, len(results))
	for _, r := range results {
		if !r.OK() {
			log.Warn().Str("sheet", sheet).Int("row", r.Index).Err(r.Err).Msg("Skipping malformed row")
			continue
		}
		out = append(out, r.Record)
	}
	return out
}

// cell returns the trimmed cell at i or "" when the row is shorter.
func cell(row []string, i int) string {
	if i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}

func parseFloatCell(row []string, i int, name string) (float64, error) {
	v := cell(row, i)
	if v == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(v, ",", ""), 64)
	if err != nil {
		return 0, fmt.Errorf("%s %q is not a number", name, v)
	}
	return f, nil
}

func parseIntCell(row []string, i int, name string) (int, error) {
	v := cell(row, i)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		// Sheets may render whole numbers as 10.0
		f, ferr := strconv.ParseFloat(v, 64)
		if ferr != nil || f != float64(int(f)) {
			return 0, fmt.Errorf("%s %q is not an integer", name, v)
		}
		n = int(f)
	}
	return n, nil
}

// ParseDate parses a stored timestamp; an empty cell yields the zero time.
func ParseDate(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC(), nil
		}
	}
	if t, ok := parseSerialDate(v); ok {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", v)
}

// parseSerialDate reads a spreadsheet serial date such as 45352 or 45352.5
// (fraction = time of day), rounded to the second.
func parseSerialDate(v string) (time.Time, bool) {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 || f > maxSerialDate {
		return time.Time{}, false
	}
	seconds := math.Round(f * 86400)
	return serialEpoch.Add(time.Duration(seconds) * time.Second), true
}

func decodeCustomer(row []string) (models.Customer, error) {
	c := models.Customer{
		ID:               cell(row, colCustomerID),
		CompanyName:      cell(row, colCustomerCompany),
		Email:            cell(row, colCustomerEmail),
		Phone:            cell(row, colCustomerPhone),
		RegistrationDate: cell(row, colCustomerRegistered),
		LastOrderDate:    cell(row, colCustomerLastOrder),
		Status:           models.CustomerStatus(strings.ToLower(cell(row, colCustomerStatus))),
	}
	if c.ID == "" {
		return c, errors.New("missing customer id")
	}
	if c.Status == "" {
		c.Status = models.CustomerStatusActive
	}
	spent, err := parseFloatCell(row, colCustomerTotalSpent, "total spent")
	if err != nil {
		return c, err
	}
	c.TotalSpent = spent
	return c, nil
}

func encodeCustomer(c models.Customer) []string {
	return []string{
		c.ID,
		c.CompanyName,
		c.Email,
		c.Phone,
		c.RegistrationDate,
		formatAmount(c.TotalSpent),
		c.LastOrderDate,
		string(c.Status),
	}
}

func decodeOrder(row []string) (models.Order, error) {
	o := models.Order{
		ID:             cell(row, colOrderID),
		CustomerID:     cell(row, colOrderCustomer),
		Status:         models.OrderStatus(strings.ToLower(cell(row, colOrderStatus))),
		TrackingNumber: cell(row, colOrderTracking),
		Notes:          cell(row, colOrderNotes),
		Products:       []string{},
		Quantities:     []int{},
	}
	if o.ID == "" || o.CustomerID == "" {
		return o, errors.New("missing order or customer id")
	}
	if o.Status == "" {
		o.Status = models.OrderStatusPending
	}

	date, err := ParseDate(cell(row, colOrderDate))
	if err != nil {
		return o, err
	}
	o.Date = date

	if v := cell(row, colOrderProducts); v != "" {
		if err := json.Unmarshal([]byte(v), &o.Products); err != nil {
			return o, fmt.Errorf("products cell is not a JSON array: %w", err)
		}
	}
	if v := cell(row, colOrderQuantities); v != "" {
		if err := json.Unmarshal([]byte(v), &o.Quantities); err != nil {
			return o, fmt.Errorf("quantities cell is not a JSON array: %w", err)
		}
	}
	if len(o.Products) != len(o.Quantities) {
		return o, fmt.Errorf("%d products but %d quantities", len(o.Products), len(o.Quantities))
	}

	total, err := parseFloatCell(row, colOrderTotal, "total amount")
	if err != nil {
		return o, err
	}
	if total < 0 {
		return o, fmt.Errorf("negative total amount %v", total)
	}
	o.TotalAmount = total
	return o, nil
}

func encodeOrder(o models.Order) ([]string, error) {
	products, err := json.Marshal(o.Products)
	if err != nil {
		return nil, err
	}
	quantities, err := json.Marshal(o.Quantities)
	if err != nil {
		return nil, err
	}
	return []string{
		o.ID,
		o.CustomerID,
		o.Date.UTC().Format(time.RFC3339),
		string(products),
		string(quantities),
		formatAmount(o.TotalAmount),
		string(o.Status),
		o.TrackingNumber,
		o.Notes,
	}, nil
}

func decodeProduct(row []string) (models.Product, error) {
	p := models.Product{
		SKU:           cell(row, colProductSKU),
		Name:          cell(row, colProductName),
		Category:      cell(row, colProductCategory),
		Description:   cell(row, colProductDescription),
		ImageURL:      cell(row, colProductImage),
		Compatibility: []string{},
	}
	if p.SKU == "" {
		return p, errors.New("missing sku")
	}

	price, err := parseFloatCell(row, colProductPrice, "price")
	if err != nil {
		return p, err
	}
	stock, err := parseIntCell(row, colProductStock, "stock level")
	if err != nil {
		return p, err
	}
	if stock < 0 {
		stock = 0
	}
	p.Price = price
	p.StockLevel = stock

	for _, device := range strings.Split(cell(row, colProductCompatibility), ",") {
		if d := strings.TrimSpace(device); d != "" {
			p.Compatibility = append(p.Compatibility, d)
		}
	}
	return p, nil
}

func decodeInteraction(row []string) (models.InteractionLog, error) {
	entry := models.InteractionLog{
		CustomerID: cell(row, colInteractionCustomer),
		Channel:    cell(row, colInteractionChannel),
		Query:      cell(row, colInteractionQuery),
		Response:   cell(row, colInteractionResponse),
		SessionID:  cell(row, colInteractionSession),
	}
	if entry.CustomerID == "" {
		return entry, errors.New("missing customer id")
	}
	ts, err := ParseDate(cell(row, colInteractionTimestamp))
	if err != nil {
		return entry, err
	}
	entry.Timestamp = ts

	if v := cell(row, colInteractionSatisfaction); v != "" {
		score, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return entry, fmt.Errorf("satisfaction score %q is not a number", v)
		}
		entry.SatisfactionScore = &score
	}
	return entry, nil
}

func encodeInteraction(e models.InteractionLog) []string {
	score := ""
	if e.SatisfactionScore != nil {
		score = strconv.FormatFloat(*e.SatisfactionScore, 'f', -1, 64)
	}
	return []string{
		e.Timestamp.UTC().Format(time.RFC3339),
		e.CustomerID,
		e.Channel,
		e.Query,
		e.Response,
		e.SessionID,
		score,
	}
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
