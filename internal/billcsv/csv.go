// Package billcsv reads and writes bills as CSV for export and bulk import.
package billcsv

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/billcollector-dev/billcollector/internal/model"
)

// Header is the CSV header for exported bills.
const Header = "id,name,amount,payer,created_at,paid"

const (
	numFields    = 6
	colID        = 0
	colName      = 1
	colAmount    = 2
	colPayer     = 3
	colCreatedAt = 4
	colPaid      = 5
)

// Row is one imported bill. Amount and Payer are kept as raw text so they go
// through the same validation as interactive input.
type Row struct {
	Line   int
	Name   string
	Amount string
	Payer  string
	Paid   bool
}

// WriteBills writes bills to w (including header).
func WriteBills(w io.Writer, bills []model.Bill) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, b := range bills {
		if err := cw.Write(MarshalBill(b)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalBill converts a Bill to a CSV row.
func MarshalBill(b model.Bill) []string {
	row := make([]string, numFields)
	row[colID] = strconv.FormatInt(b.ID, 10)
	row[colName] = b.Name
	row[colAmount] = b.Amount.StringFixed(2)
	row[colPayer] = b.Payer.String()
	row[colCreatedAt] = b.CreatedAt.UTC().Format(time.RFC3339)
	row[colPaid] = strconv.FormatBool(b.Paid)
	return row
}

// ReadRows parses bills for import. The first row must be the header. The
// id and created_at columns are ignored because the ledger assigns both.
func ReadRows(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading bills CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	cols, err := columns(records[0])
	if err != nil {
		return nil, err
	}

	var rows []Row
	for i, rec := range records[1:] {
		row, err := unmarshalRow(rec, cols)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		row.Line = i + 2
		rows = append(rows, row)
	}
	return rows, nil
}

// columns maps header names to positions. name, amount and payer are
// required; paid is optional.
func columns(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"name", "amount", "payer"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("header missing %q column", required)
		}
	}
	return cols, nil
}

func unmarshalRow(rec []string, cols map[string]int) (Row, error) {
	field := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	row := Row{
		Name:   field("name"),
		Amount: field("amount"),
		Payer:  field("payer"),
	}
	if paid := field("paid"); paid != "" {
		v, err := strconv.ParseBool(paid)
		if err != nil {
			return Row{}, fmt.Errorf("parsing paid %q: %w", paid, err)
		}
		row.Paid = v
	}
	return row, nil
}
