// Package report renders activity report rows as CSV, XLSX or XML. JSON output
// is the row slice itself.
package report

import (
	"encoding/csv"
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"billing/internal/money"
)

// TimeLayout renders created timestamps in the tabular formats.
const TimeLayout = "2006-01-02T15:04:05.000000Z07:00"

// SheetName is the worksheet the XLSX renderer writes to.
const SheetName = "Report"

// Row is one wallet entry of a user, flattened with its transaction time and
// the wallet currency.
type Row struct {
	ID       string          `json:"id"`
	Username string          `json:"username"`
	Created  time.Time       `json:"created"`
	Currency money.Currency  `json:"currency"`
	Amount   decimal.Decimal `json:"amount"`
}

// Format is a report output format.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatXML  Format = "xml"
)

// ParseFormat maps a query value to a Format; empty means JSON.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatCSV, FormatXLSX, FormatXML:
		return Format(s), nil
	}
	return "", fmt.Errorf("unsupported report format %q", s)
}

// ContentType returns the MIME type for f.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatXML:
		return "application/xml; charset=utf-8"
	}
	return "application/json; charset=utf-8"
}

// Filename returns the attachment name used for a user's report.
func Filename(username string, f Format) string {
	return fmt.Sprintf("%s_report.%s", username, f)
}

// Columns returns the header of the tabular formats, sorted alphabetically.
func Columns() []string {
	cols := []string{"id", "username", "created", "currency", "amount"}
	sort.Strings(cols)
	return cols
}

// values returns the row's cells keyed by column name.
func (r Row) values() map[string]string {
	return map[string]string{
		"amount":   r.Amount.StringFixed(money.Places),
		"created":  r.Created.UTC().Format(TimeLayout),
		"currency": string(r.Currency),
		"id":       r.ID,
		"username": r.Username,
	}
}

// record returns the row's cells in Columns order.
func (r Row) record() []string {
	v := r.values()
	cols := Columns()
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = v[c]
	}
	return out
}

// WriteCSV writes the header followed by one line per row.
func WriteCSV(w io.Writer, rows []Row) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(Columns()); err != nil {
		return err
	}
	for _, r := range rows {
		if err := writer.Write(r.record()); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteXLSX writes a workbook with a single "Report" sheet.
func WriteXLSX(w io.Writer, rows []Row) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	// NewFile starts with "Sheet1"; rename it rather than leave an empty sheet.
	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("renaming sheet: %w", err)
	}

	for i, h := range Columns() {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(SheetName, cell, h); err != nil {
			return err
		}
	}

	for idx, r := range rows {
		for i, v := range r.record() {
			cell, err := excelize.CoordinatesToCellName(i+1, idx+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(SheetName, cell, v); err != nil {
				return err
			}
		}
	}

	_ = f.SetColWidth(SheetName, "A", "A", 12)
	_ = f.SetColWidth(SheetName, "B", "B", 30)
	_ = f.SetColWidth(SheetName, "D", "D", 38)
	_ = f.SetColWidth(SheetName, "E", "E", 20)

	return f.Write(w)
}

type xmlRow struct {
	Amount   string `xml:"amount"`
	Created  string `xml:"created"`
	Currency string `xml:"currency"`
	ID       string `xml:"id"`
	Username string `xml:"username"`
}

type xmlReport struct {
	XMLName xml.Name `xml:"report"`
	Rows    []xmlRow `xml:"row"`
}

// WriteXML writes <report><row>...</row></report> with elements in Columns order.
func WriteXML(w io.Writer, rows []Row) error {
	doc := xmlReport{Rows: make([]xmlRow, 0, len(rows))}
	for _, r := range rows {
		v := r.values()
		doc.Rows = append(doc.Rows, xmlRow{
			Amount:   v["amount"],
			Created:  v["created"],
			Currency: v["currency"],
			ID:       v["id"],
			Username: v["username"],
		})
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Flush()
}

// Write dispatches to the renderer for a tabular format.
func Write(w io.Writer, f Format, rows []Row) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, rows)
	case FormatXLSX:
		return WriteXLSX(w, rows)
	case FormatXML:
		return WriteXML(w, rows)
	}
	return fmt.Errorf("format %q is not tabular", f)
}
