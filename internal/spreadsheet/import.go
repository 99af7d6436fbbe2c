// Package spreadsheet maps the inventory collections to and from xlsx files.
package spreadsheet

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"invtrack/internal/inventory"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Imported column headers, matched case-sensitively against the first row of
// the first sheet.
const (
	colName    = "Name"
	colBarcode = "Barcode"
	colStock   = "Stock"
	colPrice   = "Price"
)

const fallbackName = "Unnamed Product"

// RowIssue reports one coerced or defaulted cell of an imported row. The row
// is still inserted; issues are informational.
type RowIssue struct {
	Row     int    `json:"row"`
	Column  string `json:"column"`
	Message string `json:"message"`
}

// ImportResult holds the product inputs parsed from a spreadsheet and the
// per-row issues encountered along the way.
type ImportResult struct {
	Inputs []inventory.AddInput
	Issues []RowIssue
}

// Import reads an xlsx workbook and maps the rows of its first sheet to
// product inputs. Missing or unparsable cells fall back to defaults: a
// placeholder name, a generated barcode, zeroed numbers. Every fallback is
// recorded as a row issue.
func Import(r io.Reader) (*ImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	result := &ImportResult{Inputs: []inventory.AddInput{}, Issues: []RowIssue{}}
	if len(rows) < 2 {
		return result, nil
	}

	columns := make(map[string]int)
	for i, header := range rows[0] {
		columns[strings.TrimSpace(header)] = i
	}

	for i, row := range rows[1:] {
		// Reported row numbers are 1-based sheet rows; the header is row 1.
		sheetRow := i + 2

		name := cell(row, columns, colName)
		if name == "" {
			name = fallbackName
			result.Issues = append(result.Issues, RowIssue{Row: sheetRow, Column: colName, Message: "missing name, using placeholder"})
		}

		barcode := cell(row, columns, colBarcode)
		if barcode == "" {
			barcode = fmt.Sprintf("000%d", i)
			result.Issues = append(result.Issues, RowIssue{Row: sheetRow, Column: colBarcode, Message: "missing barcode, generated fallback"})
		}

		stock := 0
		if raw := cell(row, columns, colStock); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil {
				result.Issues = append(result.Issues, RowIssue{Row: sheetRow, Column: colStock, Message: fmt.Sprintf("unparsable stock %q, using 0", raw)})
			} else {
				stock = parsed
			}
		} else {
			result.Issues = append(result.Issues, RowIssue{Row: sheetRow, Column: colStock, Message: "missing stock, using 0"})
		}

		price := decimal.Zero
		if raw := cell(row, columns, colPrice); raw != "" {
			parsed, err := decimal.NewFromString(raw)
			if err != nil {
				result.Issues = append(result.Issues, RowIssue{Row: sheetRow, Column: colPrice, Message: fmt.Sprintf("unparsable price %q, using 0", raw)})
			} else {
				price = parsed
			}
		} else {
			result.Issues = append(result.Issues, RowIssue{Row: sheetRow, Column: colPrice, Message: "missing price, using 0"})
		}

		result.Inputs = append(result.Inputs, inventory.AddInput{
			Name:    name,
			Barcode: barcode,
			Stock:   stock,
			Price:   price,
		})
	}

	return result, nil
}

// cell returns the trimmed value under the named column, or "" when the
// column is absent or the row is too short.
func cell(row []string, columns map[string]int, column string) string {
	idx, ok := columns[column]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
