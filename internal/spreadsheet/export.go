package spreadsheet

import (
	"fmt"

	"invtrack/internal/inventory"

	"github.com/xuri/excelize/v2"
)

// ExportProducts serializes products to an xlsx workbook. Callers pass the
// filtered collection; pagination is deliberately not applied to exports.
func ExportProducts(products []inventory.Product) ([]byte, error) {
	rows := make([][]any, 0, len(products)+1)
	rows = append(rows, []any{colName, colBarcode, "Original Stock", colStock, colPrice})
	for _, p := range products {
		rows = append(rows, []any{p.Name, p.Barcode, p.OriginalStock, p.Stock, p.Price.StringFixed(2)})
	}
	return writeSheet(rows)
}

// ExportSales serializes sale entries to an xlsx workbook.
func ExportSales(entries []inventory.SaleEntry) ([]byte, error) {
	rows := make([][]any, 0, len(entries)+1)
	rows = append(rows, []any{"Item Name", colBarcode, "Time of Sale"})
	for _, e := range entries {
		rows = append(rows, []any{e.Name, e.Barcode, e.Time})
	}
	return writeSheet(rows)
}

func writeSheet(rows [][]any) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		start, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, fmt.Errorf("failed to address row %d: %w", i+1, err)
		}
		if err := f.SetSheetRow(sheet, start, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}
