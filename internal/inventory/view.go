package inventory

import "strings"

// PageSize is the fixed number of rows per page in every list view.
const PageSize = 10

// Searchable is implemented by collection items the query filter applies to.
type Searchable interface {
	SearchFields() (name, barcode string)
}

// Filter returns the items matching the query: a case-insensitive substring
// match against the name, or a raw substring match against the barcode.
// An empty query matches everything.
func Filter[T Searchable](items []T, query string) []T {
	lowered := strings.ToLower(query)
	matched := make([]T, 0, len(items))
	for _, item := range items {
		name, barcode := item.SearchFields()
		if strings.Contains(strings.ToLower(name), lowered) || strings.Contains(barcode, query) {
			matched = append(matched, item)
		}
	}
	return matched
}

// Page returns the 1-based page of the given items. Pages past the end, and
// page numbers below 1, yield an empty slice.
func Page[T any](items []T, page int) []T {
	if page < 1 {
		return []T{}
	}
	start := (page - 1) * PageSize
	if start >= len(items) {
		return []T{}
	}
	end := start + PageSize
	if end > len(items) {
		end = len(items)
	}
	out := make([]T, end-start)
	copy(out, items[start:end])
	return out
}

// SummaryRow is one line of the sales summary: units sold per product.
type SummaryRow struct {
	Name      string `json:"name"`
	Barcode   string `json:"barcode"`
	TotalSold int    `json:"totalSold"`
}

// SearchFields exposes the fields the query filter matches against.
func (r SummaryRow) SearchFields() (name, barcode string) {
	return r.Name, r.Barcode
}

// Summarize derives the sales summary: for each product, in collection order,
// the count of sale entries with an equal barcode. Products sharing a barcode
// all report the combined count; that is the documented policy for duplicate
// barcodes, mirroring the first-match rule used by Sell.
func Summarize(products []Product, log []SaleEntry) []SummaryRow {
	sold := make(map[string]int, len(products))
	for _, e := range log {
		sold[e.Barcode]++
	}

	rows := make([]SummaryRow, len(products))
	for i, p := range products {
		rows[i] = SummaryRow{
			Name:      p.Name,
			Barcode:   p.Barcode,
			TotalSold: sold[p.Barcode],
		}
	}
	return rows
}
