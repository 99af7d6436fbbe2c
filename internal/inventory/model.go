// Package inventory implements the inventory store: the list of stocked
// products and the sales log, mirrored to durable local storage on every
// mutation.
package inventory

import (
	"github.com/shopspring/decimal"
)

// Snapshot keys in durable storage. The values are complete JSON-encoded
// collections, overwritten on every mutation.
const (
	KeyInventory = "inventory"
	KeySalesLog  = "salesLog"
)

// Product is a stocked, sellable item.
//
// OriginalStock is the baseline quantity recorded at creation time. Edits
// never alter it; only Add sets it.
type Product struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Barcode       string          `json:"barcode"`
	OriginalStock int             `json:"originalStock"`
	Stock         int             `json:"stock"`
	Price         decimal.Decimal `json:"price"`
}

// SaleEntry is an immutable record of one unit sold. Name and Barcode are
// snapshots taken at sale time, so later edits or removals of the product do
// not rewrite history.
type SaleEntry struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Barcode string `json:"barcode"`
	Time    string `json:"time"`
}

// AddInput carries the fields for creating a product. OriginalStock is
// optional; when nil the new product's baseline defaults to Stock.
type AddInput struct {
	Name          string
	Barcode       string
	Stock         int
	Price         decimal.Decimal
	OriginalStock *int
}

// SearchFields exposes the fields the query filter matches against.
func (p Product) SearchFields() (name, barcode string) {
	return p.Name, p.Barcode
}

// SearchFields exposes the fields the query filter matches against.
func (e SaleEntry) SearchFields() (name, barcode string) {
	return e.Name, e.Barcode
}
