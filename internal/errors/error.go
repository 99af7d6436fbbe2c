// Package errors provides custom error types for inventory operations.
package errors

import (
	"errors"
	"fmt"
)

var ErrProductNotFound = errors.New("product not found")

// OutOfStockError reports a sell attempt against a product whose stock is
// already zero. It carries the product name for user-facing messages.
type OutOfStockError struct {
	Name string
}

func (e *OutOfStockError) Error() string {
	return fmt.Sprintf("no stock left for %q", e.Name)
}
