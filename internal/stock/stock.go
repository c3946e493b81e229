// Package stock classifies catalog stock quantities for display.
package stock

// Status is the display classification of a stock quantity.
type Status string

const (
	OutOfStock Status = "out_of_stock"
	LowStock   Status = "low_stock"
	InStock    Status = "in_stock"
)

// Quantities below this count as low stock.
const lowStockThreshold = 5

// StatusOf maps a quantity to its display status. An absent quantity is
// stored as 0 upstream, so zero and negative both read as out of stock.
func StatusOf(quantity int) Status {
	switch {
	case quantity <= 0:
		return OutOfStock
	case quantity < lowStockThreshold:
		return LowStock
	default:
		return InStock
	}
}
