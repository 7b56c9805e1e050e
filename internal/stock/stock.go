// Package stock derives availability and stock status from inventory counters.
// Status is never persisted, it is recomputed on every read.
package stock

type Status string

const (
	StatusInStock    Status = "IN_STOCK"
	StatusLowStock   Status = "LOW_STOCK"
	StatusOutOfStock Status = "OUT_OF_STOCK"
)

// Available is quantity in stock minus quantity reserved, floored at zero.
func Available(inStock, reserved int) int {
	available := inStock - reserved
	if available < 0 {
		return 0
	}
	return available
}

// Derive returns the available quantity and the status it implies:
// OUT_OF_STOCK when nothing is available, LOW_STOCK when availability is at
// or below the reorder point, IN_STOCK otherwise.
func Derive(inStock, reserved, reorderPoint int) (int, Status) {
	available := Available(inStock, reserved)
	switch {
	case available <= 0:
		return available, StatusOutOfStock
	case available <= reorderPoint:
		return available, StatusLowStock
	default:
		return available, StatusInStock
	}
}
