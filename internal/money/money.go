// Package money keeps all price arithmetic on decimals so totals never pick
// up binary floating point error.
package money

import "github.com/shopspring/decimal"

// Subtotal is price times quantity. A zero price or quantity yields zero.
func Subtotal(price decimal.Decimal, quantity int) decimal.Decimal {
	if quantity == 0 || price.IsZero() {
		return decimal.Zero
	}
	return price.Mul(decimal.NewFromInt(int64(quantity)))
}

// Total sums a set of line subtotals.
func Total(subtotals ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, s := range subtotals {
		total = total.Add(s)
	}
	return total
}
