package coupon

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Allocate returns the discount for each line, given the line subtotals
// in cart order. No line's discount exceeds its subtotal and the sum
// never exceeds the cart subtotal.
func Allocate(c Coupon, subtotals []decimal.Decimal) []decimal.Decimal {
	out := make([]decimal.Decimal, len(subtotals))
	for i := range out {
		out[i] = decimal.Zero
	}

	total := decimal.Sum(decimal.Zero, subtotals...)
	if !total.IsPositive() || !c.Value.IsPositive() {
		return out
	}

	switch c.DiscountType {
	case Percentage:
		pct := decimal.Min(c.Value, hundred)
		sum := decimal.Zero
		for i, s := range subtotals {
			out[i] = s.Mul(pct).Div(hundred).Round(2)
			sum = sum.Add(out[i])
		}
		if c.MaxDiscount.Valid && sum.GreaterThan(c.MaxDiscount.Decimal) {
			return spread(decimal.Min(c.MaxDiscount.Decimal, total), subtotals, total)
		}
		return out
	case Fixed:
		return spread(decimal.Min(c.Value, total), subtotals, total)
	default:
		return out
	}
}

// spread splits amount across lines proportionally to their subtotals.
// The last positive line absorbs the rounding remainder.
func spread(amount decimal.Decimal, subtotals []decimal.Decimal, total decimal.Decimal) []decimal.Decimal {
	out := make([]decimal.Decimal, len(subtotals))
	last := -1
	for i, s := range subtotals {
		out[i] = decimal.Zero
		if s.IsPositive() {
			last = i
		}
	}
	if last < 0 || !amount.IsPositive() {
		return out
	}

	allocated := decimal.Zero
	for i, s := range subtotals {
		if i == last {
			break
		}
		if !s.IsPositive() {
			continue
		}
		share := decimal.Min(amount.Mul(s).Div(total).Round(2), s)
		out[i] = share
		allocated = allocated.Add(share)
	}

	rest := amount.Sub(allocated)
	rest = decimal.Max(decimal.Zero, decimal.Min(rest, subtotals[last]))
	out[last] = rest
	return out
}
