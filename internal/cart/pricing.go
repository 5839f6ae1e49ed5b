package cart

import (
	"github.com/shopspring/decimal"

	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/coupon"
)

type Pricing struct {
	TaxRate  decimal.Decimal
	Currency string
}

// Subtotal is the undiscounted cart value.
func Subtotal(c *Cart) decimal.Decimal {
	sum := decimal.Zero
	if c == nil {
		return sum
	}
	for _, it := range c.Items {
		sum = sum.Add(lineSubtotal(it))
	}
	return sum
}

func lineSubtotal(it Item) decimal.Decimal {
	return it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))).Round(2)
}

// Price computes the summary for c. A nil cp means no discount applies.
func (p Pricing) Price(c *Cart, cp *coupon.Coupon) Summary {
	s := Summary{
		Items:         []SummaryItem{},
		Subtotal:      decimal.Zero,
		TotalDiscount: decimal.Zero,
		TaxAmount:     decimal.Zero,
		Total:         decimal.Zero,
		Currency:      p.Currency,
	}
	if c == nil {
		return s
	}
	s.CartID = c.ID
	s.CouponCode = c.CouponCode

	subtotals := make([]decimal.Decimal, len(c.Items))
	for i, it := range c.Items {
		subtotals[i] = lineSubtotal(it)
	}

	discounts := make([]decimal.Decimal, len(c.Items))
	if cp != nil {
		discounts = coupon.Allocate(*cp, subtotals)
	} else {
		for i := range discounts {
			discounts[i] = decimal.Zero
		}
	}

	for i, it := range c.Items {
		s.Items = append(s.Items, SummaryItem{
			ID:             it.ID,
			CourseID:       it.CourseID,
			BundleID:       it.BundleID,
			Title:          it.Title,
			Quantity:       it.Quantity,
			UnitPrice:      it.UnitPrice,
			DiscountAmount: discounts[i],
			Subtotal:       subtotals[i],
			Total:          subtotals[i].Sub(discounts[i]),
		})
		s.Subtotal = s.Subtotal.Add(subtotals[i])
		s.TotalDiscount = s.TotalDiscount.Add(discounts[i])
	}

	taxable := s.Subtotal.Sub(s.TotalDiscount)
	s.TaxAmount = taxable.Mul(p.TaxRate).Round(2)
	s.Total = taxable.Add(s.TaxAmount)
	return s
}
