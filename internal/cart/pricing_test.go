package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/coupon"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func strptr(s string) *string { return &s }

func sampleCart() *Cart {
	return &Cart{
		ID:     "cart-1",
		UserID: "user-1",
		Items: []Item{
			{ID: "i1", CourseID: strptr("go-101"), Title: "Go 101", Quantity: 2, UnitPrice: d("49.99")},
			{ID: "i2", BundleID: strptr("backend"), Title: "Backend bundle", Quantity: 1, UnitPrice: d("100.00")},
		},
	}
}

// assertLineInvariants checks subtotal = unit_price*qty and total = subtotal - discount.
func assertLineInvariants(t *testing.T, s Summary) {
	t.Helper()
	sub, disc := decimal.Zero, decimal.Zero
	for _, it := range s.Items {
		assert.True(t, it.Subtotal.Equal(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))), "subtotal of %s", it.ID)
		assert.True(t, it.Total.Equal(it.Subtotal.Sub(it.DiscountAmount)), "total of %s", it.ID)
		assert.False(t, it.DiscountAmount.GreaterThan(it.Subtotal), "discount of %s", it.ID)
		sub = sub.Add(it.Subtotal)
		disc = disc.Add(it.DiscountAmount)
	}
	assert.True(t, s.Subtotal.Equal(sub))
	assert.True(t, s.TotalDiscount.Equal(disc))
	assert.True(t, s.Total.Equal(s.Subtotal.Sub(s.TotalDiscount).Add(s.TaxAmount)))
}

func TestPrice_NoCoupon(t *testing.T) {
	p := Pricing{TaxRate: d("0.18"), Currency: "INR"}
	s := p.Price(sampleCart(), nil)

	require.Len(t, s.Items, 2)
	assert.Equal(t, "cart-1", s.CartID)
	assert.True(t, s.Subtotal.Equal(d("199.98")))
	assert.True(t, s.TotalDiscount.IsZero())
	assert.True(t, s.TaxAmount.Equal(d("36.00")))
	assert.True(t, s.Total.Equal(d("235.98")))
	assert.Equal(t, "INR", s.Currency)
	assertLineInvariants(t, s)
}

func TestPrice_WithCoupon(t *testing.T) {
	c := sampleCart()
	c.CouponCode = "SAVE10"
	cp := &coupon.Coupon{Code: "SAVE10", DiscountType: coupon.Percentage, Value: d("10")}

	s := Pricing{TaxRate: decimal.Zero, Currency: "INR"}.Price(c, cp)

	assert.Equal(t, "SAVE10", s.CouponCode)
	assert.True(t, s.Items[0].DiscountAmount.Equal(d("10.00")))
	assert.True(t, s.Items[1].DiscountAmount.Equal(d("10.00")))
	assert.True(t, s.Total.Equal(d("179.98")))
	assertLineInvariants(t, s)
}

func TestPrice_FixedCouponLargerThanCart(t *testing.T) {
	cp := &coupon.Coupon{DiscountType: coupon.Fixed, Value: d("1000")}
	s := Pricing{TaxRate: d("0.05"), Currency: "INR"}.Price(sampleCart(), cp)

	assert.True(t, s.TotalDiscount.Equal(s.Subtotal))
	assert.True(t, s.Total.IsZero())
	assertLineInvariants(t, s)
}

func TestPrice_EmptyAndNil(t *testing.T) {
	p := Pricing{Currency: "INR"}

	s := p.Price(nil, nil)
	assert.True(t, s.IsEmpty())
	assert.NotNil(t, s.Items)
	assert.Equal(t, "", s.CartID)
	assert.True(t, s.Total.IsZero())

	s = p.Price(&Cart{ID: "c"}, nil)
	assert.True(t, s.IsEmpty())
	assert.Equal(t, "c", s.CartID)
}

func TestSubtotal(t *testing.T) {
	assert.True(t, Subtotal(sampleCart()).Equal(d("199.98")))
	assert.True(t, Subtotal(nil).IsZero())
}
