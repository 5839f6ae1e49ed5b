package cart

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item is a stored cart line. Exactly one of CourseID and BundleID is set.
type Item struct {
	ID        string
	CourseID  *string
	BundleID  *string
	Title     string
	Quantity  int
	UnitPrice decimal.Decimal
	CreatedAt time.Time
}

type Cart struct {
	ID         string
	UserID     string
	CouponCode string
	Items      []Item
	UpdatedAt  time.Time
}

// SummaryItem is a priced cart line as served to clients.
type SummaryItem struct {
	ID             string          `json:"id"`
	CourseID       *string         `json:"course_id"`
	BundleID       *string         `json:"bundle_id"`
	Title          string          `json:"title"`
	Quantity       int             `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	Total          decimal.Decimal `json:"total"`
}

// Summary is the authoritative priced view of a cart.
type Summary struct {
	CartID        string          `json:"cart_id"`
	Items         []SummaryItem   `json:"items"`
	CouponCode    string          `json:"coupon_code,omitempty"`
	CouponError   string          `json:"coupon_error,omitempty"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	TotalDiscount decimal.Decimal `json:"total_discount"`
	TaxAmount     decimal.Decimal `json:"tax_amount"`
	Total         decimal.Decimal `json:"total"`
	Currency      string          `json:"currency"`
}

func (s Summary) IsEmpty() bool { return len(s.Items) == 0 }

// AddItemInput is a request to put a course or bundle in the cart.
type AddItemInput struct {
	CourseID string `json:"course_id"`
	BundleID string `json:"bundle_id"`
	Quantity int    `json:"quantity" validate:"min=1"`
}
