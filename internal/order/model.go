package order

import (
	"time"

	"github.com/shopspring/decimal"
)

type Item struct {
	CourseID       *string         `json:"course_id"`
	BundleID       *string         `json:"bundle_id"`
	Title          string          `json:"title"`
	Quantity       int             `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	Total          decimal.Decimal `json:"total"`
}

type Order struct {
	ID             string          `json:"id"`
	OrderNumber    string          `json:"order_number"`
	CartID         string          `json:"cart_id"`
	UserID         string          `json:"user_id"`
	Status         Status          `json:"status"`
	BillingName    string          `json:"billing_name"`
	BillingEmail   string          `json:"billing_email"`
	BillingAddress string          `json:"billing_address"`
	CustomerNotes  string          `json:"customer_notes"`
	PaymentMethod  string          `json:"payment_method"`
	CouponCode     string          `json:"coupon_code,omitempty"`
	Items          []Item          `json:"items"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	Total          decimal.Decimal `json:"total"`
	Currency       string          `json:"currency"`
	FailureReason  string          `json:"failure_reason,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	ProcessedAt    *time.Time      `json:"processed_at,omitempty"`
	ConfirmedAt    *time.Time      `json:"confirmed_at,omitempty"`
}

// Enrollment grants a user access to a course or bundle bought in an order.
type Enrollment struct {
	ID        string    `json:"id"`
	OrderID   string    `json:"order_id"`
	UserID    string    `json:"user_id"`
	CourseID  *string   `json:"course_id"`
	BundleID  *string   `json:"bundle_id"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateInput is the body of a create-order request.
type CreateInput struct {
	CartID         string `json:"cart_id" validate:"notblank"`
	BillingName    string `json:"billing_name" validate:"notblank,max=200"`
	BillingEmail   string `json:"billing_email" validate:"notblank,checkout_email"`
	BillingAddress string `json:"billing_address" validate:"notblank,max=1000"`
	CustomerNotes  string `json:"customer_notes" validate:"max=2000"`
	PaymentMethod  string `json:"payment_method" validate:"omitempty,oneof=stripe razorpay"`
}
