package coupon

import (
	"time"

	"github.com/shopspring/decimal"
)

type DiscountType string

const (
	Percentage DiscountType = "percentage"
	Fixed      DiscountType = "fixed"
)

type Coupon struct {
	Code           string              `json:"code"`
	DiscountType   DiscountType        `json:"discount_type"`
	Value          decimal.Decimal     `json:"value"`
	MinOrderAmount decimal.Decimal     `json:"min_order_amount"`
	MaxDiscount    decimal.NullDecimal `json:"max_discount"`
	ValidFrom      time.Time           `json:"valid_from"`
	ValidUntil     *time.Time          `json:"valid_until,omitempty"`
	UsageLimit     int                 `json:"usage_limit"` // 0 means unlimited
	UsedCount      int                 `json:"used_count"`
	Active         bool                `json:"active"`
}
