package coupon

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("coupon not found")

type Reason string

const (
	ReasonUnknown       Reason = "unknown"
	ReasonInactive      Reason = "inactive"
	ReasonNotYetValid   Reason = "not_yet_valid"
	ReasonExpired       Reason = "expired"
	ReasonUsageExceeded Reason = "usage_exceeded"
	ReasonEmptyCart     Reason = "empty_cart"
	ReasonMinOrder      Reason = "min_order"
)

// ValidationError explains why a coupon cannot be applied. Message is
// safe to show to the shopper.
type ValidationError struct {
	Code    string
	Reason  Reason
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(code string, r Reason, msg string) *ValidationError {
	return &ValidationError{Code: code, Reason: r, Message: msg}
}

// NormalizeCode trims and upper-cases a code as entered by a shopper.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Validate checks c against the clock and the cart subtotal.
func Validate(c Coupon, now time.Time, subtotal decimal.Decimal) error {
	switch {
	case !c.Active:
		return invalid(c.Code, ReasonInactive, "Coupon is not active")
	case now.Before(c.ValidFrom):
		return invalid(c.Code, ReasonNotYetValid, "Coupon is not yet valid")
	case c.ValidUntil != nil && now.After(*c.ValidUntil):
		return invalid(c.Code, ReasonExpired, "Coupon has expired")
	case c.UsageLimit > 0 && c.UsedCount >= c.UsageLimit:
		return invalid(c.Code, ReasonUsageExceeded, "Coupon usage limit reached")
	case !subtotal.IsPositive():
		return invalid(c.Code, ReasonEmptyCart, "Cart is empty")
	case subtotal.LessThan(c.MinOrderAmount):
		return invalid(c.Code, ReasonMinOrder,
			fmt.Sprintf("Order subtotal must be at least %s to use this coupon", c.MinOrderAmount.StringFixed(2)))
	}
	return nil
}
