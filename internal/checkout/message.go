// Package checkout drives the cart and checkout workflow against the
// checkout API: cart view, coupon entry, the four step checkout and order
// submission.
package checkout

import (
	"context"

	"github.com/pkg/errors"

	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/clients"
	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/order"
)

// CartAPI is the cart half of the REST API. *clients.CartClient satisfies it.
type CartAPI interface {
	Get(ctx context.Context) (cart.Summary, error)
	UpdateQuantity(ctx context.Context, itemID string, quantity int) error
	RemoveItem(ctx context.Context, itemID string) error
	Clear(ctx context.Context) error
	ApplyCoupon(ctx context.Context, code string) error
	RemoveCoupon(ctx context.Context) error
}

// OrderAPI is the order half of the REST API. *clients.OrderClient satisfies it.
type OrderAPI interface {
	Create(ctx context.Context, in order.CreateInput) (order.Order, error)
	Process(ctx context.Context, orderID string) (order.Order, error)
}

var (
	_ CartAPI  = (*clients.CartClient)(nil)
	_ OrderAPI = (*clients.OrderClient)(nil)
)

// Message returns the text to show for err: the server's detail when it
// sent one, fallback otherwise.
func Message(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var apiErr *clients.APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	var local *Error
	if errors.As(err, &local) {
		return local.Message
	}
	return fallback
}

// Error is a failure already phrased for the user.
type Error struct {
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }
func (e *Error) Unwrap() error { return e.Err }

func userError(err error, fallback string) error {
	return &Error{Message: Message(err, fallback), Err: err}
}
