package checkout

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/clients"
	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/order"
)

type fakeCartAPI struct {
	mu sync.Mutex

	summary cart.Summary
	getErr  error

	updateErr error
	removeErr error
	clearErr  error
	applyFn   func(ctx context.Context, code string) error

	gets, updates, removes, clears, applies, couponRemovals int
	lastQuantity                                            int
}

func (f *fakeCartAPI) Get(context.Context) (cart.Summary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	if f.getErr != nil {
		return cart.Summary{}, f.getErr
	}
	return f.summary, nil
}

func (f *fakeCartAPI) UpdateQuantity(_ context.Context, _ string, q int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates++
	f.lastQuantity = q
	return f.updateErr
}

func (f *fakeCartAPI) RemoveItem(context.Context, string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removes++
	return f.removeErr
}

func (f *fakeCartAPI) Clear(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clears++
	if f.clearErr == nil {
		f.summary.Items = nil
	}
	return f.clearErr
}

func (f *fakeCartAPI) ApplyCoupon(ctx context.Context, code string) error {
	f.mu.Lock()
	f.applies++
	fn := f.applyFn
	f.mu.Unlock()
	if fn != nil {
		return fn(ctx, code)
	}
	return nil
}

func (f *fakeCartAPI) RemoveCoupon(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.couponRemovals++
	f.summary.CouponCode = ""
	return nil
}

func (f *fakeCartAPI) calls() (gets, applies int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.gets, f.applies
}

type fakeOrderAPI struct {
	createFn  func(order.CreateInput) (order.Order, error)
	processFn func(id string) (order.Order, error)

	created   []order.CreateInput
	processed []string
}

func (f *fakeOrderAPI) Create(_ context.Context, in order.CreateInput) (order.Order, error) {
	f.created = append(f.created, in)
	if f.createFn != nil {
		return f.createFn(in)
	}
	return order.Order{ID: fmt.Sprintf("o-%d", len(f.created)), OrderNumber: "ORD-20260101-ABCDEF12", CartID: in.CartID, Status: order.StatusCreated}, nil
}

func (f *fakeOrderAPI) Process(_ context.Context, id string) (order.Order, error) {
	f.processed = append(f.processed, id)
	if f.processFn != nil {
		return f.processFn(id)
	}
	return order.Order{ID: id, OrderNumber: "ORD-20260101-ABCDEF12", Status: order.StatusProcessed}, nil
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func strptr(s string) *string { return &s }

func summaryWith(total string) cart.Summary {
	return cart.Summary{
		CartID: "cart-1",
		Items: []cart.SummaryItem{{
			ID: "item-1", CourseID: strptr("go-101"), Title: "Go 101", Quantity: 1,
			UnitPrice: d(total), DiscountAmount: decimal.Zero, Subtotal: d(total), Total: d(total),
		}},
		Subtotal:      d(total),
		TotalDiscount: decimal.Zero,
		TaxAmount:     decimal.Zero,
		Total:         d(total),
		Currency:      "INR",
	}
}

func apiErr(status int, detail string) error {
	return &clients.APIError{Status: status, Detail: detail}
}

var errBoom = &clients.APIError{Status: http.StatusInternalServerError}
