package checkout

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/cart"
)

const (
	MsgLoadFailed   = "Failed to load cart"
	MsgUpdateFailed = "Failed to update quantity"
	MsgRemoveFailed = "Failed to remove item"
	MsgClearFailed  = "Failed to clear cart"

	ClearPrompt = "Are you sure you want to clear your cart?"
)

// Confirmer asks the user to approve a destructive action.
type Confirmer interface {
	Confirm(prompt string) bool
}

type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// Totals is what a cart page renders under the item list.
type Totals struct {
	Subtotal      decimal.Decimal
	TotalDiscount decimal.Decimal
	TaxAmount     decimal.Decimal
	Total         decimal.Decimal
	Currency      string
}

// CartView holds the last cart summary the server returned. It never
// computes totals itself and refetches after every mutation.
type CartView struct {
	api CartAPI

	mu       sync.Mutex
	summary  *cart.Summary
	inFlight int
	err      string
	redirect bool
}

func NewCartView(api CartAPI) *CartView {
	return &CartView{api: api}
}

// Load fetches the cart. On failure the last good summary stays in place.
func (v *CartView) Load(ctx context.Context) error {
	v.mu.Lock()
	v.inFlight++
	v.mu.Unlock()

	sum, err := v.api.Get(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()
	v.inFlight--
	if err != nil {
		v.err = Message(err, MsgLoadFailed)
		if v.summary == nil {
			v.redirect = true
		}
		return userError(err, MsgLoadFailed)
	}
	v.summary = &sum
	v.err = ""
	v.redirect = false
	return nil
}

// UpdateQuantity sets an item's quantity. A quantity below one removes
// the item.
func (v *CartView) UpdateQuantity(ctx context.Context, itemID string, quantity int) error {
	if quantity < 1 {
		return v.Remove(ctx, itemID)
	}
	return v.mutate(ctx, MsgUpdateFailed, func() error {
		return v.api.UpdateQuantity(ctx, itemID, quantity)
	})
}

func (v *CartView) Remove(ctx context.Context, itemID string) error {
	return v.mutate(ctx, MsgRemoveFailed, func() error {
		return v.api.RemoveItem(ctx, itemID)
	})
}

// Clear empties the cart once confirm approves. It reports whether the
// cart was cleared.
func (v *CartView) Clear(ctx context.Context, confirm Confirmer) (bool, error) {
	if confirm == nil || !confirm.Confirm(ClearPrompt) {
		return false, nil
	}
	if err := v.mutate(ctx, MsgClearFailed, func() error {
		return v.api.Clear(ctx)
	}); err != nil {
		return false, err
	}
	return true, nil
}

// mutate runs call and then always reloads. A failed call's message wins
// over the reload result.
func (v *CartView) mutate(ctx context.Context, fallback string, call func() error) error {
	callErr := call()
	loadErr := v.Load(ctx)

	if callErr != nil {
		v.mu.Lock()
		v.err = Message(callErr, fallback)
		v.mu.Unlock()
		return userError(callErr, fallback)
	}
	return loadErr
}

func (v *CartView) Summary() (cart.Summary, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.summary == nil {
		return cart.Summary{}, false
	}
	return *v.summary, true
}

func (v *CartView) Items() []cart.SummaryItem {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.summary == nil {
		return nil
	}
	return append([]cart.SummaryItem(nil), v.summary.Items...)
}

func (v *CartView) IsEmpty() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.summary == nil || len(v.summary.Items) == 0
}

// CanCheckout is false for an empty cart and while a load is running.
func (v *CartView) CanCheckout() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.summary != nil && len(v.summary.Items) > 0 && v.inFlight == 0
}

// Totals returns ok=false for an empty cart, which renders no totals.
func (v *CartView) Totals() (Totals, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.summary == nil || len(v.summary.Items) == 0 {
		return Totals{}, false
	}
	s := v.summary
	return Totals{
		Subtotal:      s.Subtotal,
		TotalDiscount: s.TotalDiscount,
		TaxAmount:     s.TaxAmount,
		Total:         s.Total,
		Currency:      s.Currency,
	}, true
}

func (v *CartView) Error() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.err
}

// RedirectToCatalog is set when the cart could not be loaded at all.
func (v *CartView) RedirectToCatalog() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.redirect
}
