package checkout

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
)

const (
	MsgCouponRequired = "Please enter a coupon code"
	MsgCouponApplied  = "Coupon applied successfully!"
	MsgCouponFailed   = "Invalid coupon code"
	MsgCouponRemoved  = "Coupon removed"
)

var (
	ErrCouponRequired = errors.New(MsgCouponRequired)
	// ErrStale is returned to an attempt that was overtaken by a newer one.
	ErrStale = errors.New("superseded by a newer coupon attempt")
)

// CouponApplier sends coupon codes and keeps the message for the latest
// attempt only.
type CouponApplier struct {
	api  CartAPI
	view *CartView
	seq  atomic.Uint64

	mu      sync.Mutex
	success string
	err     string
}

func NewCouponApplier(api CartAPI, view *CartView) *CouponApplier {
	return &CouponApplier{api: api, view: view}
}

func (a *CouponApplier) Apply(ctx context.Context, code string) error {
	n := a.begin()

	code = strings.TrimSpace(code)
	if code == "" {
		a.finish(n, "", MsgCouponRequired)
		return ErrCouponRequired
	}

	if err := a.api.ApplyCoupon(ctx, code); err != nil {
		if !a.finish(n, "", Message(err, MsgCouponFailed)) {
			return ErrStale
		}
		return userError(err, MsgCouponFailed)
	}

	// The reload is not sequenced: it shows server state, whichever attempt triggers it.
	_ = a.view.Load(ctx)
	if !a.finish(n, MsgCouponApplied, "") {
		return ErrStale
	}
	return nil
}

// Remove detaches the current coupon.
func (a *CouponApplier) Remove(ctx context.Context) error {
	n := a.begin()
	if err := a.api.RemoveCoupon(ctx); err != nil {
		if !a.finish(n, "", Message(err, MsgCouponFailed)) {
			return ErrStale
		}
		return userError(err, MsgCouponFailed)
	}
	_ = a.view.Load(ctx)
	if !a.finish(n, MsgCouponRemoved, "") {
		return ErrStale
	}
	return nil
}

func (a *CouponApplier) begin() uint64 {
	n := a.seq.Add(1)
	a.mu.Lock()
	a.success, a.err = "", ""
	a.mu.Unlock()
	return n
}

// finish records the outcome of attempt n unless a newer attempt exists.
func (a *CouponApplier) finish(n uint64, success, errMsg string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.seq.Load() != n {
		return false
	}
	a.success, a.err = success, errMsg
	return true
}

func (a *CouponApplier) Success() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.success
}

func (a *CouponApplier) Error() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.err
}
