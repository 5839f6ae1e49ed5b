package cart

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/coupon"
	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/validation"
)

var (
	ErrItemNotFound   = errors.New("cart item not found")
	ErrCouponRequired = errors.New("coupon code is required")
)

const (
	KindCourse = "course"
	KindBundle = "bundle"
)

// CouponChecker resolves a code against the current cart subtotal.
type CouponChecker interface {
	Check(ctx context.Context, code string, subtotal decimal.Decimal) (coupon.Coupon, error)
}

type Service struct {
	repo    Repository
	catalog Catalog
	coupons CouponChecker
	pricing Pricing
	logger  *zap.Logger
}

func NewService(repo Repository, catalog Catalog, coupons CouponChecker, pricing Pricing, logger *zap.Logger) *Service {
	return &Service{
		repo:    repo,
		catalog: catalog,
		coupons: coupons,
		pricing: pricing,
		logger:  logger.Named("cart"),
	}
}

// Summary prices the user's cart. A user without a cart gets an empty
// summary. An attached coupon that no longer validates is reported in
// CouponError and grants no discount.
func (s *Service) Summary(ctx context.Context, userID string) (Summary, error) {
	c, err := s.repo.GetCart(ctx, userID)
	if err != nil {
		return Summary{}, errors.Wrap(err, "load cart")
	}

	var (
		applied   *coupon.Coupon
		couponErr string
	)
	if c != nil && c.CouponCode != "" {
		cp, err := s.coupons.Check(ctx, c.CouponCode, Subtotal(c))
		var verr *coupon.ValidationError
		switch {
		case err == nil:
			applied = &cp
		case errors.As(err, &verr):
			couponErr = verr.Message
		default:
			return Summary{}, errors.Wrap(err, "check coupon")
		}
	}

	sum := s.pricing.Price(c, applied)
	sum.CouponError = couponErr
	return sum, nil
}

func (s *Service) AddItem(ctx context.Context, userID string, in AddItemInput) error {
	in.CourseID = strings.TrimSpace(in.CourseID)
	in.BundleID = strings.TrimSpace(in.BundleID)

	if (in.CourseID == "") == (in.BundleID == "") {
		return &validation.Error{Fields: map[string]string{
			"course_id": "exactly one of course_id or bundle_id is required",
		}}
	}
	if err := validation.Struct(in); err != nil {
		return err
	}

	kind, id, field := KindCourse, in.CourseID, "course_id"
	if in.BundleID != "" {
		kind, id, field = KindBundle, in.BundleID, "bundle_id"
	}

	entry, err := s.catalog.Lookup(ctx, kind, id)
	if err != nil {
		if errors.Is(err, ErrUnknownProduct) {
			return &validation.Error{Fields: map[string]string{field: "unknown " + kind}}
		}
		return errors.Wrap(err, "catalog lookup")
	}

	it := Item{Title: entry.Title, Quantity: in.Quantity, UnitPrice: entry.Price}
	if kind == KindCourse {
		it.CourseID = &entry.ID
	} else {
		it.BundleID = &entry.ID
	}

	if err := s.repo.AddItem(ctx, userID, it); err != nil {
		return errors.Wrap(err, "add item")
	}
	s.logger.Info("item added", zap.String("user_id", userID), zap.String(field, id), zap.Int("quantity", in.Quantity))
	return nil
}

// UpdateQuantity sets a line's quantity. A quantity below one removes
// the line.
func (s *Service) UpdateQuantity(ctx context.Context, userID, itemID string, quantity int) error {
	if quantity < 1 {
		return s.RemoveItem(ctx, userID, itemID)
	}
	ok, err := s.repo.SetQuantity(ctx, userID, itemID, quantity)
	if err != nil {
		return errors.Wrap(err, "set quantity")
	}
	if !ok {
		return ErrItemNotFound
	}
	return nil
}

func (s *Service) RemoveItem(ctx context.Context, userID, itemID string) error {
	ok, err := s.repo.RemoveItem(ctx, userID, itemID)
	if err != nil {
		return errors.Wrap(err, "remove item")
	}
	if !ok {
		return ErrItemNotFound
	}
	return nil
}

func (s *Service) Clear(ctx context.Context, userID string) error {
	if err := s.repo.ClearCart(ctx, userID); err != nil {
		return errors.Wrap(err, "clear cart")
	}
	return nil
}

// ApplyCoupon validates code against the cart and attaches it, replacing
// any coupon already attached.
func (s *Service) ApplyCoupon(ctx context.Context, userID, code string) error {
	code = coupon.NormalizeCode(code)
	if code == "" {
		return ErrCouponRequired
	}

	c, err := s.repo.GetCart(ctx, userID)
	if err != nil {
		return errors.Wrap(err, "load cart")
	}
	if _, err := s.coupons.Check(ctx, code, Subtotal(c)); err != nil {
		return err
	}

	if err := s.repo.SetCoupon(ctx, userID, code); err != nil {
		return errors.Wrap(err, "attach coupon")
	}
	s.logger.Info("coupon applied", zap.String("user_id", userID), zap.String("coupon_code", code))
	return nil
}

func (s *Service) RemoveCoupon(ctx context.Context, userID string) error {
	if err := s.repo.SetCoupon(ctx, userID, ""); err != nil {
		return errors.Wrap(err, "detach coupon")
	}
	return nil
}
