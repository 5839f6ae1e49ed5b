package coupon

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Service resolves coupon codes for the cart and counts redemptions for
// orders.
type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Check returns the coupon for code if it can be applied to a cart with
// the given subtotal. Unknown codes are reported as a ValidationError.
func (s *Service) Check(ctx context.Context, code string, subtotal decimal.Decimal) (Coupon, error) {
	code = NormalizeCode(code)
	c, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Coupon{}, invalid(code, ReasonUnknown, "Invalid coupon code")
		}
		return Coupon{}, errors.Wrap(err, "load coupon")
	}
	if err := Validate(c, s.now(), subtotal); err != nil {
		return c, err
	}
	return c, nil
}

func (s *Service) Redeem(ctx context.Context, code string) error {
	if err := s.repo.Redeem(ctx, code); err != nil {
		return errors.Wrapf(err, "redeem coupon %s", NormalizeCode(code))
	}
	return nil
}
