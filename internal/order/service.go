package order

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/validation"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrCartMismatch      = errors.New("cart has changed, reload it before checking out")
	ErrInvalidTransition = errors.New("order is not in a state that allows this transition")
	// ErrUndeliverable is returned by a Notifier when retrying cannot help,
	// for example a rejected recipient.
	ErrUndeliverable = errors.New("confirmation cannot be delivered")
)

const DefaultPaymentMethod = "stripe"

// FailureProcessing is the failure_reason shown to buyers. The cause is
// only logged.
const FailureProcessing = "Enrollment could not be completed, please try again"

// CartSource is the part of the cart service an order needs.
type CartSource interface {
	Summary(ctx context.Context, userID string) (cart.Summary, error)
	Clear(ctx context.Context, userID string) error
}

type CouponRedeemer interface {
	Redeem(ctx context.Context, code string) error
}

type Publisher interface {
	PublishOrderCreated(ctx context.Context, o Order) error
	PublishOrderProcessed(ctx context.Context, o Order) error
	PublishOrderConfirmed(ctx context.Context, o Order) error
}

// Notifier tells the buyer their order went through.
type Notifier interface {
	SendConfirmation(ctx context.Context, o Order) error
}

type Service struct {
	repo      Repository
	carts     CartSource
	coupons   CouponRedeemer
	publisher Publisher
	notifier  Notifier
	logger    *zap.Logger
	now       func() time.Time
}

func NewService(repo Repository, carts CartSource, coupons CouponRedeemer, publisher Publisher, notifier Notifier, logger *zap.Logger) *Service {
	return &Service{
		repo:      repo,
		carts:     carts,
		coupons:   coupons,
		publisher: publisher,
		notifier:  notifier,
		logger:    logger.Named("order"),
		now:       time.Now,
	}
}

// Create snapshots the user's current cart into a new order.
func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (*Order, error) {
	in.CartID = strings.TrimSpace(in.CartID)
	in.BillingName = strings.TrimSpace(in.BillingName)
	in.BillingEmail = strings.TrimSpace(in.BillingEmail)
	in.BillingAddress = strings.TrimSpace(in.BillingAddress)
	in.PaymentMethod = strings.ToLower(strings.TrimSpace(in.PaymentMethod))
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if in.PaymentMethod == "" {
		in.PaymentMethod = DefaultPaymentMethod
	}

	sum, err := s.carts.Summary(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "load cart")
	}
	if sum.IsEmpty() {
		return nil, ErrEmptyCart
	}
	if sum.CartID != in.CartID {
		return nil, ErrCartMismatch
	}

	now := s.now().UTC()
	o := &Order{
		ID:             uuid.NewString(),
		OrderNumber:    NewOrderNumber(now),
		CartID:         sum.CartID,
		UserID:         userID,
		Status:         StatusCreated,
		BillingName:    in.BillingName,
		BillingEmail:   in.BillingEmail,
		BillingAddress: in.BillingAddress,
		CustomerNotes:  strings.TrimSpace(in.CustomerNotes),
		PaymentMethod:  in.PaymentMethod,
		Items:          snapshot(sum.Items),
		Subtotal:       sum.Subtotal,
		DiscountAmount: sum.TotalDiscount,
		TaxAmount:      sum.TaxAmount,
		Total:          sum.Total,
		Currency:       sum.Currency,
		CreatedAt:      now,
	}
	// A coupon that stopped validating gave no discount and must not be redeemed.
	if sum.CouponError == "" {
		o.CouponCode = sum.CouponCode
	}

	if err := s.repo.Create(ctx, o); err != nil {
		return nil, errors.Wrap(err, "persist order")
	}

	if err := s.publisher.PublishOrderCreated(ctx, *o); err != nil {
		s.logger.Warn("publish order created", zap.String("order_id", o.ID), zap.Error(err))
	}
	s.logger.Info("order created",
		zap.String("order_id", o.ID),
		zap.String("order_number", o.OrderNumber),
		zap.String("user_id", userID),
		zap.String("total", o.Total.StringFixed(2)),
	)
	return o, nil
}

// Process grants enrollments for a created or failed order. Calling it
// again for a processed order returns that order unchanged and publishes
// order.processed again so confirmation can still happen.
func (s *Service) Process(ctx context.Context, userID, orderID string) (*Order, error) {
	o, err := s.Get(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	if o.Status == StatusProcessed {
		// Still unconfirmed, so the earlier event may have been lost.
		s.publishProcessed(ctx, o)
		return o, nil
	}
	if o.Status.Done() {
		return o, nil
	}
	if !o.Status.Processable() {
		return nil, ErrInvalidTransition
	}

	now := s.now().UTC()
	ok, err := s.repo.MarkProcessed(ctx, o.ID, enrollmentsFor(o), now)
	if err != nil {
		if ferr := s.repo.MarkFailed(ctx, o.ID, FailureProcessing); ferr != nil {
			s.logger.Error("mark order failed", zap.String("order_id", o.ID), zap.Error(ferr))
		}
		s.logger.Warn("order processing failed", zap.String("order_id", o.ID), zap.Error(err))
		return nil, errors.Wrap(err, "process order")
	}
	if !ok {
		// Someone else processed it between our read and the update.
		return s.Get(ctx, userID, orderID)
	}

	o.Status = StatusProcessed
	o.ProcessedAt = &now
	o.FailureReason = ""

	if o.CouponCode != "" {
		if err := s.coupons.Redeem(ctx, o.CouponCode); err != nil {
			s.logger.Warn("redeem coupon", zap.String("order_id", o.ID), zap.String("coupon_code", o.CouponCode), zap.Error(err))
		}
	}
	if err := s.carts.Clear(ctx, userID); err != nil {
		s.logger.Warn("clear cart", zap.String("order_id", o.ID), zap.Error(err))
	}
	s.publishProcessed(ctx, o)

	s.logger.Info("order processed", zap.String("order_id", o.ID), zap.Int("enrollments", len(o.Items)))
	return o, nil
}

// publishProcessed is best effort. A lost event leaves the order processed
// until Process is called for it again.
func (s *Service) publishProcessed(ctx context.Context, o *Order) {
	if err := s.publisher.PublishOrderProcessed(ctx, *o); err != nil {
		s.logger.Warn("publish order processed", zap.String("order_id", o.ID), zap.Error(err))
	}
}

func (s *Service) Get(ctx context.Context, userID, orderID string) (*Order, error) {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, errors.Wrap(err, "load order")
	}
	if o == nil || o.UserID != userID {
		return nil, ErrOrderNotFound
	}
	return o, nil
}

func (s *Service) List(ctx context.Context, userID string) ([]Order, error) {
	orders, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "list orders")
	}
	return orders, nil
}

// Confirm sends the confirmation for a processed order and marks it
// confirmed. Confirming an already confirmed order does nothing.
func (s *Service) Confirm(ctx context.Context, orderID string) error {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return errors.Wrap(err, "load order")
	}
	if o == nil {
		return ErrOrderNotFound
	}
	switch o.Status {
	case StatusConfirmed:
		return nil
	case StatusProcessed:
	default:
		return errors.Wrapf(ErrInvalidTransition, "confirm order in status %s", o.Status)
	}

	if err := s.notifier.SendConfirmation(ctx, *o); err != nil {
		return errors.Wrap(err, "send confirmation")
	}

	now := s.now().UTC()
	ok, err := s.repo.MarkConfirmed(ctx, o.ID, now)
	if err != nil {
		return errors.Wrap(err, "mark confirmed")
	}
	if !ok {
		return nil
	}
	o.Status = StatusConfirmed
	o.ConfirmedAt = &now

	if err := s.publisher.PublishOrderConfirmed(ctx, *o); err != nil {
		s.logger.Warn("publish order confirmed", zap.String("order_id", o.ID), zap.Error(err))
	}
	s.logger.Info("order confirmed", zap.String("order_id", o.ID))
	return nil
}

// NewOrderNumber returns a human readable number such as ORD-20240131-1A2B3C4D.
func NewOrderNumber(at time.Time) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("ORD-%s-%s", at.UTC().Format("20060102"), strings.ToUpper(id[:8]))
}

func snapshot(items []cart.SummaryItem) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		out = append(out, Item{
			CourseID:       it.CourseID,
			BundleID:       it.BundleID,
			Title:          it.Title,
			Quantity:       it.Quantity,
			UnitPrice:      it.UnitPrice,
			DiscountAmount: it.DiscountAmount,
			Subtotal:       it.Subtotal,
			Total:          it.Total,
		})
	}
	return out
}

func enrollmentsFor(o *Order) []Enrollment {
	out := make([]Enrollment, 0, len(o.Items))
	for _, it := range o.Items {
		out = append(out, Enrollment{
			OrderID:  o.ID,
			UserID:   o.UserID,
			CourseID: it.CourseID,
			BundleID: it.BundleID,
		})
	}
	return out
}
