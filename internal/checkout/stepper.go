package checkout

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/order"
)

type Step int

const (
	StepReview Step = iota
	StepBilling
	StepPayment
	StepConfirmation
)

func (s Step) String() string {
	switch s {
	case StepReview:
		return "review"
	case StepBilling:
		return "billing"
	case StepPayment:
		return "payment"
	case StepConfirmation:
		return "confirmation"
	default:
		return "unknown"
	}
}

var (
	ErrCartEmpty      = errors.New("Your cart is empty")
	ErrInvalidBilling = errors.New("Please fix the highlighted fields")
	ErrTerminal       = errors.New("checkout is already complete")
	ErrCannotGoBack   = errors.New("cannot go back from this step")
	ErrUnknownField   = errors.New("unknown billing field")
	ErrSubmitting     = errors.New("order is already being placed")
)

// Stepper is the review, billing, payment and confirmation flow over one
// cart. Form data survives moving back and forth.
type Stepper struct {
	view      *CartView
	submitter *Submitter

	mu      sync.Mutex
	step    Step
	billing Billing
	errs    map[string]string
	payment PaymentMethod
	notes   string
	order   *order.Order
	err     string

	submitting bool
}

func NewStepper(view *CartView, submitter *Submitter) *Stepper {
	return &Stepper{
		view:      view,
		submitter: submitter,
		billing:   NewBilling(),
		errs:      map[string]string{},
		payment:   DefaultPayment,
	}
}

// Next advances one step when the current step's gate passes. The lock is
// not held while the order is placed, so accessors stay responsive.
func (s *Stepper) Next(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.step {
	case StepReview:
		if s.view.IsEmpty() {
			return ErrCartEmpty
		}
		s.step = StepBilling
	case StepBilling:
		s.errs = s.billing.Validate()
		if len(s.errs) > 0 {
			return ErrInvalidBilling
		}
		s.step = StepPayment
	case StepPayment:
		return s.submit(ctx)
	default:
		return ErrTerminal
	}
	return nil
}

// submit is called with s.mu held and returns with it held.
func (s *Stepper) submit(ctx context.Context) error {
	if s.submitting {
		return ErrSubmitting
	}
	sum, ok := s.view.Summary()
	if !ok || sum.IsEmpty() {
		return ErrCartEmpty
	}
	billing, notes, method := s.billing, s.notes, s.payment
	s.err = ""
	s.submitting = true

	s.mu.Unlock()
	placed, err := s.submitter.Submit(ctx, sum.CartID, billing, notes, method)
	s.mu.Lock()

	s.submitting = false
	if err != nil {
		s.err = Message(err, MsgCreateFailed)
		return err
	}
	s.order = &placed
	s.step = StepConfirmation
	return nil
}

func (s *Stepper) Back() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.submitting {
		return ErrSubmitting
	}
	switch s.step {
	case StepBilling, StepPayment:
		s.step--
		return nil
	default:
		return ErrCannotGoBack
	}
}

// SetField stores a billing value and clears that field's error only.
func (s *Stepper) SetField(field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.billing.set(field, value) {
		return errors.Wrap(ErrUnknownField, field)
	}
	delete(s.errs, field)
	return nil
}

func (s *Stepper) SelectPayment(m PaymentMethod) error {
	if _, err := lookupPayment(m); err != nil {
		return err
	}
	s.mu.Lock()
	s.payment = m
	s.mu.Unlock()
	return nil
}

func (s *Stepper) SetNotes(notes string) {
	s.mu.Lock()
	s.notes = notes
	s.mu.Unlock()
}

func (s *Stepper) Step() Step {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step
}

func (s *Stepper) Billing() Billing {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.billing
}

// FieldErrors returns a copy of the current per-field messages.
func (s *Stepper) FieldErrors() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.errs))
	for k, v := range s.errs {
		out[k] = v
	}
	return out
}

func (s *Stepper) Payment() PaymentMethod {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.payment
}

func (s *Stepper) Notes() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notes
}

// Order is the placed order once the flow reaches confirmation.
func (s *Stepper) Order() (order.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.order == nil {
		return order.Order{}, false
	}
	return *s.order, true
}

// Error is the last submission failure message.
func (s *Stepper) Error() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
