package checkout

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/clients"
	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/order"
)

const (
	MsgCreateFailed  = "Failed to create order"
	MsgProcessFailed = "Failed to process order"
)

// Submitter turns a checkout into an order: create, then process. When
// processing fails the created order is kept and the next Submit with the
// same details only retries processing it. Changed details start a new
// order.
type Submitter struct {
	api OrderAPI

	mu           sync.Mutex
	pending      *order.Order
	pendingInput order.CreateInput
}

func NewSubmitter(api OrderAPI) *Submitter {
	return &Submitter{api: api}
}

func (s *Submitter) Submit(ctx context.Context, cartID string, billing Billing, notes string, method PaymentMethod) (order.Order, error) {
	in := order.CreateInput{
		CartID:         cartID,
		BillingName:    strings.TrimSpace(billing.Name),
		BillingEmail:   strings.TrimSpace(billing.Email),
		BillingAddress: billing.FullAddress(),
		CustomerNotes:  strings.TrimSpace(notes),
		PaymentMethod:  string(method),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// The unprocessed order carries the old details and is left behind.
	if s.pending != nil && s.pendingInput != in {
		s.pending = nil
	}
	if s.pending == nil {
		created, err := s.api.Create(ctx, in)
		if err != nil {
			return order.Order{}, userError(err, MsgCreateFailed)
		}
		s.pending = &created
		s.pendingInput = in
	}

	processed, err := s.api.Process(ctx, s.pending.ID)
	if err != nil {
		if clients.IsStatus(err, http.StatusNotFound) {
			s.pending = nil
		}
		return order.Order{}, userError(err, MsgProcessFailed)
	}
	s.pending = nil
	return processed, nil
}

// Pending returns the order that was created but not yet processed.
func (s *Submitter) Pending() (order.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return order.Order{}, false
	}
	return *s.pending, true
}

// Reset forgets the pending order.
func (s *Submitter) Reset() {
	s.mu.Lock()
	s.pending = nil
	s.mu.Unlock()
}
