package checkout

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/order"
)

func newStepper(t *testing.T, api *fakeCartAPI, orders *fakeOrderAPI) *Stepper {
	t.Helper()
	view := NewCartView(api)
	require.NoError(t, view.Load(context.Background()))
	return NewStepper(view, NewSubmitter(orders))
}

func fillBilling(t *testing.T, s *Stepper) {
	t.Helper()
	for field, value := range map[string]string{
		FieldName: "Jane Doe", FieldEmail: "jane@x.com", FieldAddress: "1 Main St",
		FieldCity: "Pune", FieldZip: "411001",
	} {
		require.NoError(t, s.SetField(field, value))
	}
}

func TestStepper_EmptyCartCannotStart(t *testing.T) {
	s := newStepper(t, &fakeCartAPI{}, &fakeOrderAPI{})

	require.ErrorIs(t, s.Next(context.Background()), ErrCartEmpty)
	assert.Equal(t, StepReview, s.Step())
}

func TestStepper_BillingGate(t *testing.T) {
	s := newStepper(t, &fakeCartAPI{summary: summaryWith("100.00")}, &fakeOrderAPI{})
	ctx := context.Background()

	require.NoError(t, s.Next(ctx))
	assert.Equal(t, StepBilling, s.Step())
	assert.Equal(t, DefaultCountry, s.Billing().Country)

	require.ErrorIs(t, s.Next(ctx), ErrInvalidBilling)
	assert.Equal(t, StepBilling, s.Step())
	errs := s.FieldErrors()
	assert.Len(t, errs, 5)

	require.NoError(t, s.SetField(FieldName, "Jane"))
	errs = s.FieldErrors()
	assert.NotContains(t, errs, FieldName)
	assert.Contains(t, errs, FieldEmail, "other errors stay until the next Next")

	fillBilling(t, s)
	require.NoError(t, s.Next(ctx))
	assert.Equal(t, StepPayment, s.Step())
	assert.Empty(t, s.FieldErrors())
}

func TestStepper_BackKeepsForm(t *testing.T) {
	s := newStepper(t, &fakeCartAPI{summary: summaryWith("100.00")}, &fakeOrderAPI{})
	ctx := context.Background()

	require.ErrorIs(t, s.Back(), ErrCannotGoBack)

	require.NoError(t, s.Next(ctx))
	fillBilling(t, s)
	require.NoError(t, s.Next(ctx))
	require.NoError(t, s.Back())
	assert.Equal(t, StepBilling, s.Step())
	assert.Equal(t, "Jane Doe", s.Billing().Name)
	require.NoError(t, s.Back())
	assert.Equal(t, StepReview, s.Step())
}

func TestStepper_SelectPayment(t *testing.T) {
	s := newStepper(t, &fakeCartAPI{}, &fakeOrderAPI{})
	assert.Equal(t, PaymentStripe, s.Payment())

	require.NoError(t, s.SelectPayment(PaymentRazorpay))
	assert.Equal(t, PaymentRazorpay, s.Payment())

	require.ErrorIs(t, s.SelectPayment(PaymentPayPal), ErrPaymentDisabled)
	require.ErrorIs(t, s.SelectPayment("bitcoin"), ErrUnknownPayment)
	assert.Equal(t, PaymentRazorpay, s.Payment())
}

func TestStepper_UnknownField(t *testing.T) {
	s := newStepper(t, &fakeCartAPI{}, &fakeOrderAPI{})
	require.ErrorIs(t, s.SetField("phone", "1"), ErrUnknownField)
}

func TestStepper_SubmitAndConfirm(t *testing.T) {
	orders := &fakeOrderAPI{}
	s := newStepper(t, &fakeCartAPI{summary: summaryWith("100.00")}, orders)
	ctx := context.Background()

	require.NoError(t, s.Next(ctx))
	fillBilling(t, s)
	require.NoError(t, s.Next(ctx))
	s.SetNotes("thanks")
	require.NoError(t, s.Next(ctx))

	assert.Equal(t, StepConfirmation, s.Step())
	o, ok := s.Order()
	require.True(t, ok)
	assert.Equal(t, "ORD-20260101-ABCDEF12", o.OrderNumber)
	assert.Equal(t, "thanks", orders.created[0].CustomerNotes)

	require.ErrorIs(t, s.Next(ctx), ErrTerminal)
	require.ErrorIs(t, s.Back(), ErrCannotGoBack)
}

func TestStepper_SubmitFailureStaysOnPayment(t *testing.T) {
	orders := &fakeOrderAPI{processFn: func(string) (o order.Order, err error) { return o, errBoom }}
	s := newStepper(t, &fakeCartAPI{summary: summaryWith("100.00")}, orders)
	ctx := context.Background()

	require.NoError(t, s.Next(ctx))
	fillBilling(t, s)
	require.NoError(t, s.Next(ctx))
	require.Error(t, s.Next(ctx))

	assert.Equal(t, StepPayment, s.Step())
	assert.Equal(t, MsgProcessFailed, s.Error())
	_, ok := s.Order()
	assert.False(t, ok)
}

func TestStepper_EditAfterFailedSubmitIsUsed(t *testing.T) {
	fail := true
	orders := &fakeOrderAPI{processFn: func(id string) (order.Order, error) {
		if fail {
			return order.Order{}, errBoom
		}
		return order.Order{ID: id, Status: order.StatusProcessed}, nil
	}}
	s := newStepper(t, &fakeCartAPI{summary: summaryWith("100.00")}, orders)
	ctx := context.Background()

	require.NoError(t, s.Next(ctx))
	fillBilling(t, s)
	require.NoError(t, s.Next(ctx))
	require.Error(t, s.Next(ctx))

	require.NoError(t, s.Back())
	require.NoError(t, s.SetField(FieldEmail, "corrected@y.com"))
	require.NoError(t, s.Next(ctx))
	fail = false
	require.NoError(t, s.Next(ctx))

	assert.Equal(t, StepConfirmation, s.Step())
	require.Len(t, orders.created, 2)
	assert.Equal(t, "corrected@y.com", orders.created[1].BillingEmail)
	o, ok := s.Order()
	require.True(t, ok)
	assert.Equal(t, "o-2", o.ID)
}

func TestStepper_AccessorsDuringSubmit(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	orders := &fakeOrderAPI{createFn: func(in order.CreateInput) (order.Order, error) {
		close(entered)
		<-release
		return order.Order{ID: "o-1", Status: order.StatusCreated}, nil
	}}
	s := newStepper(t, &fakeCartAPI{summary: summaryWith("100.00")}, orders)
	ctx := context.Background()

	require.NoError(t, s.Next(ctx))
	fillBilling(t, s)
	require.NoError(t, s.Next(ctx))

	done := make(chan error, 1)
	go func() { done <- s.Next(ctx) }()
	<-entered

	assert.Equal(t, StepPayment, s.Step())
	assert.Empty(t, s.Error())
	assert.Empty(t, s.FieldErrors())
	assert.ErrorIs(t, s.Next(ctx), ErrSubmitting)
	assert.ErrorIs(t, s.Back(), ErrSubmitting)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, StepConfirmation, s.Step())
}
