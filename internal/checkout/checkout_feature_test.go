package checkout

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/cucumber/godog"

	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/order"
)

type checkoutTestContext struct {
	carts   *fakeCartAPI
	orders  *fakeOrderAPI
	view    *CartView
	coupons *CouponApplier
	stepper *Stepper
	err     error
}

func (c *checkoutTestContext) reset() {
	c.carts = &fakeCartAPI{}
	c.orders = &fakeOrderAPI{}
	c.view = NewCartView(c.carts)
	c.coupons = NewCouponApplier(c.carts, c.view)
	c.stepper = NewStepper(c.view, NewSubmitter(c.orders))
	c.err = nil
}

func (c *checkoutTestContext) anEmptyCart() error {
	c.carts.summary = cart.Summary{}
	return nil
}

func (c *checkoutTestContext) aCartWithOneItemPriced(price string) error {
	c.carts.summary = summaryWith(price)
	return nil
}

func (c *checkoutTestContext) creatingAnOrderFailsWith(detail string) error {
	c.orders.createFn = func(order.CreateInput) (order.Order, error) {
		return order.Order{}, apiErr(http.StatusConflict, detail)
	}
	return nil
}

func (c *checkoutTestContext) iLoadTheCart() error {
	return c.view.Load(context.Background())
}

func (c *checkoutTestContext) noTotalsAreShown() error {
	if _, ok := c.view.Totals(); ok {
		return fmt.Errorf("expected no totals for an empty cart")
	}
	return nil
}

func (c *checkoutTestContext) startingCheckoutFailsWith(msg string) error {
	err := c.stepper.Next(context.Background())
	if err == nil {
		return fmt.Errorf("expected checkout to be refused")
	}
	if err.Error() != msg {
		return fmt.Errorf("expected %q, got %q", msg, err.Error())
	}
	return nil
}

func (c *checkoutTestContext) iStartCheckout() error {
	return c.stepper.Next(context.Background())
}

func (c *checkoutTestContext) iEnterBilling(name, email, address, city, zip string) error {
	for field, value := range map[string]string{
		FieldName: name, FieldEmail: email, FieldAddress: address, FieldCity: city, FieldZip: zip,
	} {
		if err := c.stepper.SetField(field, value); err != nil {
			return err
		}
	}
	return nil
}

func (c *checkoutTestContext) iContinueToPayment() error {
	c.err = c.stepper.Next(context.Background())
	return nil
}

func (c *checkoutTestContext) iChooseThePaymentMethod(method string) error {
	return c.stepper.SelectPayment(PaymentMethod(method))
}

func (c *checkoutTestContext) iPlaceTheOrder() error {
	c.err = c.stepper.Next(context.Background())
	return nil
}

func (c *checkoutTestContext) iAmOnTheStep(step string) error {
	if got := c.stepper.Step().String(); got != step {
		return fmt.Errorf("expected step %q, got %q", step, got)
	}
	return nil
}

func (c *checkoutTestContext) theConfirmationShowsOrder(number string) error {
	o, ok := c.stepper.Order()
	if !ok {
		return fmt.Errorf("no order on confirmation (last error: %v)", c.err)
	}
	if o.OrderNumber != number {
		return fmt.Errorf("expected order %q, got %q", number, o.OrderNumber)
	}
	return nil
}

func (c *checkoutTestContext) theOrderWasCreatedWithBillingAddress(address string) error {
	if len(c.orders.created) != 1 {
		return fmt.Errorf("expected one create call, got %d", len(c.orders.created))
	}
	if got := c.orders.created[0].BillingAddress; got != address {
		return fmt.Errorf("expected billing address %q, got %q", address, got)
	}
	return nil
}

func (c *checkoutTestContext) theOrderWasProcessedTimes(n int) error {
	if len(c.orders.processed) != n {
		return fmt.Errorf("expected %d process calls, got %d", n, len(c.orders.processed))
	}
	return nil
}

func (c *checkoutTestContext) iSeeTheError(msg string) error {
	if got := c.stepper.Error(); got != msg {
		return fmt.Errorf("expected error %q, got %q", msg, got)
	}
	return nil
}

func (c *checkoutTestContext) theFieldShows(field, msg string) error {
	if got := c.stepper.FieldErrors()[field]; got != msg {
		return fmt.Errorf("expected %s error %q, got %q", field, msg, got)
	}
	return nil
}

func (c *checkoutTestContext) iApplyTheCoupon(code string) error {
	c.err = c.coupons.Apply(context.Background(), code)
	return nil
}

func (c *checkoutTestContext) theCouponErrorIs(msg string) error {
	if got := c.coupons.Error(); got != msg {
		return fmt.Errorf("expected coupon error %q, got %q", msg, got)
	}
	return nil
}

func (c *checkoutTestContext) noCouponRequestWasSent() error {
	if _, applies := c.carts.calls(); applies != 0 {
		return fmt.Errorf("expected no coupon request, got %d", applies)
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &checkoutTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	ctx.Step(`^an empty cart$`, tc.anEmptyCart)
	ctx.Step(`^a cart with one item priced "([^"]*)"$`, tc.aCartWithOneItemPriced)
	ctx.Step(`^creating an order fails with "([^"]*)"$`, tc.creatingAnOrderFailsWith)
	ctx.Step(`^I load the cart$`, tc.iLoadTheCart)
	ctx.Step(`^no totals are shown$`, tc.noTotalsAreShown)
	ctx.Step(`^starting checkout fails with "([^"]*)"$`, tc.startingCheckoutFailsWith)
	ctx.Step(`^I start checkout$`, tc.iStartCheckout)
	ctx.Step(`^I enter billing name "([^"]*)", email "([^"]*)", address "([^"]*)", city "([^"]*)", zip "([^"]*)"$`, tc.iEnterBilling)
	ctx.Step(`^I continue to payment$`, tc.iContinueToPayment)
	ctx.Step(`^I choose the "([^"]*)" payment method$`, tc.iChooseThePaymentMethod)
	ctx.Step(`^I place the order$`, tc.iPlaceTheOrder)
	ctx.Step(`^I am on the "([^"]*)" step$`, tc.iAmOnTheStep)
	ctx.Step(`^the confirmation shows order "([^"]*)"$`, tc.theConfirmationShowsOrder)
	ctx.Step(`^the order was created with billing address "([^"]*)"$`, tc.theOrderWasCreatedWithBillingAddress)
	ctx.Step(`^the order was processed (\d+) times?$`, tc.theOrderWasProcessedTimes)
	ctx.Step(`^I see the error "([^"]*)"$`, tc.iSeeTheError)
	ctx.Step(`^the "([^"]*)" field shows "([^"]*)"$`, tc.theFieldShows)
	ctx.Step(`^I apply the coupon "([^"]*)"$`, tc.iApplyTheCoupon)
	ctx.Step(`^the coupon error is "([^"]*)"$`, tc.theCouponErrorIs)
	ctx.Step(`^no coupon request was sent$`, tc.noCouponRequestWasSent)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
		},
	}
	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
