package checkout

import "github.com/pkg/errors"

type PaymentMethod string

const (
	PaymentStripe   PaymentMethod = "stripe"
	PaymentRazorpay PaymentMethod = "razorpay"
	PaymentPayPal   PaymentMethod = "paypal"

	DefaultPayment = PaymentStripe
)

var (
	ErrUnknownPayment  = errors.New("unknown payment method")
	ErrPaymentDisabled = errors.New("payment method is not available")
)

type PaymentOption struct {
	Method  PaymentMethod
	Label   string
	Enabled bool
}

// PaymentOptions lists the methods in display order.
var PaymentOptions = []PaymentOption{
	{Method: PaymentStripe, Label: "Credit / Debit Card (Stripe)", Enabled: true},
	{Method: PaymentRazorpay, Label: "Razorpay (UPI, Netbanking)", Enabled: true},
	{Method: PaymentPayPal, Label: "PayPal (coming soon)", Enabled: false},
}

func lookupPayment(m PaymentMethod) (PaymentOption, error) {
	for _, opt := range PaymentOptions {
		if opt.Method == m {
			if !opt.Enabled {
				return opt, errors.Wrap(ErrPaymentDisabled, string(m))
			}
			return opt, nil
		}
	}
	return PaymentOption{}, errors.Wrap(ErrUnknownPayment, string(m))
}
