package checkout

import (
	"strings"

	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/validation"
)

const DefaultCountry = "India"

// Billing is the draft billing form. It lives on the client only; the
// server receives name, email and the joined address.
type Billing struct {
	Name    string `json:"name" validate:"notblank"`
	Email   string `json:"email" validate:"notblank,checkout_email"`
	Address string `json:"address" validate:"notblank"`
	City    string `json:"city" validate:"notblank"`
	State   string `json:"state"`
	Zip     string `json:"zip" validate:"notblank"`
	Country string `json:"country"`
}

const (
	FieldName    = "name"
	FieldEmail   = "email"
	FieldAddress = "address"
	FieldCity    = "city"
	FieldState   = "state"
	FieldZip     = "zip"
	FieldCountry = "country"
)

func NewBilling() Billing {
	return Billing{Country: DefaultCountry}
}

// Validate returns the per-field messages, empty when the form is valid.
func (b Billing) Validate() map[string]string {
	err := validation.Struct(b)
	if err == nil {
		return map[string]string{}
	}
	if fields := validation.Fields(err); fields != nil {
		return fields
	}
	return map[string]string{"": err.Error()}
}

// FullAddress renders "address, city, state zip, country" skipping blanks.
func (b Billing) FullAddress() string {
	country := strings.TrimSpace(b.Country)
	if country == "" {
		country = DefaultCountry
	}
	stateZip := strings.TrimSpace(strings.TrimSpace(b.State) + " " + strings.TrimSpace(b.Zip))

	parts := make([]string, 0, 4)
	for _, p := range []string{strings.TrimSpace(b.Address), strings.TrimSpace(b.City), stateZip, country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// set stores value under a form field name. It reports false for an
// unknown field.
func (b *Billing) set(field, value string) bool {
	switch field {
	case FieldName:
		b.Name = value
	case FieldEmail:
		b.Email = value
	case FieldAddress:
		b.Address = value
	case FieldCity:
		b.City = value
	case FieldState:
		b.State = value
	case FieldZip:
		b.Zip = value
	case FieldCountry:
		b.Country = value
	default:
		return false
	}
	return true
}
