package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/checkout"
)

type billingPrompt struct {
	field, label string
}

var billingPrompts = []billingPrompt{
	{checkout.FieldName, "Full name"},
	{checkout.FieldEmail, "Email"},
	{checkout.FieldAddress, "Street address"},
	{checkout.FieldCity, "City"},
	{checkout.FieldState, "State (optional)"},
	{checkout.FieldZip, "ZIP / PIN code"},
	{checkout.FieldCountry, "Country"},
}

func newCheckoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:               "checkout",
		Short:             "Walk through review, billing, payment and confirmation",
		PersistentPreRunE: a.connect,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			p := newPrompter(cmd.InOrStdin(), out)

			view := checkout.NewCartView(a.carts)
			if err := view.Load(ctx); err != nil && view.RedirectToCatalog() {
				return errors.Wrap(err, "load cart, browse the catalog and try again")
			}
			submitter := checkout.NewSubmitter(a.orders)
			s := checkout.NewStepper(view, submitter)

			fmt.Fprintln(out, "== Review ==")
			printCart(out, view)
			if err := s.Next(ctx); err != nil {
				return err
			}

			fmt.Fprintln(out, "\n== Billing ==")
			fields := billingPrompts
			for {
				current := s.Billing()
				for _, f := range fields {
					if err := s.SetField(f.field, p.Ask(f.label, billingValue(current, f.field))); err != nil {
						return err
					}
				}
				err := s.Next(ctx)
				if err == nil {
					break
				}
				if !errors.Is(err, checkout.ErrInvalidBilling) {
					return err
				}
				if p.closed {
					return errors.New("input closed before billing was complete")
				}
				fmt.Fprintln(out, err.Error())
				fields = invalidFields(out, s.FieldErrors())
			}

			fmt.Fprintln(out, "\n== Payment ==")
			for {
				for _, opt := range checkout.PaymentOptions {
					fmt.Fprintf(out, "  %-9s %s\n", opt.Method, opt.Label)
				}
				err := s.SelectPayment(checkout.PaymentMethod(p.Ask("Payment method", string(s.Payment()))))
				if err == nil {
					break
				}
				fmt.Fprintf(out, "! %v\n", err)
			}
			s.SetNotes(p.Ask("Order notes (optional)", ""))

			for {
				if !p.Confirm("Place order?") {
					if pending, ok := submitter.Pending(); ok {
						fmt.Fprintf(out, "Order %s was created but not processed. Run checkout again to retry.\n", pending.OrderNumber)
					}
					return errors.New("checkout cancelled")
				}
				err := s.Next(ctx)
				if err == nil {
					break
				}
				fmt.Fprintf(out, "! %s\n", s.Error())
				if pending, ok := submitter.Pending(); ok {
					fmt.Fprintf(out, "Order %s is saved; retrying will only process it.\n", pending.OrderNumber)
				}
			}

			placed, _ := s.Order()
			fmt.Fprintln(out, "\n== Confirmation ==")
			printOrder(out, placed)
			return nil
		},
	}
}

func billingValue(b checkout.Billing, field string) string {
	switch field {
	case checkout.FieldName:
		return b.Name
	case checkout.FieldEmail:
		return b.Email
	case checkout.FieldAddress:
		return b.Address
	case checkout.FieldCity:
		return b.City
	case checkout.FieldState:
		return b.State
	case checkout.FieldZip:
		return b.Zip
	case checkout.FieldCountry:
		return b.Country
	}
	return ""
}

// invalidFields prints the field errors and returns the prompts to ask again.
func invalidFields(w io.Writer, errs map[string]string) []billingPrompt {
	keys := make([]string, 0, len(errs))
	for k := range errs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "  %s: %s\n", k, errs[k])
	}

	var again []billingPrompt
	for _, f := range billingPrompts {
		if _, bad := errs[f.field]; bad {
			again = append(again, f)
		}
	}
	return again
}
