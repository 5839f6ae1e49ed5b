package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/checkout"
	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/order"
)

func printCart(w io.Writer, view *checkout.CartView) {
	if msg := view.Error(); msg != "" {
		fmt.Fprintf(w, "! %s\n", msg)
	}
	if view.IsEmpty() {
		fmt.Fprintln(w, "Your cart is empty.")
		return
	}

	sum, _ := view.Summary()
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tITEM\tQTY\tPRICE\tDISCOUNT\tTOTAL")
	for _, it := range sum.Items {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%s\n",
			it.ID, it.Title, it.Quantity, it.UnitPrice.StringFixed(2), it.DiscountAmount.StringFixed(2), it.Total.StringFixed(2))
	}
	_ = tw.Flush()

	if totals, ok := view.Totals(); ok {
		printTotals(w, sum, totals)
	}
}

func printTotals(w io.Writer, sum cart.Summary, t checkout.Totals) {
	fmt.Fprintf(w, "\nSubtotal:  %s %s\n", t.Subtotal.StringFixed(2), t.Currency)
	if sum.CouponCode != "" {
		fmt.Fprintf(w, "Coupon:    %s\n", sum.CouponCode)
	}
	if sum.CouponError != "" {
		fmt.Fprintf(w, "           (%s)\n", sum.CouponError)
	}
	fmt.Fprintf(w, "Discount: -%s %s\n", t.TotalDiscount.StringFixed(2), t.Currency)
	fmt.Fprintf(w, "Tax:       %s %s\n", t.TaxAmount.StringFixed(2), t.Currency)
	fmt.Fprintf(w, "Total:     %s %s\n", t.Total.StringFixed(2), t.Currency)
}

func printOrders(w io.Writer, orders []order.Order) {
	if len(orders) == 0 {
		fmt.Fprintln(w, "No orders yet.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NUMBER\tSTATUS\tTOTAL\tCREATED")
	for _, o := range orders {
		fmt.Fprintf(tw, "%s\t%s\t%s %s\t%s\n",
			o.OrderNumber, o.Status, o.Total.StringFixed(2), o.Currency, o.CreatedAt.Format("2006-01-02 15:04"))
	}
	_ = tw.Flush()
}

func printOrder(w io.Writer, o order.Order) {
	fmt.Fprintf(w, "Order %s (%s)\n", o.OrderNumber, o.Status)
	fmt.Fprintf(w, "Billed to: %s <%s>\n", o.BillingName, o.BillingEmail)
	fmt.Fprintf(w, "Address:   %s\n", o.BillingAddress)
	fmt.Fprintf(w, "Payment:   %s\n", o.PaymentMethod)
	if o.FailureReason != "" {
		fmt.Fprintf(w, "Failure:   %s\n", o.FailureReason)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "\nITEM\tQTY\tTOTAL")
	for _, it := range o.Items {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", it.Title, it.Quantity, it.Total.StringFixed(2))
	}
	_ = tw.Flush()

	fmt.Fprintf(w, "\nSubtotal:  %s\nDiscount: -%s\nTax:       %s\nTotal:     %s %s\n",
		o.Subtotal.StringFixed(2), o.DiscountAmount.StringFixed(2), o.TaxAmount.StringFixed(2),
		o.Total.StringFixed(2), o.Currency)
}
