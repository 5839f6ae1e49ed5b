// Package notify sends order confirmations to buyers.
package notify

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/order"
)

const appName = "Checkout"

type message struct {
	Subject string
	Text    string
	HTML    string
}

func confirmation(o order.Order) message {
	var lines strings.Builder
	for _, it := range o.Items {
		fmt.Fprintf(&lines, "- %s x%d: %s %s\n", it.Title, it.Quantity, it.Total.StringFixed(2), o.Currency)
	}

	text := fmt.Sprintf("Hi %s,\n\nThanks for your order %s. Your enrollments are ready.\n\n%s\nTotal: %s %s\n",
		o.BillingName, o.OrderNumber, lines.String(), o.Total.StringFixed(2), o.Currency)

	var rows strings.Builder
	for _, it := range o.Items {
		fmt.Fprintf(&rows, "<li>%s &times; %d: %s %s</li>", escape(it.Title), it.Quantity, it.Total.StringFixed(2), o.Currency)
	}
	html := fmt.Sprintf("<p>Hi %s,</p><p>Thanks for your order <strong>%s</strong>. Your enrollments are ready.</p><ul>%s</ul><p>Total: %s %s</p>",
		escape(o.BillingName), o.OrderNumber, rows.String(), o.Total.StringFixed(2), o.Currency)

	return message{
		Subject: "Order " + o.OrderNumber + " confirmed",
		Text:    text,
		HTML:    html,
	}
}

var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&#34;", "'", "&#39;")

func escape(s string) string { return htmlEscaper.Replace(s) }

// LogNotifier writes confirmations to the log. It is used when no
// SendGrid key is configured.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.Named("notify")}
}

func (n *LogNotifier) SendConfirmation(ctx context.Context, o order.Order) error {
	msg := confirmation(o)
	n.logger.Info("order confirmation",
		zap.String("to", o.BillingEmail),
		zap.String("subject", msg.Subject),
		zap.String("body", msg.Text),
	)
	return nil
}
