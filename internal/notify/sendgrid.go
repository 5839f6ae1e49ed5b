package notify

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/order"
)

const (
	DefaultHost = "https://api.sendgrid.com"
	endpoint    = "/v3/mail/send"
)

type SendGridNotifier struct {
	key        string
	host       string
	from       *sgmail.Email
	subjPrefix string
	logger     *zap.Logger
}

func NewSendGridNotifier(key, host, fromEmail string, logger *zap.Logger) *SendGridNotifier {
	if host == "" {
		host = DefaultHost
	}
	return &SendGridNotifier{
		key:        key,
		host:       host,
		from:       sgmail.NewEmail(appName, fromEmail),
		subjPrefix: "[" + appName + "] ",
		logger:     logger.Named("notify"),
	}
}

func (n *SendGridNotifier) prepare(o order.Order) *sgmail.SGMailV3 {
	msg := confirmation(o)

	p := sgmail.NewPersonalization()
	p.Subject = n.subjPrefix + msg.Subject
	p.AddTos(sgmail.NewEmail(o.BillingName, o.BillingEmail))

	m := sgmail.NewV3Mail()
	m.SetFrom(n.from)
	m.AddPersonalizations(p)
	m.AddContent(
		sgmail.NewContent("text/plain", msg.Text),
		sgmail.NewContent("text/html", msg.HTML),
	)
	return m
}

// SendConfirmation returns an error for transport failures and for any
// 4xx or 5xx answer. A 4xx other than 408 or 429 wraps
// order.ErrUndeliverable since resending the same request cannot succeed.
func (n *SendGridNotifier) SendConfirmation(ctx context.Context, o order.Order) error {
	req := sendgrid.GetRequest(n.key, endpoint, n.host)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(n.prepare(o))

	res, err := sendgrid.MakeRequestWithContext(ctx, req)
	if err != nil {
		return errors.Wrap(err, "sendgrid request")
	}
	if res.StatusCode >= http.StatusBadRequest {
		n.logger.Error("sendgrid rejected email",
			zap.String("order_id", o.ID),
			zap.Int("status", res.StatusCode),
			zap.String("body", res.Body),
		)
		if permanent(res.StatusCode) {
			return errors.Wrapf(order.ErrUndeliverable, "sendgrid status %d", res.StatusCode)
		}
		return errors.Errorf("sendgrid status %d", res.StatusCode)
	}

	n.logger.Info("confirmation sent", zap.String("order_id", o.ID), zap.String("to", o.BillingEmail))
	return nil
}

func permanent(status int) bool {
	switch status {
	case http.StatusRequestTimeout, http.StatusTooManyRequests:
		return false
	}
	return status >= http.StatusBadRequest && status < http.StatusInternalServerError
}
