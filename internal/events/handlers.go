package events

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/middleware"
	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/order"
)

// HandlerFunc handles one message body. A nil error acks the message.
// An ErrMalformed error drops it and any other error requeues it.
type HandlerFunc func(ctx context.Context, body []byte) error

var ErrMalformed = errors.New("malformed message")

type ctxKey string

const ctxCausationID ctxKey = "causation_id"

func withCausationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxCausationID, id)
}

func causationID(ctx context.Context) string {
	if s, ok := ctx.Value(ctxCausationID).(string); ok {
		return s
	}
	return ""
}

type OrderConfirmer interface {
	Confirm(ctx context.Context, orderID string) error
}

const confirmConsumer = "order-confirmer"

// OrderProcessedHandler confirms processed orders. Orders that are gone,
// not in the processed state, or whose confirmation cannot be delivered are
// logged and acked. A nil dedup
// disables the sequence check.
func OrderProcessedHandler(confirmer OrderConfirmer, dedup DedupRepository, logger *zap.Logger) HandlerFunc {
	return func(ctx context.Context, body []byte) error {
		env, err := decodeEnvelope[OrderPayload](body, EventOrderProcessed)
		if err != nil {
			return err
		}
		orderID := env.Payload.OrderID
		if orderID == "" {
			orderID = env.PartitionKey
		}

		seen, err := alreadyHandled(ctx, dedup, confirmConsumer, env.PartitionKey, env.Sequence)
		if err != nil {
			return fmt.Errorf("dedup lookup: %w", err)
		}
		if seen {
			logger.Info("duplicate order processed event",
				zap.String("order_id", orderID),
				zap.String("event_id", env.EventID),
				zap.Int64("sequence", *env.Sequence),
			)
			return nil
		}

		ctx = middleware.WithCorrelationID(ctx, env.CorrelationID)
		ctx = withCausationID(ctx, env.EventID)

		err = confirmer.Confirm(ctx, orderID)
		switch {
		case err == nil:
			logger.Info("order confirmed from event",
				zap.String("order_id", orderID),
				zap.String("event_id", env.EventID),
				zap.String("correlation_id", env.CorrelationID),
			)
		case errors.Is(err, order.ErrOrderNotFound), errors.Is(err, order.ErrInvalidTransition):
			logger.Warn("skip order processed event",
				zap.String("order_id", orderID),
				zap.String("event_id", env.EventID),
				zap.Error(err),
			)
		case errors.Is(err, order.ErrUndeliverable):
			// The order stays processed; redelivery would fail the same way.
			logger.Error("order confirmation undeliverable",
				zap.String("order_id", orderID),
				zap.String("event_id", env.EventID),
				zap.Error(err),
			)
		default:
			return fmt.Errorf("confirm order %s: %w", orderID, err)
		}
		return checkpoint(ctx, dedup, confirmConsumer, env.PartitionKey, env.Sequence)
	}
}
