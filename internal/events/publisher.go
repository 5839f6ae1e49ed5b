package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/middleware"
	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/order"
)

type amqpChannel interface {
	exchangeDeclarer
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher emits order lifecycle events on the events exchange. Each
// order is its own partition with a gapless sequence.
type Publisher struct {
	ch       amqpChannel
	seqRepo  SequenceRepository
	producer string
	now      func() time.Time
}

var _ order.Publisher = (*Publisher)(nil)

func NewPublisher(conn *amqp.Connection, seqRepo SequenceRepository) (*Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}
	return newPublisher(ch, seqRepo)
}

func newPublisher(ch amqpChannel, seqRepo SequenceRepository) (*Publisher, error) {
	if err := declareEventsExchange(ch); err != nil {
		return nil, fmt.Errorf("declare events exchange: %w", err)
	}
	return &Publisher{ch: ch, seqRepo: seqRepo, producer: ServiceName, now: time.Now}, nil
}

func (p *Publisher) Close() error {
	return p.ch.Close()
}

func (p *Publisher) PublishOrderCreated(ctx context.Context, o order.Order) error {
	return p.publishOrder(ctx, EventOrderCreated, OrderCreatedRoutingKey, o)
}

func (p *Publisher) PublishOrderProcessed(ctx context.Context, o order.Order) error {
	return p.publishOrder(ctx, EventOrderProcessed, OrderProcessedRoutingKey, o)
}

func (p *Publisher) PublishOrderConfirmed(ctx context.Context, o order.Order) error {
	return p.publishOrder(ctx, EventOrderConfirmed, OrderConfirmedRoutingKey, o)
}

func (p *Publisher) publishOrder(ctx context.Context, name, routingKey string, o order.Order) error {
	seq, err := p.seqRepo.NextSequence(ctx, o.ID)
	if err != nil {
		return fmt.Errorf("reserve sequence: %w", err)
	}

	at := p.now().UTC()
	env := EventEnvelope[OrderPayload]{
		EventName:     name,
		EventVersion:  envelopeVersion,
		EventID:       uuid.NewString(),
		CorrelationID: middleware.GetCorrelationID(ctx),
		CausationID:   causationID(ctx),
		Producer:      p.producer,
		PartitionKey:  o.ID,
		Sequence:      &seq,
		OccurredAt:    at,
		Schema:        schemaFor(routingKey),
		Payload:       newOrderPayload(o, at),
	}
	if env.CorrelationID == "" {
		env.CorrelationID = uuid.NewString()
	}

	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal %s envelope: %w", name, err)
	}
	return p.publishJSON(ctx, routingKey, env.EventID, body)
}

func (p *Publisher) publishJSON(ctx context.Context, routingKey, messageID string, body []byte) error {
	pubCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return p.ch.PublishWithContext(
		pubCtx,
		EventsExchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    messageID,
			Timestamp:    p.now().UTC(),
			Body:         body,
		},
	)
}

// NoopPublisher drops events. It is used when RabbitMQ is disabled.
type NoopPublisher struct{}

func (NoopPublisher) PublishOrderCreated(context.Context, order.Order) error   { return nil }
func (NoopPublisher) PublishOrderProcessed(context.Context, order.Order) error { return nil }
func (NoopPublisher) PublishOrderConfirmed(context.Context, order.Order) error { return nil }
