package events

import (
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	EventsExchange = "ecommerce.events"

	OrderCreatedRoutingKey   = "order.created.v1"
	OrderProcessedRoutingKey = "order.processed.v1"
	OrderConfirmedRoutingKey = "order.confirmed.v1"

	EventOrderCreated   = "OrderCreated"
	EventOrderProcessed = "OrderProcessed"
	EventOrderConfirmed = "OrderConfirmed"

	ServiceName = "checkout-service-go"
)

func serviceQueue(serviceName, routingKey string) string {
	return serviceName + "." + routingKey
}

// OrderProcessedQueue is the durable queue this service confirms orders from.
var OrderProcessedQueue = serviceQueue(ServiceName, OrderProcessedRoutingKey)

type exchangeDeclarer interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
}

func declareEventsExchange(ch exchangeDeclarer) error {
	return ch.ExchangeDeclare(
		EventsExchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
}

func MustDialRabbit(url string, logger *zap.Logger) *amqp.Connection {
	conn, err := amqp.Dial(url)
	if err != nil {
		logger.Fatal("connect to RabbitMQ", zap.Error(err))
	}
	return conn
}
