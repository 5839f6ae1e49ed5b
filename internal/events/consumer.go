package events

import (
	"context"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Consumer delivers messages from one queue to a HandlerFunc.
type Consumer struct {
	ch      *amqp.Channel
	queue   string
	handler HandlerFunc
	logger  *zap.Logger
	done    chan struct{}
}

// StartOrderProcessedConsumer binds the service queue to order.processed
// events and starts dispatching them in the background until ctx ends.
func StartOrderProcessedConsumer(ctx context.Context, conn *amqp.Connection, handler HandlerFunc, logger *zap.Logger) (*Consumer, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := declareEventsExchange(ch); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("declare events exchange: %w", err)
	}

	q, err := ch.QueueDeclare(OrderProcessedQueue, true, false, false, false, nil)
	if err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("queue declare: %w", err)
	}
	if err := ch.QueueBind(q.Name, OrderProcessedRoutingKey, EventsExchange, false, nil); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("queue bind: %w", err)
	}
	if err := ch.Qos(10, 0, false); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("qos: %w", err)
	}

	msgs, err := ch.Consume(q.Name, ServiceName, false, false, false, false, nil)
	if err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("consume: %w", err)
	}

	c := &Consumer{
		ch:      ch,
		queue:   q.Name,
		handler: handler,
		logger:  logger.Named("consumer").With(zap.String("queue", q.Name)),
		done:    make(chan struct{}),
	}
	go func() {
		defer close(c.done)
		c.run(ctx, msgs)
	}()
	return c, nil
}

// Close stops consuming and waits for the in-flight message.
func (c *Consumer) Close() error {
	err := c.ch.Close()
	<-c.done
	return err
}

func (c *Consumer) run(ctx context.Context, msgs <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			c.logger.Info("stopping consumer")
			return
		case msg, ok := <-msgs:
			if !ok {
				c.logger.Info("messages channel closed")
				return
			}
			c.dispatch(ctx, msg)
		}
	}
}

func (c *Consumer) dispatch(ctx context.Context, msg amqp.Delivery) {
	err := c.handler(ctx, msg.Body)
	switch {
	case err == nil:
		_ = msg.Ack(false)
	case errors.Is(err, ErrMalformed):
		c.logger.Error("drop malformed message", zap.String("message_id", msg.MessageId), zap.Error(err))
		_ = msg.Nack(false, false)
	default:
		c.logger.Warn("handle message, requeueing", zap.String("message_id", msg.MessageId), zap.Error(err))
		_ = msg.Nack(false, true)
	}
}
