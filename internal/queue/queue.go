// Package queue carries domain events over RabbitMQ.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/therealutkarshpriyadarshi/parrotkit/internal/config"
	"github.com/therealutkarshpriyadarshi/parrotkit/pkg/models"
)

const (
	EventsQueueName = "recipe_events"
	ExchangeName    = "parrotkit"
)

// routingKeys are bound from the exchange to the events queue
var routingKeys = []string{models.EventRecipeAnalyzed, models.EventExportRequested}

// Queue provides message queue operations
type Queue struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

// New creates a new queue client and declares the topology
func New(cfg config.QueueConfig) (*Queue, error) {
	url := fmt.Sprintf("amqp://%s:%s@%s:%d%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Vhost)

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	q := &Queue{conn: conn, channel: channel}
	if err := q.declare(); err != nil {
		q.Close()
		return nil, err
	}

	return q, nil
}

func (q *Queue) declare() error {
	err := q.channel.ExchangeDeclare(
		ExchangeName,
		"direct",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	if err := q.SetupDeadLetterQueue(); err != nil {
		return err
	}

	_, err = q.channel.QueueDeclare(
		EventsQueueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		amqp.Table{
			"x-dead-letter-exchange":    DeadLetterExchangeName,
			"x-dead-letter-routing-key": DeadLetterQueueName,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	for _, key := range routingKeys {
		if err := q.channel.QueueBind(EventsQueueName, key, ExchangeName, false, nil); err != nil {
			return fmt.Errorf("failed to bind queue to %s: %w", key, err)
		}
	}

	return nil
}

// Close closes the queue connection
func (q *Queue) Close() error {
	if q.channel != nil {
		q.channel.Close()
	}
	if q.conn != nil {
		return q.conn.Close()
	}
	return nil
}

// PublishEvent publishes event with its type as the routing key
func (q *Queue) PublishEvent(ctx context.Context, event *models.Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = q.channel.PublishWithContext(ctx,
		ExchangeName,
		event.Type,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			MessageId:    event.ID,
			Type:         event.Type,
			Body:         body,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}

// ConsumeEvents starts consuming events until ctx is done. A failed event is
// requeued once and dead-lettered on its second failure.
func (q *Queue) ConsumeEvents(ctx context.Context, prefetch int, handler func(context.Context, *models.Event) error) error {
	if prefetch <= 0 {
		prefetch = 1
	}
	err := q.channel.Qos(
		prefetch, // prefetch count
		0,        // prefetch size
		false,    // global
	)
	if err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	msgs, err := q.channel.Consume(
		EventsQueueName,
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				settle(msg, Decide(ctx, msg.Body, msg.Redelivered, handler))
			}
		}
	}()

	return nil
}

// Disposition is what happens to a delivery after handling
type Disposition int

const (
	Ack Disposition = iota
	Requeue
	DeadLetter
)

// Decide decodes body, runs handler and picks the disposition
func Decide(ctx context.Context, body []byte, redelivered bool, handler func(context.Context, *models.Event) error) Disposition {
	var event models.Event
	if err := json.Unmarshal(body, &event); err != nil || event.Type == "" {
		return DeadLetter
	}

	if err := handler(ctx, &event); err != nil {
		if redelivered {
			return DeadLetter
		}
		return Requeue
	}
	return Ack
}

func settle(msg amqp.Delivery, d Disposition) {
	switch d {
	case Ack:
		msg.Ack(false)
	case Requeue:
		msg.Nack(false, true)
	default:
		msg.Nack(false, false)
	}
}

// GetQueueDepth returns the number of messages in the queue
func (q *Queue) GetQueueDepth() (int, error) {
	info, err := q.channel.QueueInspect(EventsQueueName)
	if err != nil {
		return 0, fmt.Errorf("failed to inspect queue: %w", err)
	}

	return info.Messages, nil
}

// NoopPublisher drops events; used when the queue is disabled
type NoopPublisher struct{}

// PublishEvent implements the publisher interface
func (NoopPublisher) PublishEvent(ctx context.Context, event *models.Event) error { return nil }
