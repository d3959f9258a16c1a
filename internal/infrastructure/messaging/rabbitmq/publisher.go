// internal/infrastructure/messaging/rabbitmq/publisher.go
package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	amqp "github.com/streadway/amqp"
	"github.com/your-org/fireplay-backend/internal/domain/order"
)

// EventOrderPlaced is the type of the event sent after a checkout
const EventOrderPlaced = "order.placed"

// Channel is the subset of *amqp.Channel the publisher uses
type Channel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// OrderPlacedEvent is the message body published for a placed order
type OrderPlacedEvent struct {
	Type       string    `json:"type"`
	OrderID    string    `json:"order_id"`
	UserID     string    `json:"user_id"`
	ItemIDs    []int     `json:"item_ids"`
	Total      int       `json:"total"`
	PlacedAt   time.Time `json:"placed_at"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewOrderPlacedEvent builds the event for an order
func NewOrderPlacedEvent(o *order.Order, now time.Time) OrderPlacedEvent {
	return OrderPlacedEvent{
		Type:       EventOrderPlaced,
		OrderID:    o.ID,
		UserID:     o.UserID,
		ItemIDs:    o.ItemIDs(),
		Total:      o.Total,
		PlacedAt:   o.Date,
		OccurredAt: now.UTC(),
	}
}

// Publisher sends order events to a durable queue
type Publisher struct {
	conn  *amqp.Connection
	queue string
	log   logrus.FieldLogger

	// amqp channels are not safe for concurrent publishing
	mu      sync.Mutex
	channel Channel
}

// Dial connects to RabbitMQ and declares the order queue
func Dial(url, queue string, log logrus.FieldLogger) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	_, err = ch.QueueDeclare(
		queue, // name
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare %s: %w", queue, err)
	}

	log.WithField("queue", queue).Info("RabbitMQ publisher connected")

	p := NewPublisher(ch, queue, log)
	p.conn = conn
	return p, nil
}

// NewPublisher wraps an open channel
func NewPublisher(ch Channel, queue string, log logrus.FieldLogger) *Publisher {
	return &Publisher{channel: ch, queue: queue, log: log}
}

// PublishOrderPlaced publishes an order.placed event to the order queue
func (p *Publisher) PublishOrderPlaced(ctx context.Context, o *order.Order) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	now := time.Now()
	body, err := json.Marshal(NewOrderPlacedEvent(o, now))
	if err != nil {
		return fmt.Errorf("failed to marshal order event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel == nil {
		return errors.New("RabbitMQ channel is not available")
	}

	err = p.channel.Publish(
		"",      // default exchange
		p.queue, // routing key: the queue name
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Type:         EventOrderPlaced,
			MessageId:    o.ID,
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    now,
		})
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	p.log.WithFields(logrus.Fields{
		"order_id": o.ID,
		"queue":    p.queue,
	}).Debug("Sent order event")
	return nil
}

// Close closes the channel and connection
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var errs []error
	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
		p.channel = nil
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
		p.conn = nil
	}
	return errors.Join(errs...)
}
