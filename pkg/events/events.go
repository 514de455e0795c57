// Package events publishes purchase lifecycle events to RabbitMQ. Consumers
// (dashboards, a future reconciliation job) bind to the purchase exchange;
// the purchase.inconsistent key carries charged-but-unconfirmed orders.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	// PurchaseExchange is the topic exchange all purchase events go through.
	PurchaseExchange = "purchase_exchange"

	// Routing keys per terminal outcome.
	SucceededKey    = "purchase.succeeded"
	FailedKey       = "purchase.failed"
	InconsistentKey = "purchase.inconsistent"

	// AuditQueue receives every purchase event.
	AuditQueue = "purchase_audit_queue"
)

// Event is the message published after each terminal purchase outcome.
type Event struct {
	EventID   string `json:"event_id"`
	OrderID   string `json:"order_id,omitempty"`
	ItemName  string `json:"item_name"`
	Status    string `json:"status"`
	Message   string `json:"message,omitempty"`
	CreatedAt string `json:"created_at"`
}

// Publisher sends purchase events. Implementations must never block a
// purchase on delivery problems; callers treat publish errors as log-only.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, ev Event) error
	Close() error
}

// RabbitPublisher publishes to a durable topic exchange on RabbitMQ.
type RabbitPublisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

// NewRabbitPublisher dials RabbitMQ, retrying with backoff, then declares
// the purchase exchange and binds the audit queue to every purchase event.
func NewRabbitPublisher(url string) (*RabbitPublisher, error) {
	var conn *amqp.Connection
	var err error
	for i := 0; i < 5; i++ {
		conn, err = amqp.Dial(url)
		if err == nil {
			break
		}
		time.Sleep(time.Duration(i*i)*time.Second + time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq after retries: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := channel.ExchangeDeclare(PurchaseExchange, "topic", true, false, false, false, nil); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", PurchaseExchange, err)
	}

	q, err := channel.QueueDeclare(AuditQueue, true, false, false, false, nil)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("declare queue %s: %w", AuditQueue, err)
	}
	if err := channel.QueueBind(q.Name, "purchase.*", PurchaseExchange, false, nil); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("bind queue %s: %w", AuditQueue, err)
	}

	return &RabbitPublisher{conn: conn, channel: channel}, nil
}

// Publish sends one persistent JSON event under the given routing key. A
// missing EventID is filled in.
func (p *RabbitPublisher) Publish(ctx context.Context, routingKey string, ev Event) error {
	if ev.EventID == "" {
		ev.EventID = uuid.New().String()
	}
	if ev.CreatedAt == "" {
		ev.CreatedAt = time.Now().Format(time.RFC3339)
	}
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	err = p.channel.PublishWithContext(ctx, PurchaseExchange, routingKey, false, false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		})
	if err != nil {
		return fmt.Errorf("publish %s: %w", routingKey, err)
	}
	return nil
}

// Close closes the channel and connection.
func (p *RabbitPublisher) Close() error {
	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			return err
		}
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
