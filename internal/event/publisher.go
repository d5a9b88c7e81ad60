package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// LifecyclePublisher publishes lifecycle events to RabbitMQ. Publishing is
// best-effort: a broker failure is logged by the caller, never surfaced to
// the policyholder.
type LifecyclePublisher struct {
	conn              *RabbitMQConnection
	messagesPublished int64
	messagesFailed    int64
	lastPublishTime   time.Time
}

// NewLifecyclePublisher creates a new lifecycle event publisher.
func NewLifecyclePublisher(conn *RabbitMQConnection) *LifecyclePublisher {
	return &LifecyclePublisher{
		conn:            conn,
		lastPublishTime: time.Now(),
	}
}

// Publish sends one lifecycle event to the insurance_lifecycle_events queue.
// A fresh event id is assigned when the caller left it empty.
func (p *LifecyclePublisher) Publish(ctx context.Context, ev LifecycleEvent) error {
	if ev.EventID == "" {
		ev.EventID = uuid.NewString()
	}

	_, err := p.conn.Channel.QueueDeclare(
		LifecycleQueue, // queue name
		true,           // durable
		false,          // delete when unused
		false,          // exclusive
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		p.messagesFailed++
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	body, err := json.Marshal(ev)
	if err != nil {
		p.messagesFailed++
		return fmt.Errorf("failed to marshal lifecycle event: %w", err)
	}

	err = p.conn.Channel.PublishWithContext(
		ctx,
		"",             // exchange
		LifecycleQueue, // routing key (queue name)
		false,          // mandatory
		false,          // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Body:         body,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		p.messagesFailed++
		return fmt.Errorf("failed to publish lifecycle event: %w", err)
	}

	p.messagesPublished++
	p.lastPublishTime = time.Now()

	slog.Info("Lifecycle event published",
		"queue", LifecycleQueue,
		"kind", ev.Kind,
		"event_id", ev.EventID,
	)

	return nil
}
