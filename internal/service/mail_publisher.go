// Package service holds outbound integrations: the RabbitMQ mail
// publisher and the MailChannels delivery client.
package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/anime-dimension/api/internal/queue"
)

// MailQueuePublisher publishes MailRequestedEvents to the durable
// mail.requested queue. A fresh connection per publish keeps the
// publisher free of channel state; mail volume is a handful of signups
// a day, not a throughput concern.
type MailQueuePublisher struct {
	URL string
}

func NewMailQueuePublisher(url string) *MailQueuePublisher {
	return &MailQueuePublisher{URL: url}
}

// PublishMailRequested enqueues one mail event. Errors are logged and
// returned so callers can ignore them without losing the trace.
func (p *MailQueuePublisher) PublishMailRequested(ctx context.Context, event queue.MailRequestedEvent) error {
	conn, err := amqp.Dial(p.URL)
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	// Idempotent declare; durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare("mail.requested", true, false, false, false, nil); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("rabbitmq: marshal event failed: %v", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx, "", "mail.requested", false, false, pub); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}
	return nil
}
