package service

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"files_manager/server/common/infra/mq"
	"files_manager/server/files/domain"
)

// ThumbnailPublisher sends thumbnail jobs to the shared work queue. Sends
// are fire-and-forget; the broker owns delivery and redelivery.
type ThumbnailPublisher struct {
	channel *amqp.Channel
	queue   string
}

func NewThumbnailPublisher(conn *amqp.Connection, queue string) (*ThumbnailPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}
	if _, err := mq.DeclareQueue(ch, queue); err != nil {
		_ = ch.Close()
		return nil, err
	}
	return &ThumbnailPublisher{channel: ch, queue: queue}, nil
}

func (p *ThumbnailPublisher) Enqueue(ctx context.Context, job domain.ThumbnailJob) error {
	body, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return p.channel.PublishWithContext(ctx, "", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         body,
	})
}

func (p *ThumbnailPublisher) Close() {
	if p.channel != nil {
		_ = p.channel.Close()
	}
}
