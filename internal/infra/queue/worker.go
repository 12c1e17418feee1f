package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
)

// CouponDispatcher sends the coupon described by a queued request.
type CouponDispatcher interface {
	HandleQueued(ctx context.Context, payload CouponRequestPayload) error
}

// Consumer is the subset of *amqp.Channel the worker needs.
type Consumer interface {
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

type Worker struct {
	Channel    Consumer
	Dispatcher CouponDispatcher
}

func NewWorker(ch Consumer, dispatcher CouponDispatcher) *Worker {
	return &Worker{Channel: ch, Dispatcher: dispatcher}
}

// Start consumes queueName until ctx is cancelled or the channel closes.
// Every message gets exactly one attempt: failures are dead-lettered.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.Consume(
		queueName,
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("falha ao registrar consumidor RabbitMQ: %w", err)
	}

	log.Info().Str("queue", queueName).Msg("📥 coupon worker waiting for messages")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("coupon worker stopped")
			return nil
		case d, ok := <-msgs:
			if !ok {
				log.Warn().Msg("⚠️ coupon worker channel closed")
				return nil
			}
			if err := w.Process(ctx, d.Body); err != nil {
				log.Error().Err(err).Str("message_id", d.MessageId).Msg("❌ coupon request rejected")
				d.Nack(false, false)
				continue
			}
			d.Ack(false)
		}
	}
}

func (w *Worker) Process(ctx context.Context, body []byte) error {
	var payload CouponRequestPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return fmt.Errorf("invalid coupon request: %w", err)
	}

	log.Debug().Str("lead_id", payload.LeadID).Str("offer_code", payload.OfferCode).Msg("processing coupon request")

	return w.Dispatcher.HandleQueued(ctx, payload)
}
