package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/apache/pulsar-client-go/pulsar"
	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
)

// Handler processes one decoded change event.
type Handler func(ctx context.Context, event ChangeEvent) error

// Message is the subset of a received message the dispatch loop needs.
type Message interface {
	Payload() []byte
}

// Receiver is implemented by EventConsumer.
type Receiver interface {
	ReceiveMessage(ctx context.Context) (pulsar.Message, error)
	Ack(msg pulsar.Message)
	Nack(msg pulsar.Message)
}

type EventConsumer struct {
	client   pulsar.Client
	consumer pulsar.Consumer
}

// NewEventConsumer initializes the Pulsar client and consumer.
func NewEventConsumer(pulsarURL, topic, subscription string) (*EventConsumer, error) {
	client, err := pulsar.NewClient(pulsar.ClientOptions{URL: pulsarURL})
	if err != nil {
		return nil, fmt.Errorf("could not create Pulsar client: %w", err)
	}

	consumer, err := client.Subscribe(pulsar.ConsumerOptions{
		Topic:            topic,
		SubscriptionName: subscription,
		Type:             pulsar.Shared,
		DLQ: &pulsar.DLQPolicy{
			MaxDeliveries:   3,
			DeadLetterTopic: topic + "-dlq",
		},
	})
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("could not create Pulsar consumer: %w", err)
	}

	return &EventConsumer{client: client, consumer: consumer}, nil
}

// ReceiveMessage retrieves a message from Pulsar.
func (c *EventConsumer) ReceiveMessage(ctx context.Context) (pulsar.Message, error) {
	msg, err := c.consumer.Receive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to receive message: %w", err)
	}
	return msg, nil
}

// Ack acknowledges a message.
func (c *EventConsumer) Ack(msg pulsar.Message) {
	c.consumer.Ack(msg)
}

// Nack negatively acknowledges a message.
func (c *EventConsumer) Nack(msg pulsar.Message) {
	c.consumer.Nack(msg)
}

// Close cleans up the Pulsar consumer and client.
func (c *EventConsumer) Close() {
	c.consumer.Close()
	c.client.Close()
}

// ErrMalformedEvent is returned by Decode for payloads that are not change events.
var ErrMalformedEvent = errors.New("malformed change event")

// Decode parses a message payload into a change event.
func Decode(msg Message) (ChangeEvent, error) {
	var event ChangeEvent
	if err := json.Unmarshal(msg.Payload(), &event); err != nil {
		return event, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	if event.Table == "" || event.Action == "" {
		return event, fmt.Errorf("%w: missing table or action", ErrMalformedEvent)
	}
	return event, nil
}

// receiveBackOff paces retries after failed receives so a broken connection does
// not spin the loop.
func receiveBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 100 * time.Millisecond
	b.MaxInterval = 10 * time.Second
	b.MaxElapsedTime = 0
	return b
}

// Consume receives messages until ctx is done. Malformed payloads are acked and
// dropped; handler failures are nacked so Pulsar redelivers them, up to the DLQ.
func Consume(ctx context.Context, r Receiver, handle Handler) error {
	return consume(ctx, r, handle, receiveBackOff())
}

func consume(ctx context.Context, r Receiver, handle Handler, pause backoff.BackOff) error {
	pause.Reset()
	for {
		msg, err := r.ReceiveMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			wait := pause.NextBackOff()
			if wait == backoff.Stop {
				return fmt.Errorf("error receiving message: %w", err)
			}
			log.Error().Err(err).Dur("retry_in", wait).Msg("Error receiving message")
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(wait):
			}
			continue
		}
		pause.Reset()

		if err := Dispatch(ctx, msg, handle); err != nil {
			if errors.Is(err, ErrMalformedEvent) {
				log.Warn().Err(err).Str("payload", string(msg.Payload())).Msg("dropping malformed change event")
				r.Ack(msg)
				continue
			}
			log.Error().Err(err).Msg("failed to handle change event")
			r.Nack(msg)
			continue
		}
		r.Ack(msg)
	}
}

// Dispatch decodes one message and runs the handler on it.
func Dispatch(ctx context.Context, msg Message, handle Handler) error {
	event, err := Decode(msg)
	if err != nil {
		return err
	}
	return handle(ctx, event)
}
