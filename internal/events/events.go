package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/apache/pulsar-client-go/pulsar"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Change feed actions.
const (
	ActionInsert = "insert"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// ChangeEvent describes a committed row change.
type ChangeEvent struct {
	Table    string     `json:"table"`
	Action   string     `json:"action"`
	RecordID uuid.UUID  `json:"record_id"`
	UserID   *uuid.UUID `json:"user_id,omitempty"`
	// EntityID is set for rows that hang off another entity, e.g. notifications.
	EntityID *uuid.UUID `json:"entity_id,omitempty"`
	// Status is the row status after the change, when the table has one.
	Status    string    `json:"status,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Notifier publishes change events.
type Notifier interface {
	Notify(ctx context.Context, event ChangeEvent) error
	Close()
}

type EventPublisher struct {
	client   pulsar.Client
	producer pulsar.Producer
}

// NewEventPublisher initializes the Pulsar client and producer
func NewEventPublisher(pulsarURL, topic string) (*EventPublisher, error) {
	client, err := pulsar.NewClient(pulsar.ClientOptions{
		URL: pulsarURL,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create Pulsar client: %w", err)
	}

	producer, err := client.CreateProducer(pulsar.ProducerOptions{
		Topic: topic,
	})
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("could not create Pulsar producer: %w", err)
	}

	log.Info().Str("topic", topic).Msg("Pulsar client and producer initialized successfully")
	return &EventPublisher{client: client, producer: producer}, nil
}

// Notify publishes a change event keyed by table so events of one table stay ordered.
func (p *EventPublisher) Notify(ctx context.Context, event ChangeEvent) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	message, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("could not serialize change event: %w", err)
	}

	_, err = p.producer.Send(ctx, &pulsar.ProducerMessage{
		Key:       event.Table,
		Payload:   message,
		EventTime: event.Timestamp,
	})
	if err != nil {
		return fmt.Errorf("could not send event to Pulsar: %w", err)
	}

	log.Debug().Str("table", event.Table).Str("action", event.Action).
		Str("record_id", event.RecordID.String()).Msg("change event sent")
	return nil
}

// Close closes the Pulsar client and producer
func (p *EventPublisher) Close() {
	p.producer.Close()
	p.client.Close()
	log.Info().Msg("Pulsar client and producer closed successfully")
}

// NopNotifier drops every event. It is used when no change feed is configured.
type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, ChangeEvent) error { return nil }
func (NopNotifier) Close()                                    {}
