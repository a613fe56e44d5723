package infra

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	EventProfileCreated = "profile.created"
	EventProfileDeleted = "profile.deleted"
)

// ProfileEvent is the message body published on every profile lifecycle change.
type ProfileEvent struct {
	Type             string    `json:"type"`
	ProfileID        string    `json:"profileId"`
	Name             string    `json:"name,omitempty"`
	BasedOnProfileID *string   `json:"basedOnProfileId,omitempty"`
	ItemCount        int       `json:"itemCount"`
	OccurredAt       time.Time `json:"occurredAt"`
}

// EventPublisher delivers profile events to downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, ev ProfileEvent) error
	Close() error
}

// NopPublisher drops every event. Used when KAFKA_BROKERS is empty.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, ProfileEvent) error { return nil }
func (NopPublisher) Close() error                               { return nil }

// KafkaPublisher writes events to a single topic, keyed by profile id so all
// events of one profile land on the same partition.
type KafkaPublisher struct {
	w *kafka.Writer
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{w: &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
		BatchTimeout:           50 * time.Millisecond,
	}}
}

func (p *KafkaPublisher) Publish(ctx context.Context, ev ProfileEvent) error {
	msg, err := eventMessage(ev)
	if err != nil {
		return err
	}
	if err := p.w.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("events: write %s: %w", ev.Type, err)
	}
	return nil
}

func eventMessage(ev ProfileEvent) (kafka.Message, error) {
	body, err := json.Marshal(ev)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("events: marshal %s: %w", ev.Type, err)
	}
	return kafka.Message{
		Key:   []byte(ev.ProfileID),
		Value: body,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(ev.Type)},
		},
	}, nil
}

func (p *KafkaPublisher) Close() error { return p.w.Close() }
