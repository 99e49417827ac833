package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ms-events/internal/logger"
	"ms-events/internal/models"

	"github.com/segmentio/kafka-go"
)

const (
	TypeEventSaved     = "event.saved"
	TypeEventDeleted   = "event.deleted"
	TypeBookingCreated = "booking.created"
)

// Envelope is the value of every published message.
type Envelope struct {
	Type       string      `json:"type"`
	OccurredAt time.Time   `json:"occurred_at"`
	Payload    interface{} `json:"payload"`
}

// MessageWriter is the part of *kafka.Writer the producer uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes change notifications keyed by record ID. Events and
// bookings go to separate topics; the writer has no default topic.
type Producer struct {
	Writer        MessageWriter
	EventsTopic   string
	BookingsTopic string
	Logger        *logger.Logger
	Now           func() time.Time
}

func NewProducer(brokers []string, eventsTopic, bookingsTopic string, log *logger.Logger) *Producer {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: false,
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Producer{
		Writer:        writer,
		EventsTopic:   eventsTopic,
		BookingsTopic: bookingsTopic,
		Logger:        log,
		Now:           func() time.Time { return time.Now().UTC() },
	}
}

// PublishEventSaved streams an event create or update to Kafka
func (p *Producer) PublishEventSaved(ctx context.Context, ev *models.Event) error {
	return p.publish(ctx, p.EventsTopic, TypeEventSaved, ev.ID, ev)
}

// PublishEventDeleted streams an event removal to Kafka
func (p *Producer) PublishEventDeleted(ctx context.Context, ev *models.Event) error {
	return p.publish(ctx, p.EventsTopic, TypeEventDeleted, ev.ID, ev)
}

// PublishBookingCreated streams a new booking to Kafka
func (p *Producer) PublishBookingCreated(ctx context.Context, b *models.Booking) error {
	return p.publish(ctx, p.BookingsTopic, TypeBookingCreated, b.ID, b)
}

func (p *Producer) publish(ctx context.Context, topic, msgType, key string, payload interface{}) error {
	msg, err := p.message(topic, msgType, key, payload)
	if err != nil {
		return err
	}

	p.Logger.LogKafka("PUBLISH", topic, fmt.Sprintf("%s %s", msgType, key))

	if err := p.Writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish %s to %s: %w", msgType, topic, err)
	}
	return nil
}

func (p *Producer) message(topic, msgType, key string, payload interface{}) (kafka.Message, error) {
	value, err := json.Marshal(Envelope{
		Type:       msgType,
		OccurredAt: p.Now(),
		Payload:    payload,
	})
	if err != nil {
		return kafka.Message{}, fmt.Errorf("marshal %s: %w", msgType, err)
	}
	return kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: value,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(msgType)},
		},
	}, nil
}

func (p *Producer) Close() error {
	return p.Writer.Close()
}

// NopPublisher drops every notification. Used when Kafka is disabled.
type NopPublisher struct{}

func (NopPublisher) PublishEventSaved(context.Context, *models.Event) error { return nil }

func (NopPublisher) PublishEventDeleted(context.Context, *models.Event) error { return nil }

func (NopPublisher) PublishBookingCreated(context.Context, *models.Booking) error { return nil }

func (NopPublisher) Close() error { return nil }
