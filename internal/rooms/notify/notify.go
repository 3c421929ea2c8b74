// Package notify publishes room lifecycle events for downstream consumers
// (UI refresh, waiting-user notification). Publishing is best effort: a
// broker outage never fails the reservation path.
package notify

import (
	"context"
	"encoding/json"
	"time"

	"roomly/pkg/logger"
	"roomly/pkg/model"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

type EventType string

const (
	EventBookingConfirmed EventType = "booking.confirmed"
	EventBookingCancelled EventType = "booking.cancelled"
	EventBookingExpired   EventType = "booking.expired"
	EventWaitingEnrolled  EventType = "waiting.enrolled"
	EventWaitingCancelled EventType = "waiting.cancelled"
	EventWaitingPromoted  EventType = "waiting.promoted"
)

type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	RoomID    string    `json:"room_id"`
	Requester string    `json:"requester"`
	Date      string    `json:"date"`
	Start     string    `json:"start"`
	End       string    `json:"end"`
	At        time.Time `json:"at"`
}

func NewEvent(t EventType, roomID, requester string, slot model.Slot) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      t,
		RoomID:    roomID,
		Requester: requester,
		Date:      slot.Date,
		Start:     slot.Start,
		End:       slot.End,
		At:        time.Now(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, evt Event)
	Close() error
}

type nopPublisher struct{}

// NewNop returns a publisher that drops every event. Used when no brokers
// are configured.
func NewNop() Publisher {
	return nopPublisher{}
}

func (nopPublisher) Publish(context.Context, Event) {}
func (nopPublisher) Close() error                   { return nil }

// KafkaPublisher writes events to a single topic, keyed by room id so all
// events for one room land on one partition in order.
type KafkaPublisher struct {
	writer *kafka.Writer
	log    *logger.Logger
}

func NewKafka(brokers []string, topic string, log *logger.Logger) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
		Async:        true,
	}
	log.Info("Kafka event publisher initialized", "topic", topic, "brokers", len(brokers))
	return &KafkaPublisher{writer: writer, log: log}
}

func (p *KafkaPublisher) Publish(ctx context.Context, evt Event) {
	payload, err := json.Marshal(evt)
	if err != nil {
		p.log.Error("Failed to encode event", "event_type", evt.Type, "error", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(evt.RoomID),
		Value: payload,
		Time:  evt.At,
		Headers: []kafka.Header{
			{Key: "event-id", Value: []byte(evt.ID)},
			{Key: "event-type", Value: []byte(evt.Type)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.log.Error("Failed to publish event",
			"event_type", evt.Type,
			"room_id", evt.RoomID,
			"error", err,
		)
	}
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
