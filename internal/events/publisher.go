package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
)

// Topics for repair tracking domain events.
const (
	TopicVehicleCreated       = "vehicle.created"
	TopicVehicleStatusChanged = "vehicle.status_changed"
	TopicVehicleDeleted       = "vehicle.deleted"
)

// Event is the envelope published for every vehicle lifecycle change.
type Event struct {
	ID         string                 `json:"id"`
	Type       string                 `json:"type"`
	VehicleID  uint                   `json:"vehicle_id"`
	Matricule  string                 `json:"matricule"`
	Actor      string                 `json:"actor"`
	OccurredAt time.Time              `json:"occurred_at"`
	Payload    map[string]interface{} `json:"payload,omitempty"`
}

// EventPublisher publishes domain events to the message broker.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, event Event) error
	Close() error
}

// KafkaEventPublisher publishes events to Kafka via watermill.
type KafkaEventPublisher struct {
	publisher message.Publisher
}

// NewKafkaEventPublisher connects to the given brokers. Pass an empty broker
// list to disable publishing entirely.
func NewKafkaEventPublisher(brokers []string) (*KafkaEventPublisher, error) {
	if len(brokers) == 0 {
		return &KafkaEventPublisher{}, nil
	}

	publisher, err := kafka.NewPublisher(
		kafka.PublisherConfig{
			Brokers:   brokers,
			Marshaler: kafka.DefaultMarshaler{},
		},
		watermill.NewSlogLogger(nil),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka publisher: %w", err)
	}

	return &KafkaEventPublisher{publisher: publisher}, nil
}

func (p *KafkaEventPublisher) Publish(ctx context.Context, topic string, event Event) error {
	if p.publisher == nil {
		return nil
	}

	if event.ID == "" {
		event.ID = watermill.NewUUID()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}
	event.Type = topic

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(event.ID, payload)
	msg.Metadata.Set("event_type", topic)

	if err := p.publisher.Publish(topic, msg); err != nil {
		return fmt.Errorf("failed to publish event to %s: %w", topic, err)
	}

	return nil
}

func (p *KafkaEventPublisher) Close() error {
	if p.publisher == nil {
		return nil
	}
	return p.publisher.Close()
}

// MockEventPublisher records published events for tests.
type MockEventPublisher struct {
	mu     sync.Mutex
	events []Event
}

func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{}
}

func (m *MockEventPublisher) Publish(_ context.Context, topic string, event Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	event.Type = topic
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}
	m.events = append(m.events, event)
	return nil
}

func (m *MockEventPublisher) Close() error {
	return nil
}

func (m *MockEventPublisher) GetPublishedEvents() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Event, len(m.events))
	copy(out, m.events)
	return out
}

func (m *MockEventPublisher) ClearEvents() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = nil
}
