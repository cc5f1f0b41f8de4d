package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"
)

// Subjects published on the event bus.
const (
	SubjectOrderCreated       = "honeyhomes.orders.created"
	SubjectOrderStatusChanged = "honeyhomes.orders.status_changed"
	SubjectOrderAssigned      = "honeyhomes.orders.assigned"
	SubjectProfileUpdated     = "honeyhomes.profiles.updated"
)

// OrderEvent is the payload of every order subject.
type OrderEvent struct {
	OrderID              string    `json:"order_id"`
	UserID               string    `json:"user_id"`
	ServiceID            string    `json:"service_id"`
	Status               string    `json:"status"`
	AssignedTechnicianID *string   `json:"assigned_technician_id,omitempty"`
	ChangedBy            string    `json:"changed_by,omitempty"`
	OccurredAt           time.Time `json:"occurred_at"`
}

// ProfileEvent is the payload of SubjectProfileUpdated.
type ProfileEvent struct {
	UserID     string    `json:"user_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// EventPublisher sends domain events to interested consumers.
type EventPublisher interface {
	Publish(ctx context.Context, subject string, payload interface{}) error
	Close()
}

// NATSEventPublisher publishes JSON payloads on a NATS connection.
type NATSEventPublisher struct {
	conn *nats.Conn
}

// NewNATSEventPublisher connects to the NATS server at url.
func NewNATSEventPublisher(url string) (*NATSEventPublisher, error) {
	conn, err := nats.Connect(url,
		nats.Name("honey-homes-api"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logrus.WithError(err).Warn("NATS disconnected")
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logrus.WithField("url", nc.ConnectedUrl()).Info("NATS reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return &NATSEventPublisher{conn: conn}, nil
}

// Publish marshals payload and publishes it on subject.
func (p *NATSEventPublisher) Publish(ctx context.Context, subject string, payload interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	if err := p.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("failed to publish %s: %w", subject, err)
	}
	return nil
}

// Close drains pending messages and closes the connection.
func (p *NATSEventPublisher) Close() {
	if err := p.conn.Drain(); err != nil {
		logrus.WithError(err).Warn("Failed to drain NATS connection")
	}
}

// NoopEventPublisher discards every event. Used when NATS_URL is unset.
type NoopEventPublisher struct{}

func (NoopEventPublisher) Publish(context.Context, string, interface{}) error { return nil }
func (NoopEventPublisher) Close()                                              {}

var eventPublisherInstance EventPublisher = NoopEventPublisher{}

// InitEventPublisher connects to NATS when url is set, otherwise keeps the
// no-op publisher.
func InitEventPublisher(url string) (EventPublisher, error) {
	if url == "" {
		eventPublisherInstance = NoopEventPublisher{}
		return eventPublisherInstance, nil
	}
	publisher, err := NewNATSEventPublisher(url)
	if err != nil {
		return nil, err
	}
	eventPublisherInstance = publisher
	return publisher, nil
}

// GetEventPublisher returns the active publisher.
func GetEventPublisher() EventPublisher {
	return eventPublisherInstance
}

// SetEventPublisher replaces the active publisher (primarily for testing).
func SetEventPublisher(publisher EventPublisher) {
	if publisher == nil {
		publisher = NoopEventPublisher{}
	}
	eventPublisherInstance = publisher
}

// publishEvent sends an event and logs failures. Events are best effort:
// the database write has already happened.
func publishEvent(ctx context.Context, subject string, payload interface{}) {
	if err := GetEventPublisher().Publish(ctx, subject, payload); err != nil {
		logrus.WithError(err).WithField("subject", subject).Warn("Failed to publish event")
	}
}
