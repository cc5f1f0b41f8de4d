package services

import (
	"context"
	"sync"
)

// PublishedEvent is one call captured by RecordingEventPublisher.
type PublishedEvent struct {
	Subject string
	Payload interface{}
}

// RecordingEventPublisher keeps every published event in memory for tests.
type RecordingEventPublisher struct {
	mu     sync.Mutex
	events []PublishedEvent
}

func NewRecordingEventPublisher() *RecordingEventPublisher {
	return &RecordingEventPublisher{}
}

// SetAsMockForTesting installs this recorder as the global publisher.
func (r *RecordingEventPublisher) SetAsMockForTesting() {
	SetEventPublisher(r)
}

func (r *RecordingEventPublisher) Publish(_ context.Context, subject string, payload interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, PublishedEvent{Subject: subject, Payload: payload})
	return nil
}

func (r *RecordingEventPublisher) Close() {}

// Events returns a copy of everything published so far.
func (r *RecordingEventPublisher) Events() []PublishedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]PublishedEvent, len(r.events))
	copy(out, r.events)
	return out
}

// Subjects returns the subjects in publish order.
func (r *RecordingEventPublisher) Subjects() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Subject)
	}
	return out
}

// Reset forgets all recorded events.
func (r *RecordingEventPublisher) Reset() {
	r.mu.Lock()
	r.events = nil
	r.mu.Unlock()
}
