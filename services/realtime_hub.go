package services

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// subscriberBuffer is how many events a slow subscriber may lag behind
// before events are dropped for it.
const subscriberBuffer = 16

// RealtimeEvent is pushed to websocket subscribers when a row they own
// changes.
type RealtimeEvent struct {
	Type            string      `json:"type"`
	Table           string      `json:"table"`
	Record          interface{} `json:"record"`
	CommitTimestamp time.Time   `json:"commit_timestamp"`
}

// RealtimeSubscriber receives the events of one user.
type RealtimeSubscriber struct {
	UserID string
	events chan RealtimeEvent
}

// Events is closed when the subscriber is removed from the hub.
func (s *RealtimeSubscriber) Events() <-chan RealtimeEvent {
	return s.events
}

// RealtimeHub fans row changes out to the subscribers of their owner.
type RealtimeHub struct {
	mu          sync.RWMutex
	subscribers map[string]map[*RealtimeSubscriber]struct{}
}

func NewRealtimeHub() *RealtimeHub {
	return &RealtimeHub{subscribers: make(map[string]map[*RealtimeSubscriber]struct{})}
}

// Subscribe registers a new subscriber for userID.
func (h *RealtimeHub) Subscribe(userID string) *RealtimeSubscriber {
	sub := &RealtimeSubscriber{UserID: userID, events: make(chan RealtimeEvent, subscriberBuffer)}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subscribers[userID] == nil {
		h.subscribers[userID] = make(map[*RealtimeSubscriber]struct{})
	}
	h.subscribers[userID][sub] = struct{}{}
	return sub
}

// Unsubscribe removes sub and closes its channel. Safe to call twice.
func (h *RealtimeHub) Unsubscribe(sub *RealtimeSubscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs := h.subscribers[sub.UserID]
	if _, ok := subs[sub]; !ok {
		return
	}
	delete(subs, sub)
	if len(subs) == 0 {
		delete(h.subscribers, sub.UserID)
	}
	close(sub.events)
}

// Publish delivers event to every subscriber of userID without blocking.
func (h *RealtimeHub) Publish(userID string, event RealtimeEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.subscribers[userID] {
		select {
		case sub.events <- event:
		default:
			logrus.WithFields(logrus.Fields{
				"user_id": userID,
				"table":   event.Table,
			}).Warn("Realtime subscriber is full, dropping event")
		}
	}
}

// SubscriberCount returns the number of live subscribers of userID.
func (h *RealtimeHub) SubscriberCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[userID])
}

var realtimeHubInstance = NewRealtimeHub()

// GetRealtimeHub returns the process-wide hub.
func GetRealtimeHub() *RealtimeHub {
	return realtimeHubInstance
}

// SetRealtimeHub replaces the process-wide hub (primarily for testing).
func SetRealtimeHub(hub *RealtimeHub) {
	realtimeHubInstance = hub
}
