// Package hub fans published notifications out to live subscribers over
// three addressing modes: the general topic, a single user, or a group.
// Delivery is fire-and-forget per subscriber; a slow or gone subscriber
// never blocks the publisher or its peers.
package hub

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"notification-hub/models"
	"notification-hub/utils"
)

// ErrHubClosed is returned by publish calls after Close.
var ErrHubClosed = errors.New("notification hub is closed")

// subscriberBuffer bounds the per-subscriber delivery queue. When a
// subscriber's queue is full the envelope is dropped for that subscriber.
const subscriberBuffer = 16

const topicAll = "all"

func userDest(userID string) string   { return "user:" + userID }
func groupDest(groupID string) string { return "group:" + groupID }

// Subscription is one registered subscriber channel. It has no persisted
// state and disappears with the underlying connection.
type Subscription struct {
	id   string
	dest string
	ch   chan models.Envelope
	hub  *Hub
}

// C returns the delivery channel. It is closed when the subscription is
// cancelled or the hub shuts down.
func (s *Subscription) C() <-chan models.Envelope { return s.ch }

// Unsubscribe removes the subscriber and closes its channel. Safe to call
// concurrently with publishes and after hub shutdown.
func (s *Subscription) Unsubscribe() {
	s.hub.mu.Lock()
	defer s.hub.mu.Unlock()

	subs, ok := s.hub.subs[s.dest]
	if !ok {
		return
	}
	if _, ok := subs[s.id]; !ok {
		return
	}
	delete(subs, s.id)
	if len(subs) == 0 {
		delete(s.hub.subs, s.dest)
	}
	close(s.ch)
}

// Hub is the in-process broadcast fan-out layer.
type Hub struct {
	mu     sync.RWMutex
	closed bool
	subs   map[string]map[string]*Subscription
}

func New() *Hub {
	return &Hub{subs: make(map[string]map[string]*Subscription)}
}

// SubscribeAll registers a subscriber on the general topic.
func (h *Hub) SubscribeAll() *Subscription { return h.subscribe(topicAll) }

// SubscribeUser registers a subscriber on a single user's destination.
func (h *Hub) SubscribeUser(userID string) *Subscription { return h.subscribe(userDest(userID)) }

// SubscribeGroup registers a subscriber on a group destination.
func (h *Hub) SubscribeGroup(groupID string) *Subscription { return h.subscribe(groupDest(groupID)) }

func (h *Hub) subscribe(dest string) *Subscription {
	sub := &Subscription{
		id:   uuid.NewString(),
		dest: dest,
		ch:   make(chan models.Envelope, subscriberBuffer),
		hub:  h,
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		close(sub.ch)
		return sub
	}

	subs, ok := h.subs[dest]
	if !ok {
		subs = make(map[string]*Subscription)
		h.subs[dest] = subs
	}
	subs[sub.id] = sub
	return sub
}

// SubscriberCount reports how many subscribers are currently registered
// across all destinations.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := 0
	for _, subs := range h.subs {
		total += len(subs)
	}
	return total
}

// NewEnvelope builds a fresh delivery envelope: its own uuid and send
// timestamp, independent of any stored record. A malformed date string
// falls back to the current time.
func NewEnvelope(date, level, content string) models.Envelope {
	eventTime, ok := utils.ParseEventTime(date)
	if !ok {
		if date != "" {
			log.Printf("could not parse date %q, using current time", date)
		}
		eventTime = time.Now()
	}
	return models.Envelope{
		ID:      uuid.NewString(),
		Date:    eventTime,
		Level:   level,
		Content: content,
		SentAt:  time.Now(),
	}
}

// BroadcastToAll delivers a fresh envelope to every subscriber of the
// general topic.
func (h *Hub) BroadcastToAll(date, level, content string) (models.Envelope, error) {
	env := NewEnvelope(date, level, content)
	return env, h.publish(topicAll, env)
}

// SendToUser delivers a fresh envelope to the subscribers registered under
// the given user identity.
func (h *Hub) SendToUser(userID, date, level, content string) (models.Envelope, error) {
	env := NewEnvelope(date, level, content)
	return env, h.publish(userDest(userID), env)
}

// SendToGroup delivers a fresh envelope to the subscribers registered under
// the given group identity.
func (h *Hub) SendToGroup(groupID, date, level, content string) (models.Envelope, error) {
	env := NewEnvelope(date, level, content)
	return env, h.publish(groupDest(groupID), env)
}

func (h *Hub) publish(dest string, env models.Envelope) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.closed {
		return ErrHubClosed
	}
	for _, sub := range h.subs[dest] {
		select {
		case sub.ch <- env:
		default:
			log.Printf("dropping notification %s for slow subscriber %s on %s", env.ID, sub.id, dest)
		}
	}
	return nil
}

// Close shuts the hub down: all subscriber channels are closed and later
// publishes fail with ErrHubClosed. Idempotent.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	for _, subs := range h.subs {
		for _, sub := range subs {
			close(sub.ch)
		}
	}
	h.subs = make(map[string]map[string]*Subscription)
}
