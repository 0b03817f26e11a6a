package store

import (
	"sync"
	"sync/atomic"
	"time"

	"notification-hub/models"
)

// NotificationStore is a thread-safe in-memory collection of notifications.
// It keeps records in insertion order next to an id index, so recency scans
// and id lookups share one representation. All reads return copies; a
// snapshot taken by FindAll is not affected by later mutations.
type NotificationStore struct {
	mu      sync.RWMutex
	ordered []*models.Notification
	byID    map[int64]*models.Notification
	nextID  atomic.Int64
}

func NewNotificationStore() *NotificationStore {
	return &NotificationStore{byID: make(map[int64]*models.Notification)}
}

// Save inserts a notification. A zero id gets the next value from the
// monotonic counter, a zero CreatedAt gets the current time. Returns the
// stored record.
func (s *NotificationStore) Save(n models.Notification) models.Notification {
	if n.ID == 0 {
		n.ID = s.nextID.Add(1)
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}

	stored := n
	s.mu.Lock()
	s.ordered = append(s.ordered, &stored)
	s.byID[stored.ID] = &stored
	s.mu.Unlock()

	return n
}

// FindByID returns a copy of the record with the given id.
func (s *NotificationStore) FindByID(id int64) (models.Notification, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.byID[id]
	if !ok {
		return models.Notification{}, false
	}
	return *n, true
}

// RemoveByID deletes the record with the given id and reports whether a
// removal occurred. The id is never handed out again.
func (s *NotificationStore) RemoveByID(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[id]; !ok {
		return false
	}
	delete(s.byID, id)
	for i, n := range s.ordered {
		if n.ID == id {
			s.ordered = append(s.ordered[:i], s.ordered[i+1:]...)
			break
		}
	}
	return true
}

// FindAll returns a snapshot of all records in insertion order.
func (s *NotificationStore) FindAll() []models.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Notification, 0, len(s.ordered))
	for _, n := range s.ordered {
		out = append(out, *n)
	}
	return out
}

// FindSince returns all records with CreatedAt at or after threshold, in
// insertion order. Records without a real timestamp are never matched.
func (s *NotificationStore) FindSince(threshold time.Time) []models.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Notification
	for _, n := range s.ordered {
		if !n.CreatedAt.IsZero() && !n.CreatedAt.Before(threshold) {
			out = append(out, *n)
		}
	}
	return out
}

// Apply runs fn against the stored record under the write lock, so readers
// never observe a half-updated record. Returns the updated copy.
func (s *NotificationStore) Apply(id int64, fn func(*models.Notification)) (models.Notification, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.byID[id]
	if !ok {
		return models.Notification{}, false
	}
	fn(n)
	return *n, true
}

// Len returns the number of stored records.
func (s *NotificationStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ordered)
}
