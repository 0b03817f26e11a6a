package services

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"notification-hub/models"
	"notification-hub/store"
	"notification-hub/utils"
)

var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrInvalidRequest       = errors.New("invalid notification request")
)

// DefaultType is applied when a producer omits the level/type field.
const DefaultType = "INFO"

// NotificationService validates and normalizes incoming notification
// requests and translates store results into domain errors.
type NotificationService struct {
	store *store.NotificationStore
}

func NewNotificationService(s *store.NotificationStore) *NotificationService {
	return &NotificationService{store: s}
}

// Create validates the request, fills defaults and persists the record.
func (s *NotificationService) Create(req models.NotificationRequest) (models.Notification, error) {
	title := utils.SanitizeInput(req.Title)
	message := utils.SanitizeInput(req.Message)

	if ok, reason := utils.ValidateTitle(title); !ok {
		return models.Notification{}, fmt.Errorf("%w: %s", ErrInvalidRequest, reason)
	}
	if ok, reason := utils.ValidateMessage(message); !ok {
		return models.Notification{}, fmt.Errorf("%w: %s", ErrInvalidRequest, reason)
	}

	typ := strings.TrimSpace(req.Type)
	if typ == "" {
		typ = DefaultType
	}

	return s.store.Save(models.Notification{
		Title:     title,
		Message:   message,
		Type:      typ,
		CreatedAt: time.Now(),
	}), nil
}

// CreateFromStream persists one item from the streaming ingestion path. The
// level doubles as title and type and defaults to INFO; the date string is
// best-effort parsed and a malformed value falls back to the current time
// rather than failing the item.
func (s *NotificationService) CreateFromStream(level, content, date string) (models.Notification, error) {
	if utf8.RuneCountInString(content) > utils.MaxMessageLength {
		return models.Notification{}, fmt.Errorf("%w: Message must be less than %d characters", ErrInvalidRequest, utils.MaxMessageLength)
	}

	lvl := strings.TrimSpace(level)
	if lvl == "" {
		lvl = DefaultType
	}

	createdAt, ok := utils.ParseEventTime(date)
	if !ok {
		if strings.TrimSpace(date) != "" {
			log.Printf("could not parse date %q, using current time", date)
		}
		createdAt = time.Now()
	}

	return s.store.Save(models.Notification{
		Title:     lvl,
		Message:   content,
		Type:      lvl,
		CreatedAt: createdAt,
	}), nil
}

// GetByID returns the record or ErrNotificationNotFound.
func (s *NotificationService) GetByID(id int64) (models.Notification, error) {
	n, ok := s.store.FindByID(id)
	if !ok {
		return models.Notification{}, fmt.Errorf("%w: id %d", ErrNotificationNotFound, id)
	}
	return n, nil
}

// Update overwrites title and message and, only when the request supplies
// one, the type. Fails with ErrNotificationNotFound for an unknown id.
func (s *NotificationService) Update(id int64, req models.NotificationRequest) (models.Notification, error) {
	title := utils.SanitizeInput(req.Title)
	message := utils.SanitizeInput(req.Message)

	if ok, reason := utils.ValidateTitle(title); !ok {
		return models.Notification{}, fmt.Errorf("%w: %s", ErrInvalidRequest, reason)
	}
	if ok, reason := utils.ValidateMessage(message); !ok {
		return models.Notification{}, fmt.Errorf("%w: %s", ErrInvalidRequest, reason)
	}

	typ := strings.TrimSpace(req.Type)
	updated, ok := s.store.Apply(id, func(n *models.Notification) {
		n.Title = title
		n.Message = message
		if typ != "" {
			n.Type = typ
		}
	})
	if !ok {
		return models.Notification{}, fmt.Errorf("%w: id %d", ErrNotificationNotFound, id)
	}
	return updated, nil
}

// Delete removes the record or fails with ErrNotificationNotFound.
func (s *NotificationService) Delete(id int64) error {
	if !s.store.RemoveByID(id) {
		return fmt.Errorf("%w: id %d", ErrNotificationNotFound, id)
	}
	return nil
}

// ListAll returns every record sorted ascending by creation time. The sort
// is stable so records sharing a timestamp keep their insertion order.
func (s *NotificationService) ListAll() []models.Notification {
	items := s.store.FindAll()
	sortByCreatedAt(items)
	return items
}

// ListRecent returns the records created within the last `days` days,
// sorted ascending by creation time.
func (s *NotificationService) ListRecent(days int) []models.Notification {
	threshold := time.Now().AddDate(0, 0, -days)
	items := s.store.FindSince(threshold)
	sortByCreatedAt(items)
	return items
}

func sortByCreatedAt(items []models.Notification) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
}
