package models

import "time"

// Notification is a stored notification record. The id is assigned by the
// store on first insert and never reused.
type Notification struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type"` // INFO|WARN|ERROR
	CreatedAt time.Time `json:"created_at"`
}

// NotificationRequest is the REST create/update payload.
type NotificationRequest struct {
	Title   string `json:"title" binding:"required,max=100"`
	Message string `json:"message" binding:"required,max=500"`
	Type    string `json:"type"`
}

// IngestRequest is one ingested event. Producers on the streaming path carry
// their own event time as a best-effort ISO-8601 local timestamp string.
type IngestRequest struct {
	Level   string `json:"level"`
	Content string `json:"content"`
	Date    string `json:"date"`
}

// IngestResponse reports the outcome of an ingest call. For a stream it is
// the aggregate over all items and NotificationID carries a fresh uuid
// instead of a record id.
type IngestResponse struct {
	Success        bool   `json:"success"`
	Message        string `json:"message"`
	NotificationID string `json:"notification_id"`
}
