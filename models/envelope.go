package models

import "time"

// Envelope is the wire message pushed to live subscribers. It is a distinct
// entity from the stored Notification: every publish mints a fresh id and
// send timestamp, whether or not the payload was ever persisted.
type Envelope struct {
	ID      string    `json:"id"`
	Date    time.Time `json:"date"`
	Level   string    `json:"level"`
	Content string    `json:"content"`
	SentAt  time.Time `json:"sentAt"`
}
