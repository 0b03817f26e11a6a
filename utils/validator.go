// utils/validator.go - Input validation
package utils

import (
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MaxTitleLength   = 100
	MaxMessageLength = 500
)

// ValidateTitle checks the notification title constraints.
func ValidateTitle(title string) (bool, string) {
	if strings.TrimSpace(title) == "" {
		return false, "Title is required"
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return false, "Title must be less than 100 characters"
	}
	return true, ""
}

// ValidateMessage checks the notification message constraints.
func ValidateMessage(message string) (bool, string) {
	if strings.TrimSpace(message) == "" {
		return false, "Message is required"
	}
	if utf8.RuneCountInString(message) > MaxMessageLength {
		return false, "Message must be less than 500 characters"
	}
	return true, ""
}

// SanitizeInput removes potentially harmful characters
func SanitizeInput(input string) string {
	// Remove leading/trailing spaces
	input = strings.TrimSpace(input)

	// Remove null bytes
	input = strings.ReplaceAll(input, "\x00", "")

	return input
}

// eventTimeLayouts are the timestamp shapes streaming producers send.
// ISO-8601 local first, that is what the ingestion clients emit.
var eventTimeLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999999",
	time.RFC3339,
	time.RFC3339Nano,
}

// ParseEventTime best-effort parses a producer-supplied timestamp string.
// The second return value reports whether parsing succeeded.
func ParseEventTime(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range eventTimeLayouts {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
