package domain

import "time"

// Severity classifies a status event.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// StatusEvent is a single progress notification for the presentation layer.
// Step is zero for events not tied to a sequence step.
type StatusEvent struct {
	Severity  Severity  `json:"type"`
	Message   string    `json:"message"`
	Step      int       `json:"step,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewEvent stamps an event with the current UTC time.
func NewEvent(severity Severity, step int, message string) StatusEvent {
	return StatusEvent{
		Severity:  severity,
		Message:   message,
		Step:      step,
		Timestamp: time.Now().UTC(),
	}
}
