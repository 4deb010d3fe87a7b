package models

import "time"

// Event types recorded in the relay event log.
const (
	EventRelay      = "RELAY"
	EventTimer      = "TIMER"
	EventProtection = "PROTECTION"
	EventVoltage    = "VOLTAGE"
	EventError      = "ERROR"
)

// RelayEvent is a single log entry.
type RelayEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`        // RELAY | TIMER | PROTECTION | VOLTAGE | ERROR
	Description string    `json:"description"` // human-readable
	Metadata    any       `json:"metadata,omitempty"`
}
