package service

import "time"

// Command asks the relay path to drive Channel to On.
type Command struct {
	Channel int  `json:"channel"`
	On      bool `json:"on"`
}

// Source tags who produced a relay command. The value doubles as the event type.
type Source string

const (
	SourceManual     Source = "RELAY"
	SourceTimer      Source = "TIMER"
	SourceProtection Source = "PROTECTION"
)

// LogFilter supports history filtering by time range and type.
type LogFilter struct {
	From time.Time // inclusive; zero means no lower bound
	To   time.Time // inclusive; zero means no upper bound
	Type string    // "", "RELAY", "TIMER", "PROTECTION", "VOLTAGE", "ERROR"
	// Limit keeps only the newest Limit events; 0 returns everything.
	Limit int
}
