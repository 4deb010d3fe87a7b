package models

import "time"

// PowerReading is one channel's sample from the power monitor.
type PowerReading struct {
	Channel  int     `json:"channel"`
	Current  float64 `json:"current"` // mA
	Voltage  float64 `json:"voltage"` // V
	Power    float64 `json:"power"`   // W
}

// Status is the snapshot served by /api/v1/status and streamed over /ws.
type Status struct {
	Relays        []bool              `json:"relays"`
	Power         []PowerReading      `json:"power"`
	Protection    []ChannelProtection `json:"protection"`
	Voltage       int                 `json:"voltage"` // V
	Version       string              `json:"version,omitempty"`
	UptimeSeconds int64               `json:"uptime_seconds"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// VoltageConfig is the persisted PD trigger setting.
type VoltageConfig struct {
	CurrentVol int `json:"currentVol"` // V
}
