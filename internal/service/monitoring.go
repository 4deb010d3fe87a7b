package service

import (
	"context"
	"sync"
	"time"

	"power_relay/internal/models"
)

type relayStater interface {
	States() [models.ChannelCount]bool
}

type protectionStatuser interface {
	Status() []models.ChannelProtection
}

type voltageGetter interface {
	Get() int
}

// MonitoringService keeps the last power sample and assembles status snapshots.
type MonitoringService struct {
	mu        sync.Mutex
	readings  [models.ChannelCount]models.PowerReading
	updatedAt time.Time

	relays     relayStater
	protection protectionStatuser
	voltage    voltageGetter
	version    string
	started    time.Time
	now        func() time.Time
}

func NewMonitoringService(relays relayStater, protection protectionStatuser, voltage voltageGetter, version string) *MonitoringService {
	s := &MonitoringService{
		relays:     relays,
		protection: protection,
		voltage:    voltage,
		version:    version,
		now:        time.Now,
	}
	s.started = s.now()
	for ch := range s.readings {
		s.readings[ch].Channel = ch + 1
	}
	return s
}

// Observe stores a power sample taken at at.
func (s *MonitoringService) Observe(readings [models.ChannelCount]models.PowerReading, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readings = readings
	s.updatedAt = at
}

func (s *MonitoringService) Readings() [models.ChannelCount]models.PowerReading {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readings
}

// GetStatus returns relays, last readings, protection and voltage in one
// snapshot. Before the first sample UpdatedAt is the current time.
func (s *MonitoringService) GetStatus(ctx context.Context) (models.Status, error) {
	if err := ctx.Err(); err != nil {
		return models.Status{}, err
	}

	s.mu.Lock()
	readings := s.readings
	updated := s.updatedAt
	s.mu.Unlock()

	now := s.now()
	if updated.IsZero() {
		updated = now
	}
	states := s.relays.States()
	return models.Status{
		Relays:        states[:],
		Power:         readings[:],
		Protection:    s.protection.Status(),
		Voltage:       s.voltage.Get(),
		Version:       s.version,
		UptimeSeconds: int64(now.Sub(s.started).Seconds()),
		UpdatedAt:     toUTC(updated),
	}, nil
}

// toUTC normalizes non-zero time to UTC, preserving zero values.
func toUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}
