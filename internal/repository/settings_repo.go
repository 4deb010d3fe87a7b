package repository

import (
	"context"

	"power_relay/internal/models"
)

// Settings maps the typed collections onto a Store.
type Settings struct {
	store Store
}

func NewSettings(store Store) *Settings {
	return &Settings{store: store}
}

var (
	_ TimerRepo      = (*Settings)(nil)
	_ ProtectionRepo = (*Settings)(nil)
	_ VoltageRepo    = (*Settings)(nil)
)

// SaveTimers persists the full timer list in order.
func (s *Settings) SaveTimers(ctx context.Context, timers []models.Timer) error {
	if timers == nil {
		timers = []models.Timer{}
	}
	return s.store.Save(ctx, CollectionTimers, timers)
}

// LoadTimers returns the persisted list, or an empty list if none was saved.
func (s *Settings) LoadTimers(ctx context.Context) ([]models.Timer, error) {
	var timers []models.Timer
	if _, err := s.store.Load(ctx, CollectionTimers, &timers); err != nil {
		return nil, err
	}
	return timers, nil
}

func (s *Settings) SaveLimits(ctx context.Context, limits models.ProtectionLimits) error {
	return s.store.Save(ctx, CollectionProtection, limits)
}

// LoadLimits returns all-zero (disabled) limits when nothing was saved.
func (s *Settings) LoadLimits(ctx context.Context) (models.ProtectionLimits, error) {
	var limits models.ProtectionLimits
	if _, err := s.store.Load(ctx, CollectionProtection, &limits); err != nil {
		return models.ProtectionLimits{}, err
	}
	return limits, nil
}

func (s *Settings) SaveVoltage(ctx context.Context, cfg models.VoltageConfig) error {
	return s.store.Save(ctx, CollectionVoltage, cfg)
}

func (s *Settings) LoadVoltage(ctx context.Context) (models.VoltageConfig, bool, error) {
	var cfg models.VoltageConfig
	found, err := s.store.Load(ctx, CollectionVoltage, &cfg)
	if err != nil {
		return models.VoltageConfig{}, false, err
	}
	return cfg, found, nil
}
