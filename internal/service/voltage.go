package service

import (
	"context"
	"fmt"
	"sync"

	"power_relay/internal/hardware"
	"power_relay/internal/logger"
	"power_relay/internal/models"
	"power_relay/internal/repository"
)

// DefaultVoltage is applied when nothing was persisted.
const DefaultVoltage = 5

// VoltageLevels maps a PD output level in volts to the CFG1..CFG3 lines.
var VoltageLevels = map[int][3]bool{
	5:  {true, true, true},
	9:  {false, false, false},
	12: {false, false, true},
	15: {false, true, true},
	20: {false, true, false},
}

// BusVoltageSetter follows the selected PD level; the power simulator
// implements it.
type BusVoltageSetter interface {
	SetBusVoltage(v float64)
}

type VoltageService struct {
	mu      sync.Mutex
	current int

	pd       hardware.PDController
	repo     repository.VoltageRepo
	events   *EventRecorder
	follower BusVoltageSetter
	log      *logger.Logger
}

// NewVoltageService returns a service at DefaultVoltage; follower may be nil.
func NewVoltageService(pd hardware.PDController, repo repository.VoltageRepo, events *EventRecorder, follower BusVoltageSetter, log *logger.Logger) *VoltageService {
	return &VoltageService{
		current:  DefaultVoltage,
		pd:       pd,
		repo:     repo,
		events:   events,
		follower: follower,
		log:      log.Named("voltage"),
	}
}

// Load applies the persisted level, or DefaultVoltage when none is stored
// or the stored one is unknown.
func (s *VoltageService) Load(ctx context.Context) error {
	cfg, found, err := s.repo.LoadVoltage(ctx)
	if err != nil {
		return fmt.Errorf("load voltage: %w", err)
	}
	volts := DefaultVoltage
	if found {
		if _, ok := VoltageLevels[cfg.CurrentVol]; ok {
			volts = cfg.CurrentVol
		} else {
			s.log.Warnw("voltage_unknown", "stored", cfg.CurrentVol, "using", DefaultVoltage)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyLocked(volts)
}

func (s *VoltageService) Get() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Set drives the PD lines to volts and persists the choice.
func (s *VoltageService) Set(ctx context.Context, volts int) error {
	if _, ok := VoltageLevels[volts]; !ok {
		return fmt.Errorf("%w: %d", ErrInvalidVoltage, volts)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.current
	if err := s.applyLocked(volts); err != nil {
		return err
	}
	s.events.Record(ctx, models.EventVoltage, fmt.Sprintf("Output voltage set to %dV", volts), map[string]any{
		"from": prev,
		"to":   volts,
	})

	if err := s.repo.SaveVoltage(ctx, models.VoltageConfig{CurrentVol: volts}); err != nil {
		s.log.Errorw("store_save_failed", "collection", repository.CollectionVoltage, "error", err)
		return fmt.Errorf("save voltage: %w: %w", ErrPersistence, err)
	}
	return nil
}

func (s *VoltageService) applyLocked(volts int) error {
	if err := s.pd.Apply(VoltageLevels[volts]); err != nil {
		return fmt.Errorf("apply %dV: %w", volts, err)
	}
	s.current = volts
	if s.follower != nil {
		s.follower.SetBusVoltage(float64(volts))
	}
	s.log.Infow("voltage_applied", "volts", volts)
	return nil
}
