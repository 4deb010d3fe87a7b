package service

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"power_relay/internal/logger"
	"power_relay/internal/models"
	"power_relay/internal/repository"
)

// Scheduler owns the bounded set of timers and decides, once per tick,
// which of them fire.
type Scheduler struct {
	mu     sync.Mutex
	timers []models.Timer

	repo repository.TimerRepo
	log  *logger.Logger
}

func NewScheduler(repo repository.TimerRepo, log *logger.Logger) *Scheduler {
	return &Scheduler{
		timers: make([]models.Timer, 0, models.MaxTimers),
		repo:   repo,
		log:    log.Named("scheduler"),
	}
}

// Load replaces the in-memory set with the persisted one. Entries that fail
// validation, repeat an id, or exceed capacity are dropped with a warning.
func (s *Scheduler) Load(ctx context.Context) error {
	stored, err := s.repo.LoadTimers(ctx)
	if err != nil {
		return fmt.Errorf("load timers: %w", err)
	}

	timers := make([]models.Timer, 0, models.MaxTimers)
	seen := make(map[uint32]bool, len(stored))
	for _, t := range stored {
		if err := validateTimer(t); err != nil || t.ID == 0 || seen[t.ID] {
			s.log.Warnw("timer_dropped", "id", t.ID, "error", err)
			continue
		}
		if len(timers) == models.MaxTimers {
			s.log.Warnw("timer_dropped", "id", t.ID, "error", ErrCapacityExceeded)
			continue
		}
		seen[t.ID] = true
		timers = append(timers, t)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.timers = timers
	s.log.Infow("timers_loaded", "count", len(timers))
	return nil
}

// Add validates and appends t. An id of 0 is replaced with a fresh one.
// The assigned id is returned even when only the save failed.
func (s *Scheduler) Add(ctx context.Context, t models.Timer) (uint32, error) {
	if err := validateTimer(t); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.timers) >= models.MaxTimers {
		return 0, ErrCapacityExceeded
	}
	if t.ID == 0 {
		t.ID = s.nextIDLocked()
	} else if s.indexLocked(t.ID) >= 0 {
		return 0, fmt.Errorf("%w: %d", ErrDuplicateID, t.ID)
	}

	s.timers = append(s.timers, t)
	s.log.Infow("timer_added", "id", t.ID, "relay", t.RelayID, "at", fmt.Sprintf("%02d:%02d", t.Hour, t.Minute), "repeat", t.Repeat.String())
	return t.ID, s.persistLocked(ctx)
}

// Update merges p into the timer with id. The merged timer must be valid.
func (s *Scheduler) Update(ctx context.Context, id uint32, p models.TimerPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return fmt.Errorf("timer %d: %w", id, ErrNotFound)
	}
	merged := p.Apply(s.timers[i])
	if err := validateTimer(merged); err != nil {
		return err
	}

	s.timers[i] = merged
	s.log.Infow("timer_updated", "id", id)
	return s.persistLocked(ctx)
}

// Remove deletes the timer with id, keeping the others in order.
func (s *Scheduler) Remove(ctx context.Context, id uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return fmt.Errorf("timer %d: %w", id, ErrNotFound)
	}
	s.timers = append(s.timers[:i], s.timers[i+1:]...)
	s.log.Infow("timer_removed", "id", id)
	return s.persistLocked(ctx)
}

func (s *Scheduler) Get(id uint32) (models.Timer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	if i < 0 {
		return models.Timer{}, false
	}
	return s.timers[i], true
}

// List returns a copy of the timers in insertion order.
func (s *Scheduler) List() []models.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Timer, len(s.timers))
	copy(out, s.timers)
	return out
}

// Tick fires every enabled timer whose hour and minute match now, whose
// repeat rule admits now's weekday and whose target differs from the relay
// state. A channel's state is updated after each firing so later timers in
// the same tick see it. The set is saved once if anything fired; a failed
// save is logged and the in-memory state is kept.
func (s *Scheduler) Tick(ctx context.Context, now time.Time, states [models.ChannelCount]bool) []Command {
	s.mu.Lock()
	defer s.mu.Unlock()

	var cmds []Command
	for i := range s.timers {
		t := &s.timers[i]
		if !t.Enabled || t.Hour != now.Hour() || t.Minute != now.Minute() {
			continue
		}
		if !repeatAllows(*t, now.Weekday()) {
			continue
		}
		if states[t.RelayID] == t.State {
			continue
		}

		cmds = append(cmds, Command{Channel: t.RelayID, On: t.State})
		states[t.RelayID] = t.State
		t.LastTriggered = now.Unix()
		if t.Repeat == models.RepeatOnce {
			t.Enabled = false
		}
		s.log.Infow("timer_fired", "id", t.ID, "relay", t.RelayID, "state", t.State, "repeat", t.Repeat.String())
	}

	if len(cmds) > 0 {
		// error already logged; memory stays authoritative
		_ = s.persistLocked(ctx)
	}
	return cmds
}

func (s *Scheduler) indexLocked(id uint32) int {
	for i := range s.timers {
		if s.timers[i].ID == id {
			return i
		}
	}
	return -1
}

// nextIDLocked returns max(id)+1, or the smallest free id if that would wrap.
func (s *Scheduler) nextIDLocked() uint32 {
	var highest uint32
	for _, t := range s.timers {
		if t.ID > highest {
			highest = t.ID
		}
	}
	if highest < math.MaxUint32 {
		return highest + 1
	}
	for id := uint32(1); ; id++ {
		if s.indexLocked(id) < 0 {
			return id
		}
	}
}

func (s *Scheduler) persistLocked(ctx context.Context) error {
	if err := s.repo.SaveTimers(ctx, s.timers); err != nil {
		s.log.Errorw("store_save_failed", "collection", repository.CollectionTimers, "error", err)
		return fmt.Errorf("save timers: %w: %w", ErrPersistence, err)
	}
	return nil
}

func validateTimer(t models.Timer) error {
	if !validChannel(t.RelayID) {
		return fmt.Errorf("%w: relayId %d", ErrInvalidChannel, t.RelayID)
	}
	if t.Hour < 0 || t.Hour > 23 || t.Minute < 0 || t.Minute > 59 {
		return fmt.Errorf("%w: %02d:%02d", ErrInvalidTimeOfDay, t.Hour, t.Minute)
	}
	if !t.Repeat.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidRepeatMode, t.Repeat)
	}
	return nil
}
