package service

import (
	"context"
	"fmt"
	"sync"

	"power_relay/internal/logger"
	"power_relay/internal/models"
	"power_relay/internal/repository"
)

// Watchdog force-opens a channel whose current exceeds its limit.
// A tripped channel stays tripped until Clear is called from the relay path.
type Watchdog struct {
	mu        sync.Mutex
	limits    [models.ChannelCount]uint16
	triggered [models.ChannelCount]bool
	last      [models.ChannelCount]float64

	repo repository.ProtectionRepo
	log  *logger.Logger
}

func NewWatchdog(repo repository.ProtectionRepo, log *logger.Logger) *Watchdog {
	return &Watchdog{repo: repo, log: log.Named("watchdog")}
}

// Load replaces the limits with the persisted ones.
func (w *Watchdog) Load(ctx context.Context) error {
	limits, err := w.repo.LoadLimits(ctx)
	if err != nil {
		return fmt.Errorf("load protection limits: %w", err)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.limits = limits.Array()
	return nil
}

// SetLimit sets one channel's ceiling in mA; 0 disables it.
func (w *Watchdog) SetLimit(ctx context.Context, channel int, mA uint16) error {
	if !validChannel(channel) {
		return fmt.Errorf("%w: %d", ErrInvalidChannel, channel)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.limits[channel] = mA
	w.log.Infow("protection_limit_set", "channel", channel, "limit_ma", mA)
	return w.persistLocked(ctx)
}

// SetLimits replaces all three ceilings and persists once.
func (w *Watchdog) SetLimits(ctx context.Context, limits [models.ChannelCount]uint16) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.limits = limits
	w.log.Infow("protection_limits_set", "limits_ma", limits)
	return w.persistLocked(ctx)
}

func (w *Watchdog) Limits() [models.ChannelCount]uint16 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.limits
}

// Triggered reports the sticky trip flag of channel.
func (w *Watchdog) Triggered(channel int) bool {
	if !validChannel(channel) {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.triggered[channel]
}

// Status returns limit, trip flag and last reading per channel.
func (w *Watchdog) Status() []models.ChannelProtection {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]models.ChannelProtection, models.ChannelCount)
	for ch := range out {
		out[ch] = models.ChannelProtection{
			Channel:   ch,
			Current:   w.last[ch],
			Limit:     w.limits[ch],
			Triggered: w.triggered[ch],
		}
	}
	return out
}

// Tick compares readings (mA) against the limits and returns an OFF command
// for every channel that trips on this call. Tripped channels are skipped.
func (w *Watchdog) Tick(readings [models.ChannelCount]float64, states [models.ChannelCount]bool) []Command {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.last = readings
	var cmds []Command
	for ch := 0; ch < models.ChannelCount; ch++ {
		limit := w.limits[ch]
		if limit == 0 || w.triggered[ch] {
			continue
		}
		if readings[ch] <= float64(limit) {
			continue
		}
		w.triggered[ch] = true
		cmds = append(cmds, Command{Channel: ch, On: false})
		w.log.Warnw("protection_tripped",
			"channel", ch,
			"current_ma", readings[ch],
			"limit_ma", limit,
			"relay_on", states[ch],
		)
	}
	return cmds
}

// Clear resets the trip flag of channel. Out-of-range channels are ignored.
func (w *Watchdog) Clear(channel int) {
	if !validChannel(channel) {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.triggered[channel] {
		w.log.Infow("protection_cleared", "channel", channel)
	}
	w.triggered[channel] = false
}

func (w *Watchdog) persistLocked(ctx context.Context) error {
	if err := w.repo.SaveLimits(ctx, models.LimitsFromArray(w.limits)); err != nil {
		w.log.Errorw("store_save_failed", "collection", repository.CollectionProtection, "error", err)
		return fmt.Errorf("save protection limits: %w: %w", ErrPersistence, err)
	}
	return nil
}

func validChannel(ch int) bool {
	return ch >= 0 && ch < models.ChannelCount
}
