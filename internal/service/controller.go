package service

import (
	"context"
	"errors"
	"time"

	"power_relay/internal/hardware"
	"power_relay/internal/logger"
	"power_relay/internal/models"
)

// actuator applies relay commands on behalf of a source.
type actuator interface {
	States() [models.ChannelCount]bool
	Apply(ctx context.Context, cmd Command, src Source) error
}

type observer interface {
	Observe(readings [models.ChannelCount]models.PowerReading, at time.Time)
}

// ControllerService is the host loop: it samples the power monitor and the
// clock, runs the watchdog then the scheduler, and applies their commands.
type ControllerService struct {
	clock     hardware.Clock
	monitor   hardware.PowerMonitor
	relays    actuator
	watchdog  *Watchdog
	scheduler *Scheduler
	observer  observer
	log       *logger.Logger
}

func NewControllerService(
	clock hardware.Clock,
	monitor hardware.PowerMonitor,
	relays actuator,
	watchdog *Watchdog,
	scheduler *Scheduler,
	observer observer,
	log *logger.Logger,
) *ControllerService {
	return &ControllerService{
		clock:     clock,
		monitor:   monitor,
		relays:    relays,
		watchdog:  watchdog,
		scheduler: scheduler,
		observer:  observer,
		log:       log.Named("controller"),
	}
}

// Run ticks at the given interval until ctx is canceled.
func (c *ControllerService) Run(ctx context.Context, tick time.Duration) {
	t := time.NewTicker(tick)
	defer t.Stop()
	c.log.Infow("controller_started", "tick", tick.String())
	for {
		select {
		case <-ctx.Done():
			c.log.Infow("controller_stopped")
			return
		case now := <-t.C:
			c.Step(ctx, now)
		}
	}
}

// Step runs one cycle. A failed power read skips the watchdog; an
// unsynchronized clock skips the scheduler.
func (c *ControllerService) Step(ctx context.Context, at time.Time) {
	readings, err := c.monitor.Read()
	if err != nil {
		c.log.Warnw("power_read_failed", "error", err)
	} else {
		c.observer.Observe(readings, at)
		var currents [models.ChannelCount]float64
		for ch, r := range readings {
			currents[ch] = r.Current
		}
		for _, cmd := range c.watchdog.Tick(currents, c.relays.States()) {
			c.apply(ctx, cmd, SourceProtection)
		}
	}

	now, err := c.clock.Now()
	if err != nil {
		if errors.Is(err, hardware.ErrClockNotSynced) {
			c.log.Debugw("clock_not_synced")
		} else {
			c.log.Warnw("clock_read_failed", "error", err)
		}
		return
	}
	for _, cmd := range c.scheduler.Tick(ctx, now, c.relays.States()) {
		c.apply(ctx, cmd, SourceTimer)
	}
}

func (c *ControllerService) apply(ctx context.Context, cmd Command, src Source) {
	if err := c.relays.Apply(ctx, cmd, src); err != nil {
		c.log.Errorw("command_failed", "channel", cmd.Channel, "on", cmd.On, "source", string(src), "error", err)
	}
}
