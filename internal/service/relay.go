package service

import (
	"context"
	"fmt"

	"power_relay/internal/hardware"
	"power_relay/internal/logger"
	"power_relay/internal/models"
)

// tripClearer is the part of the watchdog the relay path touches.
type tripClearer interface {
	Clear(channel int)
}

// RelayService is the single path through which relays change state.
type RelayService struct {
	driver   hardware.RelayDriver
	watchdog tripClearer
	events   *EventRecorder
	log      *logger.Logger
}

func NewRelayService(driver hardware.RelayDriver, watchdog tripClearer, events *EventRecorder, log *logger.Logger) *RelayService {
	return &RelayService{driver: driver, watchdog: watchdog, events: events, log: log.Named("relay")}
}

func (s *RelayService) States() [models.ChannelCount]bool {
	return s.driver.States()
}

// Set is the manual path used by the API.
func (s *RelayService) Set(ctx context.Context, channel int, on bool) error {
	return s.Apply(ctx, Command{Channel: channel, On: on}, SourceManual)
}

// Apply drives the relay for cmd. Every source except protection clears the
// channel's protection trip, even when the relay already had that state.
func (s *RelayService) Apply(ctx context.Context, cmd Command, src Source) error {
	if !validChannel(cmd.Channel) {
		return fmt.Errorf("%w: %d", ErrInvalidChannel, cmd.Channel)
	}

	prev := s.driver.States()[cmd.Channel]
	if err := s.driver.Set(cmd.Channel, cmd.On); err != nil {
		s.log.Errorw("relay_set_failed", "channel", cmd.Channel, "on", cmd.On, "source", string(src), "error", err)
		s.events.Record(ctx, models.EventError, fmt.Sprintf("Relay %d could not be switched", cmd.Channel+1), map[string]any{
			"channel": cmd.Channel,
			"on":      cmd.On,
			"source":  string(src),
			"error":   err.Error(),
		})
		return fmt.Errorf("set relay %d: %w", cmd.Channel, err)
	}

	if src != SourceProtection {
		s.watchdog.Clear(cmd.Channel)
	}

	s.log.Infow("relay_set", "channel", cmd.Channel, "on", cmd.On, "source", string(src))
	s.events.Record(ctx, string(src), relayDescription(cmd, src), map[string]any{
		"channel": cmd.Channel,
		"from":    prev,
		"to":      cmd.On,
	})
	return nil
}

func relayDescription(cmd Command, src Source) string {
	state := "OFF"
	if cmd.On {
		state = "ON"
	}
	switch src {
	case SourceTimer:
		return fmt.Sprintf("Timer switched relay %d %s", cmd.Channel+1, state)
	case SourceProtection:
		return fmt.Sprintf("Over-current protection switched relay %d %s", cmd.Channel+1, state)
	default:
		return fmt.Sprintf("Relay %d switched %s", cmd.Channel+1, state)
	}
}
