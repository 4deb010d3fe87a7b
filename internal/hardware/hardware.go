// Package hardware abstracts the board: relay outputs, the USB-PD trigger
// lines, the three-channel power monitor and the wall clock.
// Real implementations drive the Linux GPIO character device; the in-memory
// and simulated ones back tests and --simulate runs.
package hardware

import (
	"errors"

	"power_relay/internal/models"
)

// ErrInvalidChannel is returned for channel indexes outside 0..ChannelCount-1.
var ErrInvalidChannel = errors.New("hardware: invalid channel")

// RelayDriver switches relays and reports their current state.
type RelayDriver interface {
	// Set drives channel to on/off.
	Set(channel int, on bool) error
	// States returns the last state driven on every channel.
	States() [models.ChannelCount]bool
	// Close releases the underlying lines.
	Close() error
}

// PDController applies a CFG1..CFG3 bit pattern to the PD trigger board.
type PDController interface {
	Apply(cfg [3]bool) error
	Close() error
}

// PowerMonitor samples current, bus voltage and power for every channel.
type PowerMonitor interface {
	Read() ([models.ChannelCount]models.PowerReading, error)
}

func validChannel(ch int) bool {
	return ch >= 0 && ch < models.ChannelCount
}
