//go:build !linux

package hardware

import (
	"errors"

	"power_relay/internal/models"
)

var errNoGPIO = errors.New("gpio: not supported on this platform (requires Linux)")

// GPIORelays is not available on non-Linux platforms.
type GPIORelays struct{}

func NewGPIORelays(chipName string, pins []int) (*GPIORelays, error) {
	return nil, errNoGPIO
}

func (r *GPIORelays) Set(channel int, on bool) error { return errNoGPIO }

func (r *GPIORelays) States() [models.ChannelCount]bool { return [models.ChannelCount]bool{} }

func (r *GPIORelays) Close() error { return nil }

// GPIOPD is not available on non-Linux platforms.
type GPIOPD struct{}

func NewGPIOPD(chipName string, pins []int) (*GPIOPD, error) {
	return nil, errNoGPIO
}

func (p *GPIOPD) Apply(cfg [3]bool) error { return errNoGPIO }

func (p *GPIOPD) Close() error { return nil }
