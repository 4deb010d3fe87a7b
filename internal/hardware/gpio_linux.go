//go:build linux

package hardware

import (
	"fmt"
	"sync"

	"github.com/warthog618/go-gpiocdev"

	"power_relay/internal/models"
)

// GPIORelays drives relay coils through the GPIO character device.
// Relays are active high and start OFF.
type GPIORelays struct {
	mu     sync.Mutex
	chip   *gpiocdev.Chip
	lines  [models.ChannelCount]*gpiocdev.Line
	states [models.ChannelCount]bool
}

// NewGPIORelays requests one output line per relay on chipName.
func NewGPIORelays(chipName string, pins []int) (*GPIORelays, error) {
	if len(pins) != models.ChannelCount {
		return nil, fmt.Errorf("need %d relay pins, got %d", models.ChannelCount, len(pins))
	}
	chip, err := gpiocdev.NewChip(chipName, gpiocdev.WithConsumer("power_relay"))
	if err != nil {
		return nil, fmt.Errorf("open gpio chip %s: %w", chipName, err)
	}

	r := &GPIORelays{chip: chip}
	for i, pin := range pins {
		line, err := chip.RequestLine(pin, gpiocdev.AsOutput(0))
		if err != nil {
			_ = r.Close()
			return nil, fmt.Errorf("request relay %d pin %d: %w", i+1, pin, err)
		}
		r.lines[i] = line
	}
	return r, nil
}

func (r *GPIORelays) Set(channel int, on bool) error {
	if !validChannel(channel) {
		return ErrInvalidChannel
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	v := 0
	if on {
		v = 1
	}
	if err := r.lines[channel].SetValue(v); err != nil {
		return fmt.Errorf("set relay %d: %w", channel+1, err)
	}
	r.states[channel] = on
	return nil
}

func (r *GPIORelays) States() [models.ChannelCount]bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.states
}

// Close drives every relay OFF, then releases the lines and the chip.
func (r *GPIORelays) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for i, line := range r.lines {
		if line == nil {
			continue
		}
		if err := line.SetValue(0); err != nil {
			errs = append(errs, fmt.Errorf("release relay %d: %w", i+1, err))
		}
		if err := line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close relay %d: %w", i+1, err))
		}
		r.lines[i] = nil
	}
	if r.chip != nil {
		if err := r.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
		r.chip = nil
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

// GPIOPD drives the CFG1..CFG3 lines of the PD trigger board.
type GPIOPD struct {
	chip  *gpiocdev.Chip
	lines *gpiocdev.Lines
}

// NewGPIOPD requests the three CFG lines as one output group.
func NewGPIOPD(chipName string, pins []int) (*GPIOPD, error) {
	if len(pins) != 3 {
		return nil, fmt.Errorf("need 3 pd pins, got %d", len(pins))
	}
	chip, err := gpiocdev.NewChip(chipName, gpiocdev.WithConsumer("power_relay"))
	if err != nil {
		return nil, fmt.Errorf("open gpio chip %s: %w", chipName, err)
	}
	lines, err := chip.RequestLines(pins, gpiocdev.AsOutput(1, 1, 1))
	if err != nil {
		_ = chip.Close()
		return nil, fmt.Errorf("request pd pins %v: %w", pins, err)
	}
	return &GPIOPD{chip: chip, lines: lines}, nil
}

func (p *GPIOPD) Apply(cfg [3]bool) error {
	vals := make([]int, 3)
	for i, high := range cfg {
		if high {
			vals[i] = 1
		}
	}
	if err := p.lines.SetValues(vals); err != nil {
		return fmt.Errorf("set pd lines: %w", err)
	}
	return nil
}

func (p *GPIOPD) Close() error {
	var errs []error
	if err := p.lines.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close pd lines: %w", err))
	}
	if err := p.chip.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close chip: %w", err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
