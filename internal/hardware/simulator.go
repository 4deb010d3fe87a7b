package hardware

import (
	"sync"
	"time"

	"power_relay/internal/models"
)

// Simulation constants.
const (
	RampUpMAPerSec   = 400.0 // mA per second while a load spins up
	RampDownMAPerSec = 800.0 // mA per second after the relay opens
	DefaultBusV      = 5.0
)

// Simulator is a PowerMonitor that derives per-channel draw from the relay
// states: a closed relay ramps toward its configured load, an open one
// decays to zero.
type Simulator struct {
	mu      sync.Mutex
	relays  RelayDriver
	loads   [models.ChannelCount]float64
	busV    float64
	current [models.ChannelCount]float64
	last    time.Time
	now     func() time.Time
}

// NewSimulator returns a simulator over relays. Missing loads default to 0.
func NewSimulator(relays RelayDriver, loadsMA []float64, busV float64) *Simulator {
	s := &Simulator{relays: relays, busV: busV, now: time.Now}
	if s.busV <= 0 {
		s.busV = DefaultBusV
	}
	for i := 0; i < models.ChannelCount && i < len(loadsMA); i++ {
		s.loads[i] = loadsMA[i]
	}
	return s
}

// SetLoad changes the draw a channel settles at when its relay is closed.
func (s *Simulator) SetLoad(channel int, mA float64) error {
	if !validChannel(channel) {
		return ErrInvalidChannel
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loads[channel] = mA
	return nil
}

// SetBusVoltage follows the PD trigger level.
func (s *Simulator) SetBusVoltage(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.busV = v
}

// Read advances the simulation to now and returns one reading per channel.
func (s *Simulator) Read() ([models.ChannelCount]models.PowerReading, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	elapsed := 0.0
	if !s.last.IsZero() {
		elapsed = now.Sub(s.last).Seconds()
	}
	s.last = now

	states := s.relays.States()
	var out [models.ChannelCount]models.PowerReading
	for ch := range out {
		target := 0.0
		if states[ch] {
			target = s.loads[ch]
		}
		s.current[ch] = approach(s.current[ch], target, elapsed)

		v := 0.0
		if states[ch] {
			v = s.busV
		}
		out[ch] = models.PowerReading{
			Channel: ch + 1,
			Current: s.current[ch],
			Voltage: v,
			Power:   v * s.current[ch] / 1000,
		}
	}
	return out, nil
}

// approach moves cur toward target by the ramp rate for elapsed seconds.
// The first sample (elapsed 0) jumps straight to target.
func approach(cur, target, elapsed float64) float64 {
	if elapsed <= 0 {
		return target
	}
	if cur < target {
		return minFloat(cur+RampUpMAPerSec*elapsed, target)
	}
	if cur > target {
		return maxFloat(cur-RampDownMAPerSec*elapsed, target)
	}
	return cur
}

func minFloat(a, b float64) float64 {
	if a <= b {
		return a
	}
	return b
}

func maxFloat(a, b float64) float64 {
	if a >= b {
		return a
	}
	return b
}
