package hardware

import (
	"sync"

	"power_relay/internal/models"
)

// MemoryRelays is an in-memory RelayDriver.
type MemoryRelays struct {
	mu     sync.Mutex
	states [models.ChannelCount]bool

	// SetError, if set, is returned by Set without changing state.
	SetError error
	// Calls counts successful Set calls per channel.
	Calls [models.ChannelCount]int
	// Closed tracks if Close was called.
	Closed bool
}

func NewMemoryRelays() *MemoryRelays {
	return &MemoryRelays{}
}

func (m *MemoryRelays) Set(channel int, on bool) error {
	if !validChannel(channel) {
		return ErrInvalidChannel
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SetError != nil {
		return m.SetError
	}
	m.states[channel] = on
	m.Calls[channel]++
	return nil
}

func (m *MemoryRelays) States() [models.ChannelCount]bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.states
}

func (m *MemoryRelays) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closed = true
	return nil
}

// MemoryPD records the last applied PD pattern.
type MemoryPD struct {
	mu      sync.Mutex
	Applied [][3]bool
	// ApplyError, if set, is returned by Apply.
	ApplyError error
}

func (m *MemoryPD) Apply(cfg [3]bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ApplyError != nil {
		return m.ApplyError
	}
	m.Applied = append(m.Applied, cfg)
	return nil
}

// Last returns the most recently applied pattern and whether any was applied.
func (m *MemoryPD) Last() ([3]bool, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Applied) == 0 {
		return [3]bool{}, false
	}
	return m.Applied[len(m.Applied)-1], true
}

func (m *MemoryPD) Close() error { return nil }
