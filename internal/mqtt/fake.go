package mqtt

import (
	"sync"

	"power_relay/internal/models"
)

// FakePublisher records published messages for test assertions.
type FakePublisher struct {
	mu sync.Mutex

	// Power contains every published sample.
	Power [][models.ChannelCount]models.PowerReading
	// PowerPayloads contains the JSON payloads for samples.
	PowerPayloads [][]byte
	// Events contains every published event.
	Events []models.RelayEvent
	// EventPayloads contains the JSON payloads for events.
	EventPayloads [][]byte

	// PublishError, if set, is returned by both publish calls.
	PublishError error
	// Closed tracks if Close was called.
	Closed bool
}

func NewFakePublisher() *FakePublisher {
	return &FakePublisher{}
}

func (f *FakePublisher) PublishPower(readings [models.ChannelCount]models.PowerReading) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.PublishError != nil {
		return f.PublishError
	}
	payload, err := FormatPowerPayload(readings)
	if err != nil {
		return err
	}
	f.Power = append(f.Power, readings)
	f.PowerPayloads = append(f.PowerPayloads, payload)
	return nil
}

func (f *FakePublisher) PublishEvent(e models.RelayEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.PublishError != nil {
		return f.PublishError
	}
	payload, err := FormatEventPayload(e)
	if err != nil {
		return err
	}
	f.Events = append(f.Events, e)
	f.EventPayloads = append(f.EventPayloads, payload)
	return nil
}

func (f *FakePublisher) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Closed = true
	return nil
}

// PowerCount returns the number of recorded samples.
func (f *FakePublisher) PowerCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Power)
}
