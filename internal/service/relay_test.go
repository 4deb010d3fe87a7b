package service

import (
	"context"
	"errors"
	"testing"

	"power_relay/internal/hardware"
	"power_relay/internal/models"
)

type relayFixture struct {
	svc      *RelayService
	driver   *hardware.MemoryRelays
	watchdog *Watchdog
	events   *fakeEventRepo
}

func newRelayFixture(t *testing.T) *relayFixture {
	t.Helper()
	driver := hardware.NewMemoryRelays()
	events := &fakeEventRepo{}
	w, _ := newTestWatchdog(t, [models.ChannelCount]uint16{500, 500, 500})
	return &relayFixture{
		svc:      NewRelayService(driver, w, NewEventRecorder(events, nil, nil), nil),
		driver:   driver,
		watchdog: w,
		events:   events,
	}
}

func TestRelayService_SetDrivesRelayAndRecords(t *testing.T) {
	f := newRelayFixture(t)

	if err := f.svc.Set(context.Background(), 2, true); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if st := f.svc.States(); !st[2] {
		t.Fatalf("states = %v", st)
	}
	if len(f.events.appended) != 1 {
		t.Fatalf("expected one event, got %d", len(f.events.appended))
	}
	e := f.events.appended[0]
	if e.Type != models.EventRelay || e.Description != "Relay 3 switched ON" {
		t.Fatalf("event = %+v", e)
	}
}

func TestRelayService_ManualUpdateClearsTrip(t *testing.T) {
	f := newRelayFixture(t)
	ctx := context.Background()
	_ = f.driver.Set(0, true)

	f.watchdog.Tick([models.ChannelCount]float64{700, 0, 0}, f.svc.States())
	if !f.watchdog.Triggered(0) {
		t.Fatal("expected trip")
	}

	// reopened by the user while the load still draws 700mA
	if err := f.svc.Set(ctx, 0, true); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if f.watchdog.Triggered(0) {
		t.Fatal("manual relay update must clear the trip flag")
	}
}

func TestRelayService_TimerUpdateClearsTrip(t *testing.T) {
	f := newRelayFixture(t)
	f.watchdog.Tick([models.ChannelCount]float64{0, 900, 0}, f.svc.States())

	if err := f.svc.Apply(context.Background(), Command{Channel: 1, On: false}, SourceTimer); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if f.watchdog.Triggered(1) {
		t.Fatal("timer relay update must clear the trip flag")
	}
	if got := f.events.appended[0].Type; got != models.EventTimer {
		t.Fatalf("event type = %q", got)
	}
}

func TestRelayService_ProtectionCommandKeepsTrip(t *testing.T) {
	f := newRelayFixture(t)
	_ = f.driver.Set(0, true)

	for _, cmd := range f.watchdog.Tick([models.ChannelCount]float64{800, 0, 0}, f.svc.States()) {
		if err := f.svc.Apply(context.Background(), cmd, SourceProtection); err != nil {
			t.Fatalf("Apply: %v", err)
		}
	}
	if st := f.svc.States(); st[0] {
		t.Fatal("protection must open the relay")
	}
	if !f.watchdog.Triggered(0) {
		t.Fatal("the forced OFF must not clear its own trip")
	}
	if got := f.events.appended[0].Type; got != models.EventProtection {
		t.Fatalf("event type = %q", got)
	}
}

func TestRelayService_InvalidChannel(t *testing.T) {
	f := newRelayFixture(t)
	if err := f.svc.Set(context.Background(), 3, true); !errors.Is(err, ErrInvalidChannel) {
		t.Fatalf("expected ErrInvalidChannel, got %v", err)
	}
	if len(f.events.appended) != 0 {
		t.Fatal("rejected command must not be recorded")
	}
}

func TestRelayService_DriverFailure(t *testing.T) {
	f := newRelayFixture(t)
	f.watchdog.Tick([models.ChannelCount]float64{600, 0, 0}, f.svc.States())
	f.driver.SetError = errors.New("line busy")

	err := f.svc.Set(context.Background(), 0, true)
	if !errors.Is(err, f.driver.SetError) {
		t.Fatalf("expected driver error, got %v", err)
	}
	if !f.watchdog.Triggered(0) {
		t.Fatal("a failed update must not clear the trip")
	}
	if len(f.events.appended) != 1 || f.events.appended[0].Type != models.EventError {
		t.Fatalf("expected one ERROR event, got %+v", f.events.appended)
	}
}
