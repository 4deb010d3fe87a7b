package service

import (
	"context"
	"testing"
	"time"

	"power_relay/internal/models"
)

type stubRelayStater struct{ states [models.ChannelCount]bool }

func (s stubRelayStater) States() [models.ChannelCount]bool { return s.states }

type stubProtection struct{ status []models.ChannelProtection }

func (s stubProtection) Status() []models.ChannelProtection { return s.status }

type stubVoltage struct{ v int }

func (s stubVoltage) Get() int { return s.v }

func TestMonitoringService_GetStatus(t *testing.T) {
	t.Parallel()

	prot := []models.ChannelProtection{{Channel: 0, Limit: 500, Triggered: true}}
	svc := NewMonitoringService(stubRelayStater{[models.ChannelCount]bool{true, false, true}}, stubProtection{prot}, stubVoltage{12}, "v1.2.3")

	start := time.Date(2025, time.May, 1, 10, 0, 0, 0, time.UTC)
	svc.started = start
	svc.now = func() time.Time { return start.Add(90 * time.Second) }

	sampleAt := time.Date(2025, time.May, 1, 18, 1, 0, 0, time.FixedZone("UTC+8", 8*3600))
	readings := [models.ChannelCount]models.PowerReading{
		{Channel: 1, Current: 350, Voltage: 12, Power: 4.2},
		{Channel: 2},
		{Channel: 3, Current: 120, Voltage: 12, Power: 1.44},
	}
	svc.Observe(readings, sampleAt)

	st, err := svc.GetStatus(context.Background())
	if err != nil {
		t.Fatalf("GetStatus: %v", err)
	}
	if len(st.Relays) != 3 || !st.Relays[0] || st.Relays[1] || !st.Relays[2] {
		t.Fatalf("relays = %v", st.Relays)
	}
	if len(st.Power) != 3 || st.Power[0].Current != 350 || st.Power[2].Power != 1.44 {
		t.Fatalf("power = %+v", st.Power)
	}
	if len(st.Protection) != 1 || !st.Protection[0].Triggered {
		t.Fatalf("protection = %+v", st.Protection)
	}
	if st.Voltage != 12 || st.Version != "v1.2.3" || st.UptimeSeconds != 90 {
		t.Fatalf("voltage/version/uptime = %d/%q/%d", st.Voltage, st.Version, st.UptimeSeconds)
	}
	if st.UpdatedAt.Location() != time.UTC || !st.UpdatedAt.Equal(sampleAt) {
		t.Fatalf("UpdatedAt = %v, want %v in UTC", st.UpdatedAt, sampleAt)
	}
}

func TestMonitoringService_BeforeFirstSample(t *testing.T) {
	t.Parallel()

	svc := NewMonitoringService(stubRelayStater{}, stubProtection{}, stubVoltage{5}, "")
	now := time.Date(2025, time.May, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	st, err := svc.GetStatus(context.Background())
	if err != nil {
		t.Fatalf("GetStatus: %v", err)
	}
	if !st.UpdatedAt.Equal(now) {
		t.Fatalf("UpdatedAt = %v, want now", st.UpdatedAt)
	}
	r := svc.Readings()
	for ch, reading := range r {
		if reading.Channel != ch+1 || reading.Current != 0 {
			t.Fatalf("baseline reading %d = %+v", ch, reading)
		}
	}
}

func TestMonitoringService_CanceledContext(t *testing.T) {
	t.Parallel()

	svc := NewMonitoringService(stubRelayStater{}, stubProtection{}, stubVoltage{5}, "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := svc.GetStatus(ctx); err == nil {
		t.Fatal("expected context error")
	}
}
