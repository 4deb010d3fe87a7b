package hardware

import (
	"errors"
	"testing"
	"time"
)

func TestSystemClock(t *testing.T) {
	plus8 := time.FixedZone("UTC+8", 8*3600)
	c := NewSystemClock(plus8)

	c.now = func() time.Time { return time.Date(1970, 1, 1, 0, 0, 5, 0, time.UTC) }
	if _, err := c.Now(); !errors.Is(err, ErrClockNotSynced) {
		t.Fatalf("unsynced clock: err = %v", err)
	}

	c.now = func() time.Time { return time.Date(2025, time.June, 1, 23, 30, 0, 0, time.UTC) }
	got, err := c.Now()
	if err != nil {
		t.Fatalf("Now: %v", err)
	}
	if got.Location() != plus8 || got.Day() != 2 || got.Hour() != 7 {
		t.Fatalf("Now = %v, want 2025-06-02 07:30 +08", got)
	}

	if NewSystemClock(nil).loc != time.UTC {
		t.Fatal("nil location should default to UTC")
	}
}

func TestMemoryRelays(t *testing.T) {
	r := NewMemoryRelays()

	if err := r.Set(1, true); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := r.Set(3, true); !errors.Is(err, ErrInvalidChannel) {
		t.Fatalf("Set(3) err = %v", err)
	}
	r.SetError = errors.New("line busy")
	if err := r.Set(0, true); err == nil {
		t.Fatal("expected injected error")
	}

	st := r.States()
	if st[0] || !st[1] || st[2] {
		t.Fatalf("States = %v", st)
	}
	if r.Calls[1] != 1 || r.Calls[0] != 0 {
		t.Fatalf("Calls = %v", r.Calls)
	}
	_ = r.Close()
	if !r.Closed {
		t.Fatal("Close not recorded")
	}
}

func TestMemoryPD(t *testing.T) {
	pd := &MemoryPD{}
	if _, ok := pd.Last(); ok {
		t.Fatal("nothing applied yet")
	}
	_ = pd.Apply([3]bool{true, true, true})
	_ = pd.Apply([3]bool{false, false, true})

	last, ok := pd.Last()
	if !ok || last != [3]bool{false, false, true} || len(pd.Applied) != 2 {
		t.Fatalf("Last = %v, %v (applied %d)", last, ok, len(pd.Applied))
	}

	pd.ApplyError = errors.New("no pd board")
	if err := pd.Apply([3]bool{}); err == nil || len(pd.Applied) != 2 {
		t.Fatalf("failed Apply must not record: err=%v applied=%d", err, len(pd.Applied))
	}
}
