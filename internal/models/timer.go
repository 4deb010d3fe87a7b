package models

// ChannelCount is the number of relay / current-monitor channels on the board.
const ChannelCount = 3

// MaxTimers bounds the number of live scheduled actions.
const MaxTimers = 10

// RepeatMode selects the days on which a timer's time-of-day match is honored.
// The numeric values are part of the persisted format.
type RepeatMode int

const (
	RepeatOnce RepeatMode = iota
	RepeatDaily
	RepeatWeekday
	RepeatWeekend
	RepeatCustom
)

var repeatModeNames = [...]string{"ONCE", "DAILY", "WEEKDAY", "WEEKEND", "CUSTOM"}

// Valid reports whether m is one of the known repeat modes.
func (m RepeatMode) Valid() bool {
	return m >= RepeatOnce && m <= RepeatCustom
}

func (m RepeatMode) String() string {
	if !m.Valid() {
		return "UNKNOWN"
	}
	return repeatModeNames[m]
}

// Timer is a scheduled relay action.
type Timer struct {
	ID            uint32     `json:"id"`
	RelayID       int        `json:"relayId"` // 0..ChannelCount-1
	Hour          int        `json:"hour"`    // 0-23
	Minute        int        `json:"minute"`  // 0-59
	Enabled       bool       `json:"enabled"`
	State         bool       `json:"state"`         // target: true = ON
	Repeat        RepeatMode `json:"repeat"`        // 0-4
	Weekdays      uint8      `json:"weekdays"`      // bit 0 = Sunday ... bit 6 = Saturday, CUSTOM only
	LastTriggered int64      `json:"lastTriggered"` // unix seconds, 0 = never
}

// TimerPatch carries a partial update; nil fields are left unchanged.
type TimerPatch struct {
	RelayID  *int        `json:"relayId,omitempty"`
	Hour     *int        `json:"hour,omitempty"`
	Minute   *int        `json:"minute,omitempty"`
	Enabled  *bool       `json:"enabled,omitempty"`
	State    *bool       `json:"state,omitempty"`
	Repeat   *RepeatMode `json:"repeat,omitempty"`
	Weekdays *uint8      `json:"weekdays,omitempty"`
}

// Apply merges the non-nil fields of p into t.
func (p TimerPatch) Apply(t Timer) Timer {
	if p.RelayID != nil {
		t.RelayID = *p.RelayID
	}
	if p.Hour != nil {
		t.Hour = *p.Hour
	}
	if p.Minute != nil {
		t.Minute = *p.Minute
	}
	if p.Enabled != nil {
		t.Enabled = *p.Enabled
	}
	if p.State != nil {
		t.State = *p.State
	}
	if p.Repeat != nil {
		t.Repeat = *p.Repeat
	}
	if p.Weekdays != nil {
		t.Weekdays = *p.Weekdays
	}
	return t
}
