package hardware

import (
	"errors"
	"time"
)

// ErrClockNotSynced is returned while the wall clock still reads a time
// before minValidTime, e.g. on a board without RTC that has not reached NTP yet.
var ErrClockNotSynced = errors.New("clock: not synchronized")

var minValidTime = time.Date(2021, time.January, 1, 0, 0, 0, 0, time.UTC)

// Clock supplies local wall-clock time for timer evaluation.
type Clock interface {
	Now() (time.Time, error)
}

// SystemClock reads the host clock and converts it to a fixed location.
type SystemClock struct {
	loc *time.Location
	now func() time.Time
}

func NewSystemClock(loc *time.Location) *SystemClock {
	if loc == nil {
		loc = time.UTC
	}
	return &SystemClock{loc: loc, now: time.Now}
}

func (c *SystemClock) Now() (time.Time, error) {
	t := c.now()
	if t.Before(minValidTime) {
		return time.Time{}, ErrClockNotSynced
	}
	return t.In(c.loc), nil
}

// FixedClock always returns T, or Err when set.
type FixedClock struct {
	T   time.Time
	Err error
}

func (c *FixedClock) Now() (time.Time, error) {
	if c.Err != nil {
		return time.Time{}, c.Err
	}
	return c.T, nil
}
