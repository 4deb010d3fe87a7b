package service

import (
	"time"

	"power_relay/internal/models"
)

// IsWeekday reports Monday through Friday.
func IsWeekday(d time.Weekday) bool {
	return d >= time.Monday && d <= time.Friday
}

// IsWeekend reports Saturday and Sunday.
func IsWeekend(d time.Weekday) bool {
	return d == time.Saturday || d == time.Sunday
}

// InMask reports whether bit d (0 = Sunday) is set in mask.
func InMask(mask uint8, d time.Weekday) bool {
	return mask&(1<<uint(d)) != 0
}

// repeatAllows applies the repeat predicate of t for weekday d.
func repeatAllows(t models.Timer, d time.Weekday) bool {
	switch t.Repeat {
	case models.RepeatOnce:
		return t.LastTriggered == 0
	case models.RepeatDaily:
		return true
	case models.RepeatWeekday:
		return IsWeekday(d)
	case models.RepeatWeekend:
		return IsWeekend(d)
	case models.RepeatCustom:
		return InMask(t.Weekdays, d)
	default:
		return false
	}
}
