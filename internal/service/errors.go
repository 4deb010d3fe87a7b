package service

import "errors"

var (
	ErrCapacityExceeded  = errors.New("timer capacity exceeded")
	ErrDuplicateID       = errors.New("timer id already exists")
	ErrInvalidChannel    = errors.New("invalid channel")
	ErrNotFound          = errors.New("not found")
	ErrPersistence       = errors.New("persistence failed")
	ErrInvalidTimeOfDay  = errors.New("invalid time of day")
	ErrInvalidRepeatMode = errors.New("invalid repeat mode")
	ErrInvalidVoltage    = errors.New("invalid voltage: must be 5, 9, 12, 15 or 20")
)

// IsValidation reports whether err is a rejected input rather than a failure.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidChannel) ||
		errors.Is(err, ErrInvalidTimeOfDay) ||
		errors.Is(err, ErrInvalidRepeatMode) ||
		errors.Is(err, ErrInvalidVoltage) ||
		errors.Is(err, ErrInvalidEventType) ||
		errors.Is(err, errInvalidTimeRange)
}
