package booking

import (
	"errors"
	"time"
)

var (
	ErrWindowInverted = errors.New("end time must be after start time")
	ErrWindowInPast   = errors.New("start time must be in the future")
)

// Overlaps reports whether two half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. Touching endpoints do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// ValidateWindow checks the requested booking window against the clock.
func ValidateWindow(now, start, end time.Time) error {
	if !end.After(start) {
		return ErrWindowInverted
	}
	if !start.After(now) {
		return ErrWindowInPast
	}
	return nil
}
