package utils

import "time"

// Clock is the single time source of the sync core. All persisted
// timestamps come from it so that watermarks stay comparable.
type Clock interface {
	Now() time.Time
}

// SystemClock returns the wall clock in UTC truncated to microseconds,
// the finest precision both PostgreSQL and SQLite round-trip.
type SystemClock struct{}

func NewSystemClock() SystemClock {
	return SystemClock{}
}

func (SystemClock) Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// ClockFunc adapts an ordinary function to the Clock interface.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time {
	return f()
}
