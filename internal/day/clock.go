package day

import (
	"os"
	"time"
)

// TodayEnvVar pins the system clock's notion of today when set to YYYY-MM-DD.
const TodayEnvVar = "DAYBOOK_TODAY"

// Clock supplies the reference day and instant to the tracker.
type Clock interface {
	Today() Date
	Now() time.Time
}

// SystemClock reads the wall clock in Location (time.Local when nil).
type SystemClock struct {
	Location *time.Location
}

// Now returns the current instant.
func (c SystemClock) Now() time.Time {
	now := time.Now()
	if c.Location != nil {
		now = now.In(c.Location)
	}
	return now
}

// Today returns the current calendar day.
func (c SystemClock) Today() Date {
	return Of(c.Now())
}

// FixedClock always reports the same instant.
type FixedClock struct {
	At time.Time
}

// Now returns the fixed instant.
func (c FixedClock) Now() time.Time { return c.At }

// Today returns the day of the fixed instant.
func (c FixedClock) Today() Date { return Of(c.At) }

// FixedAt returns a clock pinned to noon UTC on d.
func FixedAt(d Date) FixedClock {
	return FixedClock{At: d.Time().Add(12 * time.Hour)}
}

// ClockFromEnv returns a clock pinned to $DAYBOOK_TODAY when it is set,
// and the system clock otherwise.
func ClockFromEnv() (Clock, error) {
	value := os.Getenv(TodayEnvVar)
	if value == "" {
		return SystemClock{}, nil
	}
	d, err := Parse(value)
	if err != nil {
		return nil, err
	}
	return FixedAt(d), nil
}
