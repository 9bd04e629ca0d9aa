package shared

import (
	"time"

	"cloud.google.com/go/civil"
)

// Clock supplies the current time. Only the outermost layers use SystemClock;
// everything below receives the clock so tests can pin it.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock
type SystemClock struct {
	Location *time.Location
}

// Now returns the current time in the configured location (UTC by default)
func (c SystemClock) Now() time.Time {
	loc := c.Location
	if loc == nil {
		loc = time.UTC
	}
	return time.Now().In(loc)
}

// FixedClock always returns the same instant
type FixedClock struct {
	At time.Time
}

// Now returns the fixed instant
func (c FixedClock) Now() time.Time {
	return c.At
}

// Today returns the calendar date of the clock's current instant
func Today(c Clock) civil.Date {
	return civil.DateOf(c.Now())
}
