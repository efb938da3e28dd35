package domain

import "time"

// Clock supplies the reference date that derived fields are computed against.
type Clock interface {
	Today() CalendarDate
}

// SystemClock reads the wall clock in Location (UTC when nil).
type SystemClock struct {
	Location *time.Location
}

// Today returns the current calendar day.
func (c SystemClock) Today() CalendarDate {
	loc := c.Location
	if loc == nil {
		loc = time.UTC
	}
	return DateOf(time.Now().In(loc))
}

// FixedClock always reports the same day.
type FixedClock CalendarDate

// Today returns the fixed day.
func (c FixedClock) Today() CalendarDate {
	return CalendarDate(c)
}
