package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// isoDate is the layout CalendarDate parses and prints.
const isoDate = "2006-01-02"

// CalendarDate is a (year, month, day) triple without a time of day or zone.
// Values are only produced by ParseDate, DateOf and NewDate, so a non-zero
// CalendarDate is always a real calendar day.
type CalendarDate struct {
	year  int
	month time.Month
	day   int
}

// NewDate returns the date for year, month and day, or ErrInvalidDate when the
// triple does not name an existing day (e.g. 2021-02-29).
func NewDate(year int, month time.Month, day int) (CalendarDate, error) {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != month || t.Day() != day {
		return CalendarDate{}, NewDomainError(ErrInvalidDate, "day does not exist",
			fmt.Sprintf("%04d-%02d-%02d", year, int(month), day))
	}
	return CalendarDate{year: year, month: month, day: day}, nil
}

// MustDate is NewDate for constants known to be valid. It panics otherwise.
func MustDate(year int, month time.Month, day int) CalendarDate {
	d, err := NewDate(year, month, day)
	if err != nil {
		panic(err)
	}
	return d
}

// DateOf returns the calendar day of t in t's own location.
func DateOf(t time.Time) CalendarDate {
	return CalendarDate{year: t.Year(), month: t.Month(), day: t.Day()}
}

// ParseDate parses an ISO-8601 calendar date ("1993-07-20"). A full RFC 3339
// timestamp is accepted too; its date part in its own offset is used.
func ParseDate(s string) (CalendarDate, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(isoDate, s); err == nil {
		return DateOf(t), nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return DateOf(t), nil
	}
	return CalendarDate{}, NewDomainError(ErrInvalidDate, "expected YYYY-MM-DD", s)
}

// Year returns the year.
func (d CalendarDate) Year() int { return d.year }

// Month returns the month.
func (d CalendarDate) Month() time.Month { return d.month }

// Day returns the day of the month.
func (d CalendarDate) Day() int { return d.day }

// IsZero reports whether d is the zero value (no date).
func (d CalendarDate) IsZero() bool {
	return d.year == 0 && d.month == 0 && d.day == 0
}

// Time returns midnight UTC of d.
func (d CalendarDate) Time() time.Time {
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, time.UTC)
}

// String returns the ISO form of d.
func (d CalendarDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.year, int(d.month), d.day)
}

// Before reports whether d is earlier than other.
func (d CalendarDate) Before(other CalendarDate) bool {
	return d.Time().Before(other.Time())
}

// After reports whether d is later than other.
func (d CalendarDate) After(other CalendarDate) bool {
	return d.Time().After(other.Time())
}

// Age returns the number of whole years from d to today: the year difference,
// minus one when today's (month, day) precedes d's.
func (d CalendarDate) Age(today CalendarDate) int {
	years := today.year - d.year
	if monthDayBefore(today, d) {
		years--
	}
	return years
}

// YearsBetween returns the number of whole years between d and other. The
// result does not depend on argument order and is never negative.
func (d CalendarDate) YearsBetween(other CalendarDate) int {
	if other.Before(d) {
		return other.Age(d)
	}
	return d.Age(other)
}

// DaysToAnniversary returns the number of days from today until the next
// recurrence of d's (month, day). It is 0 on the anniversary itself.
// February 29 falls on February 28 in years without it.
func (d CalendarDate) DaysToAnniversary(today CalendarDate) int {
	year := today.year
	occurred := (today.month == d.month && today.day > d.day) || today.month > d.month
	if occurred {
		year++
	}
	return daysBetween(today, d.anniversaryIn(year))
}

// anniversaryIn returns the recurrence of d in year.
func (d CalendarDate) anniversaryIn(year int) CalendarDate {
	if d.month == time.February && d.day == 29 && !isLeap(year) {
		return CalendarDate{year: year, month: time.February, day: 28}
	}
	return CalendarDate{year: year, month: d.month, day: d.day}
}

// MarshalJSON encodes d as an ISO date string.
func (d CalendarDate) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

// UnmarshalJSON decodes an ISO date string.
func (d *CalendarDate) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = CalendarDate{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return NewDomainError(ErrInvalidDate, err.Error(), string(data))
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// monthDayBefore compares (month, day) pairs lexicographically.
func monthDayBefore(a, b CalendarDate) bool {
	if a.month != b.month {
		return a.month < b.month
	}
	return a.day < b.day
}

func daysBetween(from, to CalendarDate) int {
	return int(to.Time().Sub(from.Time()).Hours() / 24)
}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}
