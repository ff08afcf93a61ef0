// ABOUTME: Calendar date type used for follow-up and streak computations
// ABOUTME: Normalizes timestamps to YYYY-MM-DD in a configured time zone
package models

import (
	"fmt"
	"time"
)

// DateLayout is the wire and storage format for calendar dates.
const DateLayout = "2006-01-02"

// Date is a calendar day with no time-of-day or zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar date of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// NewDate builds a normalized date, so NewDate(2024, 1, 32) is February 1st.
func NewDate(year int, month time.Month, day int) Date {
	return DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// Time returns midnight UTC of the date.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Date) IsZero() bool {
	return d == Date{}
}

func (d Date) AddDays(n int) Date {
	return DateOf(d.Time().AddDate(0, 0, n))
}

// DaysSince returns the number of whole days from earlier to d.
func (d Date) DaysSince(earlier Date) int {
	return int(d.Time().Sub(earlier.Time()).Hours() / 24)
}

func (d Date) Before(other Date) bool {
	return d.Time().Before(other.Time())
}

func (d Date) After(other Date) bool {
	return d.Time().After(other.Time())
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Time().Format(DateLayout)
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(data []byte) error {
	if len(data) == 0 {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(string(data))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Calendar turns wall-clock time into calendar dates for one time zone.
type Calendar struct {
	Now      func() time.Time
	Location *time.Location
}

// NewCalendar returns a calendar on the system clock. A nil location means time.Local.
func NewCalendar(loc *time.Location) Calendar {
	if loc == nil {
		loc = time.Local
	}
	return Calendar{Now: time.Now, Location: loc}
}

// FixedCalendar always reports now. Used by tests and replays.
func FixedCalendar(now time.Time, loc *time.Location) Calendar {
	if loc == nil {
		loc = time.UTC
	}
	return Calendar{Now: func() time.Time { return now }, Location: loc}
}

// Today is the current calendar date in the calendar's zone.
func (c Calendar) Today() Date {
	return c.DateOf(c.now())
}

// DateOf converts t to the calendar's zone before truncating to a date.
func (c Calendar) DateOf(t time.Time) Date {
	loc := c.Location
	if loc == nil {
		loc = time.Local
	}
	return DateOf(t.In(loc))
}

func (c Calendar) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

// Clock returns the current instant.
func (c Calendar) Clock() time.Time {
	return c.now()
}
