package calendar

import (
	"fmt"
	"time"

	"github.com/username/fished/pkg/dateutil"
)

const dateLayout = "2006-01-02"

// CalendarDate is a timezone-naive civil day.
// The zero value is not a valid date; use NewDate, DateOf or ParseDate.
type CalendarDate struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate builds a CalendarDate, rejecting days that do not exist in the month
func NewDate(year int, month time.Month, day int) (CalendarDate, error) {
	if month < time.January || month > time.December {
		return CalendarDate{}, fmt.Errorf("invalid month %d", month)
	}
	if day < 1 || day > dateutil.DaysInMonth(year, month) {
		return CalendarDate{}, fmt.Errorf("invalid day %d for %d-%02d", day, year, month)
	}
	return CalendarDate{Year: year, Month: month, Day: day}, nil
}

// ClampedDate builds a CalendarDate, moving a day past the end of the month
// back to the month's last day.
func ClampedDate(year int, month time.Month, day int) CalendarDate {
	if last := dateutil.DaysInMonth(year, month); day > last {
		day = last
	}
	if day < 1 {
		day = 1
	}
	return CalendarDate{Year: year, Month: month, Day: day}
}

// DateOf returns the civil day of t in t's own location
func DateOf(t time.Time) CalendarDate {
	y, m, d := t.Date()
	return CalendarDate{Year: y, Month: m, Day: d}
}

// ParseDate parses a YYYY-MM-DD date
func ParseDate(s string) (CalendarDate, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return CalendarDate{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// Time returns midnight UTC of the date
func (d CalendarDate) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// AddDays moves the date by n whole days (n may be negative)
func (d CalendarDate) AddDays(n int) CalendarDate {
	return DateOf(d.Time().AddDate(0, 0, n))
}

// DaysUntil returns the number of whole days from d to other; negative if other is earlier
func (d CalendarDate) DaysUntil(other CalendarDate) int {
	return int(other.Time().Sub(d.Time()) / (24 * time.Hour))
}

func (d CalendarDate) Weekday() time.Weekday {
	return d.Time().Weekday()
}

// IsWeekend reports whether the date falls on Saturday or Sunday
func (d CalendarDate) IsWeekend() bool {
	return dateutil.IsWeekend(d.Time())
}

// Compare returns -1, 0 or +1 depending on whether d is before, equal to or after other
func (d CalendarDate) Compare(other CalendarDate) int {
	switch {
	case d.Year != other.Year:
		return sign(d.Year - other.Year)
	case d.Month != other.Month:
		return sign(int(d.Month) - int(other.Month))
	default:
		return sign(d.Day - other.Day)
	}
}

func (d CalendarDate) Before(other CalendarDate) bool { return d.Compare(other) < 0 }
func (d CalendarDate) After(other CalendarDate) bool  { return d.Compare(other) > 0 }

// IsZero reports whether d is the zero value
func (d CalendarDate) IsZero() bool {
	return d == CalendarDate{}
}

func (d CalendarDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// MarshalText implements encoding.TextMarshaler
func (d CalendarDate) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler so dates decode straight from JSON strings.
// An empty string decodes to the zero date.
func (d *CalendarDate) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*d = CalendarDate{}
		return nil
	}
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// LastDayOfMonth returns the final calendar day of the month
func LastDayOfMonth(year int, month time.Month) CalendarDate {
	return CalendarDate{Year: year, Month: month, Day: dateutil.DaysInMonth(year, month)}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}
