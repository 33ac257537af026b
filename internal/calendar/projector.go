package calendar

import (
	"fmt"
	"time"
)

// MaxProjectionDays bounds the forward search of NextWorkday. No declared
// holiday plus its adjoining weekend comes anywhere near it.
const MaxProjectionDays = 60

// NextWorkday returns from itself with offset 0 when it is a working day,
// otherwise the first working day after it and the number of days advanced.
func NextWorkday(from CalendarDate, cal Calendar) (CalendarDate, int, error) {
	for offset := 0; offset <= MaxProjectionDays; offset++ {
		d := from.AddDays(offset)
		if cal.IsWorkday(d) {
			return d, offset, nil
		}
	}
	return CalendarDate{}, 0, fmt.Errorf("%w: no working day within %d days of %s",
		ErrProjectionDivergence, MaxProjectionDays, from)
}

// LastWorkdayOfMonth returns the month's last day moved back off a weekend.
//
// Holidays are not consulted here, unlike NextWorkday: a month ending inside a
// declared holiday still reports that day. Callers rely on this weekend-only rule.
func LastWorkdayOfMonth(year int, month time.Month) CalendarDate {
	last := LastDayOfMonth(year, month)
	switch last.Weekday() {
	case time.Saturday:
		return last.AddDays(-1)
	case time.Sunday:
		return last.AddDays(-2)
	}
	return last
}
