package countdown

import (
	"fmt"
	"math"
	"slices"
	"sort"
	"time"

	"github.com/username/fished/internal/calendar"
	"github.com/username/fished/pkg/dateutil"
	"go.uber.org/zap"
)

const lastWorkdayLabel = "这个月最后一个工作日"

// Engine computes countdowns against one holiday store snapshot.
// Every operation takes today explicitly and performs no I/O.
type Engine struct {
	store  *calendar.Store
	logger *zap.Logger
}

// NewEngine creates a countdown engine; a nil store means weekend rules only
func NewEngine(store *calendar.Store, logger *zap.Logger) *Engine {
	return &Engine{
		store:  store,
		logger: logger,
	}
}

// Payday counts down to the salary paid on the given day of month.
// Once today is past that day the next month's payday is used; a day the
// month does not have falls back to the month's last day. A payday on a
// non-working day moves to the next working day.
func (e *Engine) Payday(day int, today calendar.CalendarDate) (Result, error) {
	if day < 1 || day > 31 {
		return Result{}, fmt.Errorf("%w: payday %d is outside 1..31", ErrInvalidArgument, day)
	}

	year, month := today.Year, today.Month
	if today.Day > day {
		month++
		if month > time.December {
			month = time.January
			year++
		}
	}
	nominal := calendar.ClampedDate(year, month, day)

	resolved, offset, err := calendar.NextWorkday(nominal, e.store)
	if err != nil {
		return Result{}, fmt.Errorf("failed to resolve payday %d: %w", day, err)
	}

	result := Result{
		Label:     fmt.Sprintf("%d号", day),
		Kind:      KindPayday,
		Status:    StatusUpcoming,
		DaysUntil: today.DaysUntil(resolved),
		Resolved:  resolved,
	}

	switch {
	case offset > 0:
		result.Status = StatusPostponed
		result.PostponedBy = offset
		result.Note = fmt.Sprintf("+%d天，顺延至%02d-%02d", offset, resolved.Month, resolved.Day)
		e.logger.Debug("Payday postponed",
			zap.Int("day", day),
			zap.Stringer("nominal", nominal),
			zap.Stringer("resolved", resolved),
			zap.Int("offset", offset))
	case result.DaysUntil == 0:
		result.Status = StatusToday
	}

	return result, nil
}

// HolidayCountdown counts down to the period's start, or while it is under
// way counts the holiday days left including today. ok is false once the
// period has ended.
func (e *Engine) HolidayCountdown(period calendar.HolidayPeriod, today calendar.CalendarDate) (result Result, ok bool) {
	if today.After(period.End) {
		return Result{}, false
	}

	total := period.Days()
	result = Result{
		Label:     period.Name,
		Kind:      KindHoliday,
		Resolved:  period.Start,
		TotalDays: total,
		Note:      fmt.Sprintf("共%d天", total),
	}

	if today.Before(period.Start) {
		result.Status = StatusUpcoming
		result.DaysUntil = today.DaysUntil(period.Start)
		return result, true
	}

	result.Status = StatusOngoing
	result.DaysUntil = today.DaysUntil(period.End) + 1
	result.Resolved = period.End
	return result, true
}

// LastWorkday counts down to the last workday of today's month as computed
// by calendar.LastWorkdayOfMonth, which moves off weekends but not off holidays.
func (e *Engine) LastWorkday(today calendar.CalendarDate) Result {
	last := calendar.LastWorkdayOfMonth(today.Year, today.Month)

	result := Result{
		Label:     lastWorkdayLabel,
		Kind:      KindLastWorkday,
		Status:    StatusUpcoming,
		DaysUntil: today.DaysUntil(last),
		Resolved:  last,
	}
	switch {
	case result.DaysUntil == 0:
		result.Status = StatusToday
	case result.DaysUntil < 0:
		result.Status = StatusPassed
	}
	return result
}

// YearProgress reports how much of today's year has elapsed
func (e *Engine) YearProgress(today calendar.CalendarDate) Progress {
	total := dateutil.DaysInYear(today.Year)
	newYear := calendar.CalendarDate{Year: today.Year + 1, Month: time.January, Day: 1}
	remaining := today.DaysUntil(newYear)
	elapsed := total - remaining

	return Progress{
		Percent:   int(math.Floor(float64(elapsed)/float64(total)*100 + 0.5)),
		Elapsed:   elapsed,
		Remaining: remaining,
		TotalDays: total,
	}
}

// Report runs every countdown for today.
// Wage rows cover the given paydays plus the day of month of this month's
// last workday, ordered by days left. Holiday rows cover the periods of this
// year and the next that have not ended yet.
func (e *Engine) Report(today calendar.CalendarDate, paydays []int) (*Report, error) {
	report := &Report{
		Today:       today,
		LastWorkday: e.LastWorkday(today),
		Year:        e.YearProgress(today),
	}

	// 1. Wage rows
	lastDay := report.LastWorkday.Resolved.Day
	days := uniqueDays(append(append([]int{}, paydays...), lastDay))
	for _, day := range days {
		row, err := e.Payday(day, today)
		if err != nil {
			return nil, err
		}
		row.LastWorkday = day == lastDay
		report.Wages = append(report.Wages, row)
	}
	sort.SliceStable(report.Wages, func(i, j int) bool {
		return report.Wages[i].DaysUntil < report.Wages[j].DaysUntil
	})

	// 2. Holiday rows
	for _, period := range e.store.Periods(today.Year, today.Year+1) {
		if row, ok := e.HolidayCountdown(period, today); ok {
			report.Holidays = append(report.Holidays, row)
		}
	}

	e.logger.Debug("Report computed",
		zap.Stringer("today", today),
		zap.Int("wage_rows", len(report.Wages)),
		zap.Int("holiday_rows", len(report.Holidays)))

	return report, nil
}

func uniqueDays(days []int) []int {
	slices.Sort(days)
	return slices.Compact(days)
}
