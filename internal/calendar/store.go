package calendar

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// HolidayPeriod is one declared holiday plus the weekend days converted
// into workdays to compensate for it. End is inclusive.
type HolidayPeriod struct {
	Name     string         `json:"name" yaml:"name"`
	Start    CalendarDate   `json:"start" yaml:"start"`
	End      CalendarDate   `json:"end" yaml:"end"`
	CompDays []CalendarDate `json:"comp_days,omitempty" yaml:"comp_days,omitempty"`
}

// Contains reports whether d falls inside [Start, End]
func (p HolidayPeriod) Contains(d CalendarDate) bool {
	return !d.Before(p.Start) && !d.After(p.End)
}

// Days returns the inclusive length of the period
func (p HolidayPeriod) Days() int {
	return p.Start.DaysUntil(p.End) + 1
}

// IsCompDay reports whether d is one of the period's compensation workdays
func (p HolidayPeriod) IsCompDay(d CalendarDate) bool {
	return slices.Contains(p.CompDays, d)
}

func (p HolidayPeriod) validate() error {
	switch {
	case p.Name == "":
		return fmt.Errorf("period starting %s has no name", p.Start)
	case p.Start.IsZero():
		return fmt.Errorf("period %q has no start date", p.Name)
	case p.End.IsZero():
		return fmt.Errorf("period %q has no end date", p.Name)
	case p.End.Before(p.Start):
		return fmt.Errorf("period %q ends %s before it starts %s", p.Name, p.End, p.Start)
	}
	for _, d := range p.CompDays {
		if d.IsZero() {
			return fmt.Errorf("period %q has an empty compensation day", p.Name)
		}
	}
	return nil
}

// years returns every calendar year touched by the period's range or compensation days
func (p HolidayPeriod) years() []int {
	var out []int
	for y := p.Start.Year; y <= p.End.Year; y++ {
		out = append(out, y)
	}
	for _, d := range p.CompDays {
		if !slices.Contains(out, d.Year) {
			out = append(out, d.Year)
		}
	}
	return out
}

// Store is an immutable table of holiday periods keyed by year.
// A nil *Store behaves as a store without any declared holidays.
type Store struct {
	declared map[int][]HolidayPeriod // by the year the data source filed them under
	index    map[int][]HolidayPeriod // by every year a period touches
}

// NewStore validates the periods and builds a store. It fails with
// ErrDataMalformed on inverted or incomplete periods, overlapping periods
// and compensation days that fall inside a holiday.
func NewStore(byYear map[int][]HolidayPeriod) (*Store, error) {
	s := &Store{
		declared: make(map[int][]HolidayPeriod, len(byYear)),
		index:    make(map[int][]HolidayPeriod),
	}

	var all []HolidayPeriod
	for year, periods := range byYear {
		for _, p := range periods {
			if err := p.validate(); err != nil {
				return nil, fmt.Errorf("%w: year %d: %v", ErrDataMalformed, year, err)
			}
			p.CompDays = slices.Clone(p.CompDays)
			s.declared[year] = append(s.declared[year], p)
			all = append(all, p)
		}
	}

	sortPeriods(all)
	for i := 1; i < len(all); i++ {
		prev, cur := all[i-1], all[i]
		if !cur.Start.After(prev.End) {
			return nil, fmt.Errorf("%w: period %q (%s..%s) overlaps %q (%s..%s)",
				ErrDataMalformed, cur.Name, cur.Start, cur.End, prev.Name, prev.Start, prev.End)
		}
	}
	for _, p := range all {
		for _, d := range p.CompDays {
			for _, q := range all {
				if q.Contains(d) {
					return nil, fmt.Errorf("%w: compensation day %s of %q falls inside %q",
						ErrDataMalformed, d, p.Name, q.Name)
				}
			}
		}
	}

	for _, p := range all {
		for _, y := range p.years() {
			s.index[y] = append(s.index[y], p)
		}
	}
	for year := range s.declared {
		sortPeriods(s.declared[year])
	}

	return s, nil
}

func sortPeriods(periods []HolidayPeriod) {
	sort.SliceStable(periods, func(i, j int) bool {
		return periods[i].Start.Before(periods[j].Start)
	})
}

// Lookup returns the periods relevant to the given year, ordered by start.
// Unknown years yield an empty result: only weekend rules apply to them.
func (s *Store) Lookup(year int) []HolidayPeriod {
	if s == nil {
		return nil
	}
	return slices.Clone(s.index[year])
}

// Periods returns the periods filed under the given years, in year order then start order
func (s *Store) Periods(years ...int) []HolidayPeriod {
	if s == nil {
		return nil
	}
	var out []HolidayPeriod
	for _, y := range years {
		out = append(out, s.declared[y]...)
	}
	return out
}

// Years returns the years with declared data, ascending
func (s *Store) Years() []int {
	if s == nil {
		return nil
	}
	years := make([]int, 0, len(s.declared))
	for y := range s.declared {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// IsWorkday checks if the given date is a working day
func (s *Store) IsWorkday(date CalendarDate) bool {
	return Classify(date, s).IsWorkday()
}

// GetDayInfo returns detailed info for a specific day
func (s *Store) GetDayInfo(date CalendarDate) DayInfo {
	c := Classify(date, s)
	return DayInfo{
		Date:      date,
		Type:      c.Type,
		IsWorkday: c.IsWorkday(),
		Note:      c.Period,
	}
}

// GetMonthInfo returns calendar info for the entire month
func (s *Store) GetMonthInfo(year int, month time.Month) *MonthInfo {
	last := LastDayOfMonth(year, month)
	monthInfo := &MonthInfo{
		Year:  year,
		Month: month,
		Days:  make([]DayInfo, 0, last.Day),
	}

	for day := 1; day <= last.Day; day++ {
		info := s.GetDayInfo(CalendarDate{Year: year, Month: month, Day: day})

		switch info.Type {
		case DayTypeWorkday:
			monthInfo.WorkDays++
		case DayTypeCompensation:
			monthInfo.WorkDays++
			monthInfo.CompDays++
		case DayTypeWeekend:
			monthInfo.Weekends++
		case DayTypeHoliday:
			monthInfo.Holidays++
		}

		monthInfo.Days = append(monthInfo.Days, info)
	}

	return monthInfo
}

// Load fetches the dataset from src and builds a store for the requested years.
// Years missing from the dataset are skipped, not reported as errors.
func Load(ctx context.Context, src Source, years []int, logger *zap.Logger) (*Store, error) {
	ds, err := src.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDataUnavailable, err)
	}

	byYear := make(map[int][]HolidayPeriod, len(years))
	for _, year := range years {
		records, ok := ds.Years[strconv.Itoa(year)]
		if !ok {
			logger.Info("No holiday data for year, weekend rules only",
				zap.Int("year", year))
			continue
		}
		byYear[year] = recordsToPeriods(records)
	}

	store, err := NewStore(byYear)
	if err != nil {
		return nil, err
	}

	logger.Debug("Holiday store loaded",
		zap.Ints("years", store.Years()))

	return store, nil
}

// LoadAll builds a store from every year present in the dataset
func LoadAll(ctx context.Context, src Source, logger *zap.Logger) (*Store, error) {
	ds, err := src.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDataUnavailable, err)
	}
	years, err := ds.YearList()
	if err != nil {
		return nil, err
	}
	return Load(ctx, staticSource{ds}, years, logger)
}

func recordsToPeriods(records []PeriodRecord) []HolidayPeriod {
	periods := make([]HolidayPeriod, 0, len(records))
	for _, r := range records {
		periods = append(periods, HolidayPeriod{
			Name:     r.Name,
			Start:    r.StartDate,
			End:      r.EndDate,
			CompDays: r.CompDays,
		})
	}
	return periods
}
