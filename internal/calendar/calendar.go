package calendar

import "time"

// DayType represents the classification of a day
type DayType int

const (
	DayTypeWorkday DayType = iota + 1
	DayTypeWeekend
	DayTypeHoliday
	DayTypeCompensation // weekend day converted into a mandatory workday
)

func (t DayType) String() string {
	switch t {
	case DayTypeWorkday:
		return "workday"
	case DayTypeWeekend:
		return "weekend"
	case DayTypeHoliday:
		return "holiday"
	case DayTypeCompensation:
		return "compensation"
	}
	return "unknown"
}

// Classification is the result of classifying a single date.
// Period names the holiday period for DayTypeHoliday and DayTypeCompensation.
type Classification struct {
	Type   DayType
	Period string
}

// IsWorkday reports whether the classified day is a working day
func (c Classification) IsWorkday() bool {
	return c.Type == DayTypeWorkday || c.Type == DayTypeCompensation
}

// DayInfo represents information about a specific day
type DayInfo struct {
	Date      CalendarDate
	Type      DayType
	IsWorkday bool
	Note      string
}

// MonthInfo represents calendar information for a month
type MonthInfo struct {
	Year     int
	Month    time.Month
	WorkDays int
	Weekends int
	Holidays int
	CompDays int
	Days     []DayInfo
}

// Calendar interface for checking working days
type Calendar interface {
	// IsWorkday checks if the given date is a working day
	IsWorkday(date CalendarDate) bool

	// GetMonthInfo returns calendar info for the entire month
	GetMonthInfo(year int, month time.Month) *MonthInfo

	// GetDayInfo returns detailed info for a specific day
	GetDayInfo(date CalendarDate) DayInfo
}
