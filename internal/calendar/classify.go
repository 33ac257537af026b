package calendar

// Classify decides what kind of day date is. A holiday range wins over a
// compensation day, which wins over the weekend rule.
func Classify(date CalendarDate, s *Store) Classification {
	var periods []HolidayPeriod
	if s != nil {
		periods = s.index[date.Year]
	}

	for _, p := range periods {
		if p.Contains(date) {
			return Classification{Type: DayTypeHoliday, Period: p.Name}
		}
	}
	for _, p := range periods {
		if p.IsCompDay(date) {
			return Classification{Type: DayTypeCompensation, Period: p.Name}
		}
	}
	if date.IsWeekend() {
		return Classification{Type: DayTypeWeekend}
	}
	return Classification{Type: DayTypeWorkday}
}
