package calendar

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func period(name, start, end string, comp ...string) HolidayPeriod {
	p := HolidayPeriod{Name: name, Start: mustParse(start), End: mustParse(end)}
	for _, c := range comp {
		p.CompDays = append(p.CompDays, mustParse(c))
	}
	return p
}

func TestNewStore_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		periods map[int][]HolidayPeriod
	}{
		{
			name: "inverted range",
			periods: map[int][]HolidayPeriod{
				2024: {period("国庆节", "2024-10-07", "2024-10-01")},
			},
		},
		{
			name: "missing name",
			periods: map[int][]HolidayPeriod{
				2024: {period("", "2024-10-01", "2024-10-07")},
			},
		},
		{
			name: "missing end",
			periods: map[int][]HolidayPeriod{
				2024: {{Name: "国庆节", Start: mustParse("2024-10-01")}},
			},
		},
		{
			name: "overlapping periods",
			periods: map[int][]HolidayPeriod{
				2024: {
					period("中秋节", "2024-09-15", "2024-09-17"),
					period("加长中秋", "2024-09-17", "2024-09-20"),
				},
			},
		},
		{
			name: "overlap across declared years",
			periods: map[int][]HolidayPeriod{
				2024: {period("跨年", "2024-12-30", "2025-01-02")},
				2025: {period("元旦", "2025-01-01", "2025-01-01")},
			},
		},
		{
			name: "compensation day inside a holiday",
			periods: map[int][]HolidayPeriod{
				2024: {
					period("国庆节", "2024-10-01", "2024-10-07", "2024-10-05"),
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewStore(tt.periods)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrDataMalformed), "got %v", err)
		})
	}
}

func TestStore_Lookup(t *testing.T) {
	s, err := NewStore(map[int][]HolidayPeriod{
		2024: {
			period("国庆节", "2024-10-01", "2024-10-07", "2024-09-29", "2024-10-12"),
			period("元旦", "2024-01-01", "2024-01-01"),
		},
		2026: {
			period("元旦", "2026-01-01", "2026-01-03", "2026-01-04"),
		},
	})
	require.NoError(t, err)

	got := s.Lookup(2024)
	require.Len(t, got, 2)
	assert.Equal(t, "元旦", got[0].Name, "periods are ordered by start")
	assert.Equal(t, "国庆节", got[1].Name)

	assert.Empty(t, s.Lookup(2025))
	assert.Empty(t, s.Lookup(1999))
	assert.Equal(t, []int{2024, 2026}, s.Years())
	assert.Len(t, s.Periods(2024, 2025, 2026), 3)

	var empty *Store
	assert.Empty(t, empty.Lookup(2024))
	assert.Empty(t, empty.Years())
}

func TestStore_IndexesNeighbouringYear(t *testing.T) {
	s, err := NewStore(map[int][]HolidayPeriod{
		2031: {period("元旦", "2030-12-31", "2031-01-02", "2030-12-28")},
	})
	require.NoError(t, err)

	assert.Len(t, s.Lookup(2030), 1)
	assert.Len(t, s.Lookup(2031), 1)
	assert.Equal(t, DayTypeHoliday, Classify(mustParse("2030-12-31"), s).Type)
	assert.Equal(t, DayTypeCompensation, Classify(mustParse("2030-12-28"), s).Type)
	assert.Len(t, s.Periods(2030), 0, "Periods follows the declared year")
}

func TestStore_LookupReturnsCopy(t *testing.T) {
	s, err := NewStore(map[int][]HolidayPeriod{
		2024: {period("端午节", "2024-06-10", "2024-06-10")},
	})
	require.NoError(t, err)

	got := s.Lookup(2024)
	got[0].Name = "changed"
	assert.Equal(t, "端午节", s.Lookup(2024)[0].Name)
}

func TestStore_GetMonthInfo(t *testing.T) {
	s, err := Load(context.Background(), EmbeddedSource{}, []int{2024}, zap.NewNop())
	require.NoError(t, err)

	info := s.GetMonthInfo(2024, time.October)
	assert.Len(t, info.Days, 31)
	assert.Equal(t, 7, info.Holidays)
	assert.Equal(t, 1, info.CompDays)
	// 23 weekdays, 5 of them inside the holiday, plus the Oct 12 compensation Saturday
	assert.Equal(t, 19, info.WorkDays)
	assert.Equal(t, 31, info.WorkDays+info.Weekends+info.Holidays)

	day := s.GetDayInfo(mustParse("2024-10-12"))
	assert.True(t, day.IsWorkday)
	assert.Equal(t, DayTypeCompensation, day.Type)
	assert.Equal(t, "国庆节", day.Note)
}

func TestLoad_MissingYearIsNotAnError(t *testing.T) {
	s, err := Load(context.Background(), EmbeddedSource{}, []int{2026, 2099}, zap.NewNop())
	require.NoError(t, err)

	assert.NotEmpty(t, s.Lookup(2026))
	assert.Empty(t, s.Lookup(2099))
	assert.True(t, s.IsWorkday(mustParse("2099-06-01")), "unknown years use weekend rules only")
}

type failingSource struct{ err error }

func (f failingSource) Fetch(ctx context.Context) (*Dataset, error) { return nil, f.err }

func TestLoad_DataUnavailable(t *testing.T) {
	srcErr := errors.New("connection refused")
	_, err := Load(context.Background(), failingSource{srcErr}, []int{2024}, zap.NewNop())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDataUnavailable)
	assert.ErrorIs(t, err, srcErr)
}

func TestLoad_OverlapIsMalformed(t *testing.T) {
	ds := &Dataset{Years: map[string][]PeriodRecord{
		"2024": {
			{Name: "A", StartDate: mustParse("2024-05-01"), EndDate: mustParse("2024-05-05")},
			{Name: "B", StartDate: mustParse("2024-05-04"), EndDate: mustParse("2024-05-06")},
		},
	}}
	_, err := Load(context.Background(), staticSource{ds}, []int{2024}, zap.NewNop())
	assert.ErrorIs(t, err, ErrDataMalformed)
}

func TestLoadAll(t *testing.T) {
	s, err := LoadAll(context.Background(), EmbeddedSource{}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, []int{2024, 2025, 2026}, s.Years())
}
