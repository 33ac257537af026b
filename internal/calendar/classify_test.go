package calendar

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func embeddedStore(t *testing.T) *Store {
	t.Helper()
	s, err := LoadAll(context.Background(), EmbeddedSource{}, zap.NewNop())
	require.NoError(t, err)
	return s
}

func TestClassify(t *testing.T) {
	s := embeddedStore(t)

	tests := []struct {
		date       string
		wantType   DayType
		wantPeriod string
	}{
		{"2024-10-01", DayTypeHoliday, "国庆节"},
		{"2024-10-05", DayTypeHoliday, "国庆节"}, // Saturday inside the holiday
		{"2024-10-07", DayTypeHoliday, "国庆节"},
		{"2024-09-29", DayTypeCompensation, "国庆节"},
		{"2024-10-12", DayTypeCompensation, "国庆节"},
		{"2024-10-13", DayTypeWeekend, ""},
		{"2024-10-08", DayTypeWorkday, ""},
		{"2026-01-04", DayTypeCompensation, "元旦"},
		{"2026-02-14", DayTypeCompensation, "春节"},
		{"2026-02-23", DayTypeHoliday, "春节"},
		{"2099-01-03", DayTypeWeekend, ""},
	}

	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			got := Classify(mustParse(tt.date), s)
			assert.Equal(t, tt.wantType, got.Type)
			assert.Equal(t, tt.wantPeriod, got.Period)
		})
	}
}

func TestClassify_NilStore(t *testing.T) {
	assert.Equal(t, DayTypeWorkday, Classify(mustParse("2024-10-01"), nil).Type)
	assert.Equal(t, DayTypeWeekend, Classify(mustParse("2024-10-05"), nil).Type)
}

func TestClassify_Totality(t *testing.T) {
	s := embeddedStore(t)

	d := mustParse("2023-12-01")
	end := mustParse("2027-02-01")
	for ; d.Before(end); d = d.AddDays(1) {
		c := Classify(d, s)
		switch c.Type {
		case DayTypeWorkday, DayTypeWeekend:
			assert.Empty(t, c.Period, d.String())
		case DayTypeHoliday, DayTypeCompensation:
			assert.NotEmpty(t, c.Period, d.String())
		default:
			t.Fatalf("Classify(%s) = %v, want one of the four day types", d, c.Type)
		}
		assert.Equal(t, c.Type == DayTypeWorkday || c.Type == DayTypeCompensation, c.IsWorkday(), d.String())
	}
}
