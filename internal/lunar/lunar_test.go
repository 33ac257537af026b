package lunar

import (
	"slices"
	"testing"
	"time"
)

func TestConvert(t *testing.T) {
	tests := []struct {
		name  string
		year  int
		month time.Month
		day   int
		want  string
	}{
		{"spring festival 2024", 2024, time.February, 10, "二〇二四年正月初一"},
		{"mid-autumn 2025", 2025, time.October, 6, "二〇二五年八月十五"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Convert(tt.year, tt.month, tt.day); got != tt.want {
				t.Errorf("Convert() = %q, want %q", got, tt.want)
			}
			if got := AlmanacFor(tt.year, tt.month, tt.day).Lunar; got != tt.want {
				t.Errorf("AlmanacFor().Lunar = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAlmanacFor(t *testing.T) {
	a := AlmanacFor(2024, time.February, 10)

	if a.Lunar != "二〇二四年正月初一" {
		t.Errorf("Lunar = %q, want 二〇二四年正月初一", a.Lunar)
	}
	if !slices.Contains(a.Festivals, "春节") {
		t.Errorf("Festivals = %v, want to contain 春节", a.Festivals)
	}
	if len(a.Yi) == 0 || len(a.Ji) == 0 {
		t.Errorf("Yi = %v, Ji = %v, want both non-empty", a.Yi, a.Ji)
	}
}

func TestAlmanacFor_OrdinaryDay(t *testing.T) {
	a := AlmanacFor(2026, time.October, 16)

	if a.Lunar == "" {
		t.Error("Lunar is empty")
	}
	for _, f := range a.Festivals {
		if f == "" {
			t.Errorf("Festivals = %v, contains an empty name", a.Festivals)
		}
	}
}
