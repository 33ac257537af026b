package calendar

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
)

// Source supplies the raw holiday dataset
type Source interface {
	Fetch(ctx context.Context) (*Dataset, error)
}

// Dataset mirrors the holidayAPI.json document published by
// github.com/lanceliao/china-holiday-calender
type Dataset struct {
	Name      string                    `json:"Name,omitempty"`
	Version   string                    `json:"Version,omitempty"`
	Generated string                    `json:"Generated,omitempty"`
	Timezone  string                    `json:"Timezone,omitempty"`
	Years     map[string][]PeriodRecord `json:"Years"`
}

// PeriodRecord is one holiday entry of the dataset
type PeriodRecord struct {
	Name      string         `json:"Name"`
	StartDate CalendarDate   `json:"StartDate"`
	EndDate   CalendarDate   `json:"EndDate"`
	Duration  int            `json:"Duration,omitempty"`
	CompDays  []CalendarDate `json:"CompDays"`
	URL       string         `json:"URL,omitempty"`
	Memo      string         `json:"Memo,omitempty"`
}

// YearList returns the dataset's years, ascending
func (ds *Dataset) YearList() ([]int, error) {
	years := make([]int, 0, len(ds.Years))
	for key := range ds.Years {
		year, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid year key %q", ErrDataMalformed, key)
		}
		years = append(years, year)
	}
	sort.Ints(years)
	return years, nil
}

// DecodeDataset parses a holidayAPI.json document
func DecodeDataset(r io.Reader) (*Dataset, error) {
	var ds Dataset
	if err := json.NewDecoder(r).Decode(&ds); err != nil {
		return nil, fmt.Errorf("failed to parse holiday data: %w", err)
	}
	if ds.Years == nil {
		return nil, fmt.Errorf("holiday data has no Years section")
	}
	return &ds, nil
}

//go:embed data/holidays.json
var embeddedHolidays []byte

// EmbeddedSource serves the holiday snapshot compiled into the binary
type EmbeddedSource struct{}

// Fetch decodes the embedded snapshot
func (EmbeddedSource) Fetch(ctx context.Context) (*Dataset, error) {
	return DecodeDataset(bytes.NewReader(embeddedHolidays))
}

type staticSource struct {
	ds *Dataset
}

func (s staticSource) Fetch(ctx context.Context) (*Dataset, error) {
	return s.ds, nil
}
