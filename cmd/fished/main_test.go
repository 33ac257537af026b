package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/username/fished/internal/calendar"
	"github.com/username/fished/internal/config"
	"github.com/username/fished/internal/daemon"
)

const testDataset = `{"Years": {"2026": [
  {"Name": "国庆节", "StartDate": "2026-10-01", "EndDate": "2026-10-07", "CompDays": ["2026-09-20", "2026-10-10"]}
]}}`

func TestResolveToday(t *testing.T) {
	shanghai := time.FixedZone("CST", 8*60*60)
	now := time.Date(2026, time.October, 15, 20, 0, 0, 0, time.UTC) // 04:00 on the 16th in Shanghai

	tests := []struct {
		name     string
		override string
		loc      *time.Location
		want     string
		wantErr  bool
	}{
		{"utc", "", time.UTC, "2026-10-15", false},
		{"shanghai", "", shanghai, "2026-10-16", false},
		{"override", "2024-10-05", time.UTC, "2024-10-05", false},
		{"compact override", "20241005", time.UTC, "2024-10-05", false},
		{"bad override", "tomorrow", time.UTC, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveToday(tt.override, tt.loc, now)
			if (err != nil) != tt.wantErr {
				t.Fatalf("resolveToday() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got.String() != tt.want {
				t.Errorf("resolveToday() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestStoreYears(t *testing.T) {
	got := storeYears(calendar.CalendarDate{Year: 2026, Month: time.December, Day: 31})
	if !reflect.DeepEqual(got, []int{2026, 2027}) {
		t.Errorf("storeYears() = %v, want [2026 2027]", got)
	}
}

type unavailableSource struct{}

func (unavailableSource) Fetch(ctx context.Context) (*calendar.Dataset, error) {
	return nil, errors.New("offline")
}

func TestLoadStore_WeekendOnlyFallback(t *testing.T) {
	today := calendar.CalendarDate{Year: 2026, Month: time.October, Day: 16}
	cfg := &config.Config{}

	_, err := loadStore(context.Background(), cfg, unavailableSource{}, today)
	if !errors.Is(err, calendar.ErrDataUnavailable) {
		t.Fatalf("loadStore() error = %v, want ErrDataUnavailable", err)
	}

	cfg.Holidays.WeekendOnlyFallback = true
	store, err := loadStore(context.Background(), cfg, unavailableSource{}, today)
	if err != nil {
		t.Fatalf("loadStore() with fallback error = %v", err)
	}
	if store != nil {
		t.Errorf("loadStore() with fallback = %v, want nil store", store)
	}
}

// switchableSource serves the embedded snapshot until it is taken offline
type switchableSource struct {
	offline atomic.Bool
}

func (s *switchableSource) Fetch(ctx context.Context) (*calendar.Dataset, error) {
	if s.offline.Load() {
		return nil, errors.New("offline")
	}
	return calendar.EmbeddedSource{}.Fetch(ctx)
}

func TestWatchReload_KeepsStoreWhenDataUnavailable(t *testing.T) {
	cfg := &config.Config{Holidays: config.HolidaysConfig{WeekendOnlyFallback: true}}
	today := calendar.CalendarDate{Year: 2025, Month: time.September, Day: 20}
	nationalDay := calendar.CalendarDate{Year: 2025, Month: time.October, Day: 1}
	src := &switchableSource{}

	store, err := loadStore(context.Background(), cfg, src, today)
	if err != nil || store == nil {
		t.Fatalf("loadStore() = %v, %v, want a store", store, err)
	}
	holder := calendar.NewHolder(store)
	d := daemon.NewDaemon(holder, reloadLoader(src), daemon.Options{Location: time.UTC}, nil, zap.NewNop())

	src.offline.Store(true)
	if _, err := reloadLoader(src)(context.Background(), today); !errors.Is(err, calendar.ErrDataUnavailable) {
		t.Errorf("reloadLoader() error = %v, want ErrDataUnavailable", err)
	}
	d.Reload()

	if holder.Load() != store {
		t.Fatal("failed reload replaced the store")
	}
	if got := calendar.Classify(nationalDay, holder.Load()).Type; got != calendar.DayTypeHoliday {
		t.Errorf("Classify(%s) after failed reload = %s, want holiday", nationalDay, got)
	}
}

func TestLoadStore_MalformedIsNeverDegraded(t *testing.T) {
	path := filepath.Join(t.TempDir(), "holidays.json")
	data := `{"Years": {"2026": [
  {"Name": "A", "StartDate": "2026-05-01", "EndDate": "2026-05-05"},
  {"Name": "B", "StartDate": "2026-05-03", "EndDate": "2026-05-06"}
]}}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := &config.Config{Holidays: config.HolidaysConfig{
		Source:              config.SourceFile,
		File:                path,
		WeekendOnlyFallback: true,
	}}
	today := calendar.CalendarDate{Year: 2026, Month: time.October, Day: 16}

	_, err := loadStore(context.Background(), cfg, buildSource(cfg), today)
	if !errors.Is(err, calendar.ErrDataMalformed) {
		t.Errorf("loadStore() error = %v, want ErrDataMalformed", err)
	}
}

func TestBuildReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "holidays.json")
	if err := os.WriteFile(path, []byte(testDataset), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := &config.Config{
		Holidays: config.HolidaysConfig{Source: config.SourceFile, File: path},
		Paydays:  []int{1},
	}

	report, store, err := buildReport(context.Background(), cfg, calendar.CalendarDate{Year: 2026, Month: time.September, Day: 16})
	if err != nil {
		t.Fatalf("buildReport() error = %v", err)
	}
	if store == nil {
		t.Fatal("buildReport() store = nil")
	}
	if len(report.Holidays) != 1 {
		t.Errorf("Holidays = %d rows, want 1", len(report.Holidays))
	}
	// Oct 1st payday moves past the holiday to the 8th
	if got := report.Wages[len(report.Wages)-1]; got.Resolved.String() != "2026-10-08" {
		t.Errorf("last wage row resolved = %s, want 2026-10-08", got.Resolved)
	}
}

func TestUpdateHolidays(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(testDataset))
	}))
	defer srv.Close()

	output := filepath.Join(t.TempDir(), "data", "holidays.json")
	years, err := updateHolidays(context.Background(), calendar.NewHTTPSource(srv.URL, time.Hour, logger), output)
	if err != nil {
		t.Fatalf("updateHolidays() error = %v", err)
	}
	if !reflect.DeepEqual(years, []int{2026}) {
		t.Errorf("years = %v, want [2026]", years)
	}

	written, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	if string(written) != testDataset {
		t.Error("output does not match the downloaded document")
	}

	entries, _ := os.ReadDir(filepath.Dir(output))
	if len(entries) != 1 {
		t.Errorf("output dir has %d entries, want only the data file", len(entries))
	}
}

func TestUpdateHolidays_RejectsInvalidData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Years": {"2026": [{"Name": "A", "StartDate": "2026-05-05", "EndDate": "2026-05-01"}]}}`))
	}))
	defer srv.Close()

	output := filepath.Join(t.TempDir(), "holidays.json")
	if err := os.WriteFile(output, []byte(testDataset), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := updateHolidays(context.Background(), calendar.NewHTTPSource(srv.URL, time.Hour, logger), output)
	if !errors.Is(err, calendar.ErrDataMalformed) {
		t.Fatalf("updateHolidays() error = %v, want ErrDataMalformed", err)
	}

	kept, _ := os.ReadFile(output)
	if string(kept) != testDataset {
		t.Error("invalid download replaced the existing file")
	}
}
