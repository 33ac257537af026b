package countdown

import "github.com/username/fished/internal/calendar"

// Kind names the event a Result counts down to
type Kind string

const (
	KindPayday      Kind = "payday"
	KindHoliday     Kind = "holiday"
	KindLastWorkday Kind = "last_workday"
)

// Status describes where today stands relative to the event
type Status string

const (
	StatusUpcoming  Status = "upcoming"
	StatusToday     Status = "today"
	StatusOngoing   Status = "ongoing"   // inside a holiday period
	StatusPostponed Status = "postponed" // payday moved off a non-working day
	StatusPassed    Status = "passed"    // month's last workday is behind today
)

// Result is one countdown row.
// DaysUntil counts whole days from today to Resolved, except for an ongoing
// holiday where it is the number of holiday days left including today.
// Note carries the postponement delta and resolved date ("+1天，顺延至11-16")
// or a holiday's length ("共7天").
type Result struct {
	Label       string                `json:"label" yaml:"label"`
	Kind        Kind                  `json:"kind" yaml:"kind"`
	Status      Status                `json:"status" yaml:"status"`
	DaysUntil   int                   `json:"days_until" yaml:"days_until"`
	Resolved    calendar.CalendarDate `json:"resolved" yaml:"resolved"`
	Note        string                `json:"note,omitempty" yaml:"note,omitempty"`
	PostponedBy int                   `json:"postponed_by,omitempty" yaml:"postponed_by,omitempty"`
	TotalDays   int                   `json:"total_days,omitempty" yaml:"total_days,omitempty"`
	LastWorkday bool                  `json:"last_workday,omitempty" yaml:"last_workday,omitempty"`
}

// Progress is the share of the year already elapsed
type Progress struct {
	Percent   int `json:"percent" yaml:"percent"`
	Elapsed   int `json:"elapsed" yaml:"elapsed"`
	Remaining int `json:"remaining" yaml:"remaining"`
	TotalDays int `json:"total_days" yaml:"total_days"`
}

// Report is everything one run computes for a given day
type Report struct {
	Today       calendar.CalendarDate `json:"today" yaml:"today"`
	Wages       []Result              `json:"wages" yaml:"wages"`
	Holidays    []Result              `json:"holidays" yaml:"holidays"`
	LastWorkday Result                `json:"last_workday" yaml:"last_workday"`
	Year        Progress              `json:"year" yaml:"year"`
}
