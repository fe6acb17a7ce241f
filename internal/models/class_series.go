package models

import "time"

// ClassCategory is the audience a class is meant for.
type ClassCategory string

const (
	CategoryChild ClassCategory = "child"
	CategoryAdult ClassCategory = "adult"
	CategoryAll   ClassCategory = "all"
)

// ClassType distinguishes group classes from one-to-one sessions.
type ClassType string

const (
	ClassTypeGroup      ClassType = "group"
	ClassTypeIndividual ClassType = "individual"
)

// ClassSeries is a weekly recurring class template. It occurs on Weekday
// (0 = Sunday) between PeriodStart and PeriodEnd, both inclusive; a nil
// PeriodEnd is open-ended.
type ClassSeries struct {
	ID          string        `db:"id" json:"id"`
	Title       string        `db:"title" json:"title"`
	Weekday     int           `db:"weekday" json:"weekday"`
	StartTime   string        `db:"start_time" json:"start_time"`
	EndTime     string        `db:"end_time" json:"end_time"`
	Category    ClassCategory `db:"category" json:"category"`
	ClassType   ClassType     `db:"class_type" json:"class_type"`
	Instructor  string        `db:"instructor" json:"instructor"`
	MaxCapacity int           `db:"max_capacity" json:"max_capacity"`
	Active      bool          `db:"active" json:"active"`
	PeriodStart time.Time     `db:"period_start" json:"period_start"`
	PeriodEnd   *time.Time    `db:"period_end" json:"period_end,omitempty"`
	CreatedAt   time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time     `db:"updated_at" json:"updated_at"`
}

// PeriodOrdered reports whether the period bounds are consistent. Inactive
// series may end before they start; that is how a series canceled from its
// first occurrence is stored.
func (s ClassSeries) PeriodOrdered() bool {
	return !s.Active || s.PeriodEnd == nil || !s.PeriodEnd.Before(s.PeriodStart)
}

// ClassSeriesFilter narrows series lookups. OverlapFrom/OverlapTo select
// series whose effective period intersects that window.
type ClassSeriesFilter struct {
	ID          string
	ActiveOnly  bool
	Active      *bool
	Weekday     *int
	Category    ClassCategory
	OverlapFrom *time.Time
	OverlapTo   *time.Time
	Page        int
	PageSize    int
}
