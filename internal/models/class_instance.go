package models

import "time"

// InstanceStatus tracks the lifecycle of a bookable class.
type InstanceStatus string

const (
	InstanceStatusScheduled InstanceStatus = "scheduled"
	InstanceStatusHeld      InstanceStatus = "held"
	InstanceStatusCanceled  InstanceStatus = "canceled"
)

// ClassInstance is one dated, bookable class. SeriesID is nil for classes
// created by hand rather than generated from a series.
type ClassInstance struct {
	ID          string         `db:"id" json:"id"`
	Title       string         `db:"title" json:"title"`
	Date        time.Time      `db:"date" json:"date"`
	StartTime   string         `db:"start_time" json:"start_time"`
	EndTime     string         `db:"end_time" json:"end_time"`
	Instructor  string         `db:"instructor" json:"instructor"`
	MaxCapacity int            `db:"max_capacity" json:"max_capacity"`
	Status      InstanceStatus `db:"status" json:"status"`
	Category    ClassCategory  `db:"category" json:"category"`
	ClassType   ClassType      `db:"class_type" json:"class_type"`
	SeriesID    *string        `db:"series_id" json:"series_id,omitempty"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updated_at"`
}

// InstanceKey identifies a generated instance: at most one per series and date.
type InstanceKey struct {
	SeriesID string    `db:"series_id"`
	Date     time.Time `db:"date"`
}

// ClassInstanceFilter describes query params for listing instances.
type ClassInstanceFilter struct {
	From     *time.Time
	To       *time.Time
	SeriesID string
	Status   InstanceStatus
	Category ClassCategory
	Page     int
	PageSize int
}

// CancelScope selects how far a cancellation reaches.
type CancelScope string

const (
	CancelScopeSingle CancelScope = "single"
	CancelScopeFuture CancelScope = "future"
)
