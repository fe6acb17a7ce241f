package dto

// CreateSeriesRequest defines a new weekly recurring class.
type CreateSeriesRequest struct {
	Title       string  `json:"title" validate:"required,max=200"`
	Weekday     *int    `json:"weekday" validate:"required,min=0,max=6"`
	StartTime   string  `json:"start_time" validate:"required"`
	EndTime     string  `json:"end_time" validate:"required"`
	Category    string  `json:"category" validate:"omitempty,oneof=child adult all"`
	ClassType   string  `json:"class_type" validate:"omitempty,oneof=group individual"`
	Instructor  string  `json:"instructor" validate:"max=200"`
	MaxCapacity int     `json:"max_capacity" validate:"required,min=1"`
	PeriodStart string  `json:"period_start" validate:"required,datetime=2006-01-02"`
	PeriodEnd   *string `json:"period_end" validate:"omitempty,datetime=2006-01-02"`
}

// UpdateSeriesRequest patches a series; nil fields are left unchanged.
// ClearPeriodEnd makes the series open-ended again.
type UpdateSeriesRequest struct {
	Title          *string `json:"title" validate:"omitempty,min=1,max=200"`
	Weekday        *int    `json:"weekday" validate:"omitempty,min=0,max=6"`
	StartTime      *string `json:"start_time"`
	EndTime        *string `json:"end_time"`
	Category       *string `json:"category" validate:"omitempty,oneof=child adult all"`
	ClassType      *string `json:"class_type" validate:"omitempty,oneof=group individual"`
	Instructor     *string `json:"instructor" validate:"omitempty,max=200"`
	MaxCapacity    *int    `json:"max_capacity" validate:"omitempty,min=1"`
	Active         *bool   `json:"active"`
	PeriodStart    *string `json:"period_start" validate:"omitempty,datetime=2006-01-02"`
	PeriodEnd      *string `json:"period_end" validate:"omitempty,datetime=2006-01-02"`
	ClearPeriodEnd bool    `json:"clear_period_end"`
}
