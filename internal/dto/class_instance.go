package dto

// CreateInstanceRequest creates a one-off class that belongs to no series.
type CreateInstanceRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime   string `json:"start_time" validate:"required"`
	EndTime     string `json:"end_time" validate:"required"`
	Instructor  string `json:"instructor" validate:"max=200"`
	MaxCapacity int    `json:"max_capacity" validate:"required,min=1"`
	Category    string `json:"category" validate:"omitempty,oneof=child adult all"`
	ClassType   string `json:"class_type" validate:"omitempty,oneof=group individual"`
}
