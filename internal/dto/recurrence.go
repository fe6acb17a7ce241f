package dto

// GenerateInstancesRequest asks the recurrence engine to materialize class
// instances for every active series in the window.
type GenerateInstancesRequest struct {
	WindowStart string `json:"window_start" validate:"required,datetime=2006-01-02"`
	WindowEnd   string `json:"window_end" validate:"required,datetime=2006-01-02"`
	SeriesID    string `json:"series_id,omitempty"`
}

// GenerationPeriod echoes the requested window.
type GenerationPeriod struct {
	WindowStart string `json:"window_start"`
	WindowEnd   string `json:"window_end"`
}

// GenerateInstancesResponse reports what a generation run did.
type GenerateInstancesResponse struct {
	Created         int              `json:"created"`
	Existing        int              `json:"existing"`
	SeriesProcessed int              `json:"series_processed"`
	Period          GenerationPeriod `json:"period"`
}

// CancelInstanceRequest carries the optional cancellation scope.
type CancelInstanceRequest struct {
	Scope string `json:"scope" validate:"omitempty,oneof=single future"`
}

// CancelInstanceResponse confirms a cancellation.
type CancelInstanceResponse struct {
	OK       bool   `json:"ok"`
	Scope    string `json:"scope"`
	Canceled int64  `json:"canceled"`
}
