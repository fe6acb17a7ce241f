package models

import "time"

// Event topics published after schedule changes.
const (
	TopicInstancesGenerated = "class.instances.generated"
	TopicInstanceCanceled   = "class.instance.canceled"
)

// InstancesGeneratedEvent describes a completed generation run.
type InstancesGeneratedEvent struct {
	WindowStart     string    `json:"window_start"`
	WindowEnd       string    `json:"window_end"`
	SeriesID        *string   `json:"series_id,omitempty"`
	Created         int       `json:"created"`
	Existing        int       `json:"existing"`
	SeriesProcessed int       `json:"series_processed"`
	OccurredAt      time.Time `json:"occurred_at"`
}

// InstanceCanceledEvent describes a cancellation and how far it reached.
type InstanceCanceledEvent struct {
	InstanceID string      `json:"instance_id"`
	SeriesID   *string     `json:"series_id,omitempty"`
	Scope      CancelScope `json:"scope"`
	Canceled   int64       `json:"canceled"`
	OccurredAt time.Time   `json:"occurred_at"`
}
