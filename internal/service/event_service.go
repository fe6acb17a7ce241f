package service

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/gym-class-api/internal/models"
	"github.com/noah-isme/gym-class-api/pkg/events"
	"github.com/noah-isme/gym-class-api/pkg/jobs"
)

type eventQueue interface {
	Enqueue(job jobs.Job) error
}

// EventService hands schedule events to the background publisher queue.
// Publishing never fails the caller; problems are logged.
type EventService struct {
	queue  eventQueue
	logger *zap.Logger
	now    func() time.Time
}

// NewEventService constructs an EventService. A nil queue drops events.
func NewEventService(queue eventQueue, logger *zap.Logger) *EventService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventService{queue: queue, logger: logger, now: time.Now}
}

// PublishHandler returns the queue handler that forwards jobs to the broker.
func PublishHandler(publisher events.Publisher) jobs.Handler {
	return func(ctx context.Context, job jobs.Job) error {
		return publisher.Publish(ctx, job.Topic, job.Body)
	}
}

// InstancesGenerated announces a finished generation run.
func (s *EventService) InstancesGenerated(evt models.InstancesGeneratedEvent) {
	if s == nil {
		return
	}
	if evt.OccurredAt.IsZero() {
		evt.OccurredAt = s.now().UTC()
	}
	s.enqueue(models.TopicInstancesGenerated, evt)
}

// InstanceCanceled announces a cancellation.
func (s *EventService) InstanceCanceled(evt models.InstanceCanceledEvent) {
	if s == nil {
		return
	}
	if evt.OccurredAt.IsZero() {
		evt.OccurredAt = s.now().UTC()
	}
	s.enqueue(models.TopicInstanceCanceled, evt)
}

func (s *EventService) enqueue(topic string, payload interface{}) {
	if s.queue == nil {
		return
	}
	body, err := json.Marshal(payload)
	if err != nil {
		s.logger.Error("failed to encode event", zap.String("topic", topic), zap.Error(err))
		return
	}
	if err := s.queue.Enqueue(jobs.Job{Topic: topic, Body: body}); err != nil {
		s.logger.Warn("failed to enqueue event", zap.String("topic", topic), zap.Error(err))
	}
}
