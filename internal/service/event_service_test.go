package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gym-class-api/internal/models"
	"github.com/noah-isme/gym-class-api/pkg/jobs"
)

type jobQueueStub struct {
	jobs []jobs.Job
	err  error
}

func (q *jobQueueStub) Enqueue(job jobs.Job) error {
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, job)
	return nil
}

type publisherStub struct {
	topic string
	body  []byte
}

func (p *publisherStub) Publish(ctx context.Context, topic string, body []byte) error {
	p.topic, p.body = topic, body
	return nil
}

func (p *publisherStub) Close() error { return nil }

func TestEventServiceEnqueuesEncodedEvents(t *testing.T) {
	queue := &jobQueueStub{}
	svc := NewEventService(queue, nil)
	fixed := time.Date(2024, time.January, 15, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	seriesID := "s1"
	svc.InstanceCanceled(models.InstanceCanceledEvent{InstanceID: "i1", SeriesID: &seriesID, Scope: models.CancelScopeFuture, Canceled: 3})
	svc.InstancesGenerated(models.InstancesGeneratedEvent{WindowStart: "2024-01-01", WindowEnd: "2024-01-31", Created: 5})

	require.Len(t, queue.jobs, 2)
	assert.Equal(t, models.TopicInstanceCanceled, queue.jobs[0].Topic)
	assert.Equal(t, models.TopicInstancesGenerated, queue.jobs[1].Topic)

	var decoded models.InstanceCanceledEvent
	require.NoError(t, json.Unmarshal(queue.jobs[0].Body, &decoded))
	assert.Equal(t, "i1", decoded.InstanceID)
	assert.Equal(t, models.CancelScopeFuture, decoded.Scope)
	assert.True(t, decoded.OccurredAt.Equal(fixed))
}

func TestEventServiceToleratesQueueFailures(t *testing.T) {
	svc := NewEventService(&jobQueueStub{err: errors.New("queue full")}, nil)
	assert.NotPanics(t, func() {
		svc.InstancesGenerated(models.InstancesGeneratedEvent{})
	})

	var nilSvc *EventService
	assert.NotPanics(t, func() {
		nilSvc.InstanceCanceled(models.InstanceCanceledEvent{})
	})
}

func TestPublishHandlerForwardsJob(t *testing.T) {
	publisher := &publisherStub{}
	handler := PublishHandler(publisher)

	err := handler(context.Background(), jobs.Job{Topic: models.TopicInstancesGenerated, Body: []byte(`{"created":1}`)})
	require.NoError(t, err)
	assert.Equal(t, models.TopicInstancesGenerated, publisher.topic)
	assert.JSONEq(t, `{"created":1}`, string(publisher.body))
}
