package service

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsServiceRecordsGeneration(t *testing.T) {
	metrics := NewMetricsService()

	metrics.ObserveGeneration(5, 2, 30*time.Millisecond)
	metrics.ObserveGeneration(0, 7, 10*time.Millisecond)

	assert.Equal(t, float64(5), testutil.ToFloat64(metrics.generatedInstances.WithLabelValues("created")))
	assert.Equal(t, float64(9), testutil.ToFloat64(metrics.generatedInstances.WithLabelValues("existing")))
	assert.Equal(t, 1, testutil.CollectAndCount(metrics.generateDuration))
}

func TestMetricsServiceRecordsCancellations(t *testing.T) {
	metrics := NewMetricsService()

	metrics.ObserveCancellation("single", 1)
	metrics.ObserveCancellation("future", 3)
	metrics.ObserveCancellation("future", 2)

	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.cancellations.WithLabelValues("single")))
	assert.Equal(t, float64(5), testutil.ToFloat64(metrics.cancellations.WithLabelValues("future")))
}

func TestMetricsServiceHandlerExposesCollectors(t *testing.T) {
	metrics := NewMetricsService()
	metrics.ObserveHTTPRequest(http.MethodPost, "/api/v1/recurrence/generate", http.StatusOK, 15*time.Millisecond)

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `http_requests_total{method="POST",path="/api/v1/recurrence/generate",status="200"} 1`)
	assert.Contains(t, rec.Body.String(), "class_generation_duration_seconds")
}

func TestMetricsServiceNilIsSafe(t *testing.T) {
	var metrics *MetricsService
	metrics.ObserveGeneration(1, 1, time.Millisecond)
	metrics.ObserveCancellation("single", 1)
	metrics.RecordCacheOperation(true, time.Millisecond)

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
