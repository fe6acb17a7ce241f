package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gym-class-api/internal/service"
)

func TestMetricsHandlerHealth(t *testing.T) {
	handler := NewMetricsHandler(nil, nil)
	c, w := newJSONContext(http.MethodGet, "/health", nil)

	handler.Health(c)

	require.Equal(t, http.StatusOK, w.Code)
}

func TestMetricsHandlerPrometheusUnavailable(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewMetricsHandler(nil, nil)
	router := gin.New()
	router.GET("/metrics", handler.Prometheus)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/metrics", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestMetricsHandlerPrometheusServes(t *testing.T) {
	handler := NewMetricsHandler(service.NewMetricsService(), nil)
	c, w := newJSONContext(http.MethodGet, "/metrics", nil)

	handler.Prometheus(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "class_generation_duration_seconds")
}

func TestMetricsHandlerReady(t *testing.T) {
	ok := PingFunc(func(ctx context.Context) error { return nil })
	down := PingFunc(func(ctx context.Context) error { return errors.New("connection refused") })

	handler := NewMetricsHandler(nil, map[string]Pinger{"postgres": ok})
	c, w := newJSONContext(http.MethodGet, "/ready", nil)
	handler.Ready(c)
	require.Equal(t, http.StatusOK, w.Code)

	handler = NewMetricsHandler(nil, map[string]Pinger{"postgres": ok, "redis": down})
	c, w = newJSONContext(http.MethodGet, "/ready", nil)
	handler.Ready(c)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	require.Contains(t, w.Body.String(), "connection refused")
}
