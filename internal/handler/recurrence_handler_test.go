package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gym-class-api/internal/dto"
	appErrors "github.com/noah-isme/gym-class-api/pkg/errors"
)

type recurrenceEngineMock struct {
	generated   dto.GenerateInstancesRequest
	canceledID  string
	cancelScope string
	err         error
}

func (m *recurrenceEngineMock) Generate(ctx context.Context, req dto.GenerateInstancesRequest) (*dto.GenerateInstancesResponse, error) {
	m.generated = req
	if m.err != nil {
		return nil, m.err
	}
	return &dto.GenerateInstancesResponse{Created: 5, SeriesProcessed: 1}, nil
}

func (m *recurrenceEngineMock) Cancel(ctx context.Context, instanceID string, scope string) (*dto.CancelInstanceResponse, error) {
	m.canceledID = instanceID
	m.cancelScope = scope
	if m.err != nil {
		return nil, m.err
	}
	return &dto.CancelInstanceResponse{OK: true, Scope: scope, Canceled: 1}, nil
}

func newJSONContext(method, target string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	req, _ := http.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	return c, w
}

func TestRecurrenceGenerateSuccess(t *testing.T) {
	engine := &recurrenceEngineMock{}
	handler := &RecurrenceHandler{engine: engine}
	c, w := newJSONContext(http.MethodPost, "/recurrence/generate", []byte(`{"window_start":"2024-01-01","window_end":"2024-01-31","series_id":"s1"}`))

	handler.Generate(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "2024-01-01", engine.generated.WindowStart)
	require.Equal(t, "s1", engine.generated.SeriesID)
	require.Contains(t, w.Body.String(), `"created":5`)
}

func TestRecurrenceGenerateMalformedBody(t *testing.T) {
	handler := &RecurrenceHandler{engine: &recurrenceEngineMock{}}
	c, w := newJSONContext(http.MethodPost, "/recurrence/generate", []byte(`{"window_start":`))

	handler.Generate(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRecurrenceGenerateInvalidWindow(t *testing.T) {
	handler := &RecurrenceHandler{engine: &recurrenceEngineMock{err: appErrors.ErrInvalidWindow}}
	c, w := newJSONContext(http.MethodPost, "/recurrence/generate", []byte(`{"window_start":"2024-02-01","window_end":"2024-01-01"}`))

	handler.Generate(c)

	require.Equal(t, appErrors.ErrInvalidWindow.Status, w.Code)
}

func TestRecurrenceCancelScopeFromBody(t *testing.T) {
	engine := &recurrenceEngineMock{}
	handler := &RecurrenceHandler{engine: engine}
	c, w := newJSONContext(http.MethodDelete, "/instances/i1", []byte(`{"scope":"future"}`))
	c.Params = gin.Params{{Key: "id", Value: "i1"}}

	handler.Cancel(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "i1", engine.canceledID)
	require.Equal(t, "future", engine.cancelScope)
}

func TestRecurrenceCancelScopeFromQuery(t *testing.T) {
	engine := &recurrenceEngineMock{}
	handler := &RecurrenceHandler{engine: engine}
	c, w := newJSONContext(http.MethodDelete, "/instances/i2?scope=future", nil)
	c.Params = gin.Params{{Key: "id", Value: "i2"}}

	handler.Cancel(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "future", engine.cancelScope)
}

func TestRecurrenceCancelWithoutScope(t *testing.T) {
	engine := &recurrenceEngineMock{}
	handler := &RecurrenceHandler{engine: engine}
	c, w := newJSONContext(http.MethodDelete, "/instances/i3", nil)
	c.Params = gin.Params{{Key: "id", Value: "i3"}}

	handler.Cancel(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.Empty(t, engine.cancelScope)
}

func TestRecurrenceCancelNotFound(t *testing.T) {
	handler := &RecurrenceHandler{engine: &recurrenceEngineMock{err: appErrors.ErrInstanceNotFound}}
	c, w := newJSONContext(http.MethodDelete, "/instances/missing", nil)
	c.Params = gin.Params{{Key: "id", Value: "missing"}}

	handler.Cancel(c)

	require.Equal(t, http.StatusNotFound, w.Code)
}
