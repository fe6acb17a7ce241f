package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gym-class-api/internal/dto"
	"github.com/noah-isme/gym-class-api/internal/models"
	appErrors "github.com/noah-isme/gym-class-api/pkg/errors"
)

type seriesManagerMock struct {
	filter      models.ClassSeriesFilter
	created     dto.CreateSeriesRequest
	updated     dto.UpdateSeriesRequest
	deactivated string
	err         error
}

func (m *seriesManagerMock) List(ctx context.Context, filter models.ClassSeriesFilter) ([]models.ClassSeries, *models.Pagination, error) {
	m.filter = filter
	return []models.ClassSeries{{ID: "s1", Title: "Yoga"}}, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: 1}, nil
}

func (m *seriesManagerMock) Get(ctx context.Context, id string) (*models.ClassSeries, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &models.ClassSeries{ID: id}, nil
}

func (m *seriesManagerMock) Create(ctx context.Context, req dto.CreateSeriesRequest) (*models.ClassSeries, error) {
	m.created = req
	if m.err != nil {
		return nil, m.err
	}
	return &models.ClassSeries{ID: "s-new", Title: req.Title}, nil
}

func (m *seriesManagerMock) Update(ctx context.Context, id string, req dto.UpdateSeriesRequest) (*models.ClassSeries, error) {
	m.updated = req
	return &models.ClassSeries{ID: id}, m.err
}

func (m *seriesManagerMock) Deactivate(ctx context.Context, id string) error {
	m.deactivated = id
	return m.err
}

func TestSeriesListParsesFilters(t *testing.T) {
	mock := &seriesManagerMock{}
	handler := &SeriesHandler{series: mock}
	c, w := newJSONContext(http.MethodGet, "/series?weekday=3&category=adult&active=true&page=2&limit=5", nil)

	handler.List(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, mock.filter.Weekday)
	require.Equal(t, 3, *mock.filter.Weekday)
	require.Equal(t, models.CategoryAdult, mock.filter.Category)
	require.NotNil(t, mock.filter.Active)
	require.True(t, *mock.filter.Active)
	require.Equal(t, 2, mock.filter.Page)
	require.Equal(t, 5, mock.filter.PageSize)
	require.Contains(t, w.Body.String(), `"pagination"`)
}

func TestSeriesListRejectsBadWeekday(t *testing.T) {
	handler := &SeriesHandler{series: &seriesManagerMock{}}
	c, w := newJSONContext(http.MethodGet, "/series?weekday=9", nil)

	handler.List(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSeriesGetNotFound(t *testing.T) {
	handler := &SeriesHandler{series: &seriesManagerMock{err: appErrors.ErrSeriesNotFound}}
	c, w := newJSONContext(http.MethodGet, "/series/missing", nil)
	c.Params = gin.Params{{Key: "id", Value: "missing"}}

	handler.Get(c)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestSeriesCreateReturnsCreated(t *testing.T) {
	mock := &seriesManagerMock{}
	handler := &SeriesHandler{series: mock}
	body := []byte(`{"title":"Yoga","weekday":3,"start_time":"18:00","end_time":"19:00","max_capacity":10,"period_start":"2024-01-01"}`)
	c, w := newJSONContext(http.MethodPost, "/series", body)

	handler.Create(c)

	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, "Yoga", mock.created.Title)
	require.NotNil(t, mock.created.Weekday)
	require.Equal(t, 3, *mock.created.Weekday)
}

func TestSeriesUpdatePassesPatch(t *testing.T) {
	mock := &seriesManagerMock{}
	handler := &SeriesHandler{series: mock}
	c, w := newJSONContext(http.MethodPut, "/series/s1", []byte(`{"clear_period_end":true}`))
	c.Params = gin.Params{{Key: "id", Value: "s1"}}

	handler.Update(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, mock.updated.ClearPeriodEnd)
}

func TestSeriesDeactivate(t *testing.T) {
	mock := &seriesManagerMock{}
	handler := &SeriesHandler{series: mock}
	c, w := newJSONContext(http.MethodPost, "/series/s1/deactivate", nil)
	c.Params = gin.Params{{Key: "id", Value: "s1"}}

	handler.Deactivate(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "s1", mock.deactivated)
}
