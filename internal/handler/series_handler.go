package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/gym-class-api/internal/dto"
	"github.com/noah-isme/gym-class-api/internal/models"
	"github.com/noah-isme/gym-class-api/internal/service"
	appErrors "github.com/noah-isme/gym-class-api/pkg/errors"
	"github.com/noah-isme/gym-class-api/pkg/response"
)

type seriesManager interface {
	List(ctx context.Context, filter models.ClassSeriesFilter) ([]models.ClassSeries, *models.Pagination, error)
	Get(ctx context.Context, id string) (*models.ClassSeries, error)
	Create(ctx context.Context, req dto.CreateSeriesRequest) (*models.ClassSeries, error)
	Update(ctx context.Context, id string, req dto.UpdateSeriesRequest) (*models.ClassSeries, error)
	Deactivate(ctx context.Context, id string) error
}

// SeriesHandler wires series management to HTTP routes.
type SeriesHandler struct {
	series seriesManager
}

// NewSeriesHandler constructs a SeriesHandler.
func NewSeriesHandler(svc *service.SeriesService) *SeriesHandler {
	return &SeriesHandler{series: svc}
}

// List godoc
// @Summary List class series
// @Tags Series
// @Produce json
// @Param weekday query int false "Day of week, 0 = Sunday"
// @Param category query string false "child, adult or all"
// @Param active query bool false "Filter by active flag"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /series [get]
func (h *SeriesHandler) List(c *gin.Context) {
	filter := models.ClassSeriesFilter{Category: models.ClassCategory(strings.TrimSpace(c.Query("category")))}
	if raw := c.Query("weekday"); raw != "" {
		weekday, err := strconv.Atoi(raw)
		if err != nil || weekday < 0 || weekday > 6 {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "weekday must be between 0 and 6"))
			return
		}
		filter.Weekday = &weekday
	}
	if raw := c.Query("active"); raw != "" {
		if active, err := strconv.ParseBool(raw); err == nil {
			filter.Active = &active
		}
	}
	filter.Page, filter.PageSize = pageParams(c)

	series, pagination, err := h.series.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, series, pagination)
}

// Get godoc
// @Summary Get class series
// @Tags Series
// @Produce json
// @Param id path string true "Series ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /series/{id} [get]
func (h *SeriesHandler) Get(c *gin.Context) {
	series, err := h.series.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, series)
}

// Create godoc
// @Summary Create class series
// @Tags Series
// @Accept json
// @Produce json
// @Param payload body dto.CreateSeriesRequest true "Series payload"
// @Success 201 {object} response.Envelope
// @Router /series [post]
func (h *SeriesHandler) Create(c *gin.Context) {
	var req dto.CreateSeriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid series payload"))
		return
	}
	series, err := h.series.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, series)
}

// Update godoc
// @Summary Update class series
// @Tags Series
// @Accept json
// @Produce json
// @Param id path string true "Series ID"
// @Param payload body dto.UpdateSeriesRequest true "Fields to change"
// @Success 200 {object} response.Envelope
// @Router /series/{id} [put]
func (h *SeriesHandler) Update(c *gin.Context) {
	var req dto.UpdateSeriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid series payload"))
		return
	}
	series, err := h.series.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, series)
}

// Deactivate godoc
// @Summary Deactivate class series
// @Tags Series
// @Produce json
// @Param id path string true "Series ID"
// @Success 200 {object} response.Envelope
// @Router /series/{id}/deactivate [post]
func (h *SeriesHandler) Deactivate(c *gin.Context) {
	if err := h.series.Deactivate(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"ok": true})
}

func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	return models.NormalizePage(page, size)
}
