package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/gym-class-api/internal/dto"
	"github.com/noah-isme/gym-class-api/internal/models"
	"github.com/noah-isme/gym-class-api/internal/service"
	"github.com/noah-isme/gym-class-api/pkg/calendar"
	appErrors "github.com/noah-isme/gym-class-api/pkg/errors"
	"github.com/noah-isme/gym-class-api/pkg/response"
)

type instanceQueries interface {
	List(ctx context.Context, filter models.ClassInstanceFilter) ([]models.ClassInstance, *models.Pagination, error)
	Get(ctx context.Context, id string) (*models.ClassInstance, error)
	CreateAdHoc(ctx context.Context, req dto.CreateInstanceRequest) (*models.ClassInstance, error)
}

// ClassInstanceHandler serves class instance lookups.
type ClassInstanceHandler struct {
	instances instanceQueries
}

// NewClassInstanceHandler constructs a ClassInstanceHandler.
func NewClassInstanceHandler(svc *service.ClassInstanceService) *ClassInstanceHandler {
	return &ClassInstanceHandler{instances: svc}
}

// List godoc
// @Summary List class instances
// @Tags Instances
// @Produce json
// @Param from query string false "First date (YYYY-MM-DD)"
// @Param to query string false "Last date (YYYY-MM-DD)"
// @Param series_id query string false "Series ID"
// @Param status query string false "scheduled, held or canceled"
// @Param category query string false "child, adult or all"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /instances [get]
func (h *ClassInstanceHandler) List(c *gin.Context) {
	filter := models.ClassInstanceFilter{
		SeriesID: c.Query("series_id"),
		Status:   models.InstanceStatus(c.Query("status")),
		Category: models.ClassCategory(c.Query("category")),
	}
	var err error
	if filter.From, err = queryDate(c, "from"); err != nil {
		response.Error(c, err)
		return
	}
	if filter.To, err = queryDate(c, "to"); err != nil {
		response.Error(c, err)
		return
	}
	filter.Page, filter.PageSize = pageParams(c)

	items, pagination, err := h.instances.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// Get godoc
// @Summary Get class instance
// @Tags Instances
// @Produce json
// @Param id path string true "Instance ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /instances/{id} [get]
func (h *ClassInstanceHandler) Get(c *gin.Context) {
	inst, err := h.instances.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, inst)
}

// Create godoc
// @Summary Create an ad-hoc class instance
// @Tags Instances
// @Accept json
// @Produce json
// @Param payload body dto.CreateInstanceRequest true "Instance payload"
// @Success 201 {object} response.Envelope
// @Router /instances [post]
func (h *ClassInstanceHandler) Create(c *gin.Context) {
	var req dto.CreateInstanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid class payload"))
		return
	}
	inst, err := h.instances.CreateAdHoc(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, inst)
}

func queryDate(c *gin.Context, param string) (*time.Time, error) {
	raw := c.Query(param)
	if raw == "" {
		return nil, nil
	}
	d, err := calendar.ParseDate(raw)
	if err != nil {
		return nil, appErrors.WrapAs(err, appErrors.ErrValidation, param+" must be YYYY-MM-DD")
	}
	return &d, nil
}
