package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/gym-class-api/internal/dto"
	"github.com/noah-isme/gym-class-api/internal/service"
	appErrors "github.com/noah-isme/gym-class-api/pkg/errors"
	"github.com/noah-isme/gym-class-api/pkg/response"
)

type recurrenceEngine interface {
	Generate(ctx context.Context, req dto.GenerateInstancesRequest) (*dto.GenerateInstancesResponse, error)
	Cancel(ctx context.Context, instanceID string, scope string) (*dto.CancelInstanceResponse, error)
}

// RecurrenceHandler exposes class generation and cancellation.
type RecurrenceHandler struct {
	engine recurrenceEngine
}

// NewRecurrenceHandler constructs the handler.
func NewRecurrenceHandler(svc *service.RecurrenceService) *RecurrenceHandler {
	return &RecurrenceHandler{engine: svc}
}

// Generate godoc
// @Summary Generate class instances from active series
// @Description Materializes every missing weekly occurrence inside the window. Safe to repeat: dates already generated are reported as existing.
// @Tags Recurrence
// @Accept json
// @Produce json
// @Param payload body dto.GenerateInstancesRequest true "Generation window"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /recurrence/generate [post]
func (h *RecurrenceHandler) Generate(c *gin.Context) {
	var req dto.GenerateInstancesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid generate payload"))
		return
	}
	result, err := h.engine.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// Cancel godoc
// @Summary Cancel a class instance
// @Description scope=single cancels one instance; scope=future also cancels later instances of the series and ends the series the day before.
// @Tags Recurrence
// @Accept json
// @Produce json
// @Param id path string true "Instance ID"
// @Param scope query string false "single or future"
// @Param payload body dto.CancelInstanceRequest false "Cancellation scope"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /instances/{id} [delete]
func (h *RecurrenceHandler) Cancel(c *gin.Context) {
	var req dto.CancelInstanceRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid cancel payload"))
		return
	}
	if req.Scope == "" {
		req.Scope = c.Query("scope")
	}
	result, err := h.engine.Cancel(c.Request.Context(), c.Param("id"), req.Scope)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}
