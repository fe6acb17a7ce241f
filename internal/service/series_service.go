package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/gym-class-api/internal/dto"
	"github.com/noah-isme/gym-class-api/internal/models"
	"github.com/noah-isme/gym-class-api/pkg/calendar"
	appErrors "github.com/noah-isme/gym-class-api/pkg/errors"
)

type seriesRepository interface {
	List(ctx context.Context, filter models.ClassSeriesFilter) ([]models.ClassSeries, int, error)
	FindByID(ctx context.Context, id string) (*models.ClassSeries, error)
	Create(ctx context.Context, series *models.ClassSeries) error
	Update(ctx context.Context, series *models.ClassSeries) error
	Deactivate(ctx context.Context, id string) error
}

// SeriesService manages recurring class templates.
type SeriesService struct {
	repo      seriesRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSeriesService constructs a SeriesService.
func NewSeriesService(repo seriesRepository, validate *validator.Validate, logger *zap.Logger) *SeriesService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SeriesService{repo: repo, validator: validate, logger: logger}
}

// List returns series plus pagination data.
func (s *SeriesService) List(ctx context.Context, filter models.ClassSeriesFilter) ([]models.ClassSeries, *models.Pagination, error) {
	series, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.WrapAs(err, appErrors.ErrSeriesLoad, "")
	}
	page, size := models.NormalizePage(filter.Page, filter.PageSize)
	return series, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get returns a series by id.
func (s *SeriesService) Get(ctx context.Context, id string) (*models.ClassSeries, error) {
	series, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrSeriesNotFound
		}
		return nil, appErrors.WrapAs(err, appErrors.ErrSeriesLoad, "")
	}
	return series, nil
}

// Create registers a new series. Category defaults to all and class type to group.
func (s *SeriesService) Create(ctx context.Context, req dto.CreateSeriesRequest) (*models.ClassSeries, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid series payload")
	}

	periodStart, err := calendar.ParseDate(req.PeriodStart)
	if err != nil {
		return nil, appErrors.WrapAs(err, appErrors.ErrValidation, "invalid period_start")
	}
	series := &models.ClassSeries{
		Title:       strings.TrimSpace(req.Title),
		Weekday:     *req.Weekday,
		StartTime:   calendar.NormalizeTime(strings.TrimSpace(req.StartTime)),
		EndTime:     calendar.NormalizeTime(strings.TrimSpace(req.EndTime)),
		Category:    models.CategoryAll,
		ClassType:   models.ClassTypeGroup,
		Instructor:  strings.TrimSpace(req.Instructor),
		MaxCapacity: req.MaxCapacity,
		Active:      true,
		PeriodStart: periodStart,
	}
	if req.Category != "" {
		series.Category = models.ClassCategory(req.Category)
	}
	if req.ClassType != "" {
		series.ClassType = models.ClassType(req.ClassType)
	}
	if req.PeriodEnd != nil {
		end, err := calendar.ParseDate(*req.PeriodEnd)
		if err != nil {
			return nil, appErrors.WrapAs(err, appErrors.ErrValidation, "invalid period_end")
		}
		series.PeriodEnd = &end
	}
	if err := validateSeries(series); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}

	if err := s.repo.Create(ctx, series); err != nil {
		return nil, appErrors.WrapAs(err, appErrors.ErrSeriesUpdate, "failed to create class series")
	}
	s.logger.Info("class series created", zap.String("series_id", series.ID), zap.Int("weekday", series.Weekday))
	return series, nil
}

// Update patches an existing series. Existing instances are not touched;
// changes apply to dates generated afterwards.
func (s *SeriesService) Update(ctx context.Context, id string, req dto.UpdateSeriesRequest) (*models.ClassSeries, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid series payload")
	}

	series, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		series.Title = strings.TrimSpace(*req.Title)
	}
	if req.Weekday != nil {
		series.Weekday = *req.Weekday
	}
	if req.StartTime != nil {
		series.StartTime = calendar.NormalizeTime(strings.TrimSpace(*req.StartTime))
	}
	if req.EndTime != nil {
		series.EndTime = calendar.NormalizeTime(strings.TrimSpace(*req.EndTime))
	}
	if req.Category != nil {
		series.Category = models.ClassCategory(*req.Category)
	}
	if req.ClassType != nil {
		series.ClassType = models.ClassType(*req.ClassType)
	}
	if req.Instructor != nil {
		series.Instructor = strings.TrimSpace(*req.Instructor)
	}
	if req.MaxCapacity != nil {
		series.MaxCapacity = *req.MaxCapacity
	}
	if req.Active != nil {
		series.Active = *req.Active
	}
	if req.PeriodStart != nil {
		start, err := calendar.ParseDate(*req.PeriodStart)
		if err != nil {
			return nil, appErrors.WrapAs(err, appErrors.ErrValidation, "invalid period_start")
		}
		series.PeriodStart = start
	}
	switch {
	case req.ClearPeriodEnd:
		series.PeriodEnd = nil
	case req.PeriodEnd != nil:
		end, err := calendar.ParseDate(*req.PeriodEnd)
		if err != nil {
			return nil, appErrors.WrapAs(err, appErrors.ErrValidation, "invalid period_end")
		}
		series.PeriodEnd = &end
	}
	if err := validateSeries(series); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}

	if err := s.repo.Update(ctx, series); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrSeriesNotFound
		}
		return nil, appErrors.WrapAs(err, appErrors.ErrSeriesUpdate, "")
	}
	return series, nil
}

// Deactivate switches a series off. Instances already generated stay as they are.
func (s *SeriesService) Deactivate(ctx context.Context, id string) error {
	if err := s.repo.Deactivate(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.ErrSeriesNotFound
		}
		return appErrors.WrapAs(err, appErrors.ErrSeriesUpdate, "")
	}
	s.logger.Info("class series deactivated", zap.String("series_id", id))
	return nil
}
