package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/gym-class-api/internal/dto"
	"github.com/noah-isme/gym-class-api/internal/models"
	"github.com/noah-isme/gym-class-api/pkg/calendar"
	appErrors "github.com/noah-isme/gym-class-api/pkg/errors"
)

const instanceCachePrefix = "instances"

type instanceRepository interface {
	List(ctx context.Context, filter models.ClassInstanceFilter) ([]models.ClassInstance, int, error)
	FindByID(ctx context.Context, id string) (*models.ClassInstance, error)
	Create(ctx context.Context, instance *models.ClassInstance) error
}

type instanceCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Invalidate(ctx context.Context, pattern string) error
}

type cachedInstancePage struct {
	Items      []models.ClassInstance `json:"items"`
	Pagination models.Pagination      `json:"pagination"`
}

// ClassInstanceService serves instance lookups and ad-hoc class creation.
type ClassInstanceService struct {
	repo      instanceRepository
	cache     instanceCache
	validator *validator.Validate
	logger    *zap.Logger
}

// NewClassInstanceService constructs a ClassInstanceService. cache may be nil.
func NewClassInstanceService(repo instanceRepository, cache instanceCache, validate *validator.Validate, logger *zap.Logger) *ClassInstanceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClassInstanceService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// List returns instances plus pagination data, served from cache when possible.
func (s *ClassInstanceService) List(ctx context.Context, filter models.ClassInstanceFilter) ([]models.ClassInstance, *models.Pagination, error) {
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, nil, appErrors.ErrInvalidWindow
	}
	filter.Page, filter.PageSize = models.NormalizePage(filter.Page, filter.PageSize)

	key := instanceListKey(filter)
	if s.cache != nil {
		var cached cachedInstancePage
		if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
			return cached.Items, &cached.Pagination, nil
		}
	}

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.WrapAs(err, appErrors.ErrInstanceLoad, "")
	}
	page := cachedInstancePage{
		Items:      items,
		Pagination: models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total},
	}
	if s.cache != nil {
		_ = s.cache.Set(ctx, key, page, 0)
	}
	return page.Items, &page.Pagination, nil
}

// Get returns an instance by id.
func (s *ClassInstanceService) Get(ctx context.Context, id string) (*models.ClassInstance, error) {
	instance, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrInstanceNotFound
		}
		return nil, appErrors.WrapAs(err, appErrors.ErrInstanceLoad, "")
	}
	return instance, nil
}

// CreateAdHoc stores a one-off class that belongs to no series.
func (s *ClassInstanceService) CreateAdHoc(ctx context.Context, req dto.CreateInstanceRequest) (*models.ClassInstance, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid class payload")
	}
	date, err := calendar.ParseDate(req.Date)
	if err != nil {
		return nil, appErrors.WrapAs(err, appErrors.ErrValidation, "invalid date")
	}
	startTime := calendar.NormalizeTime(strings.TrimSpace(req.StartTime))
	endTime := calendar.NormalizeTime(strings.TrimSpace(req.EndTime))
	if !calendar.ValidTimeOfDay(startTime) || !calendar.ValidTimeOfDay(endTime) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "start_time and end_time must be HH:MM or HH:MM:SS")
	}

	instance := &models.ClassInstance{
		Title:       strings.TrimSpace(req.Title),
		Date:        date,
		StartTime:   startTime,
		EndTime:     endTime,
		Instructor:  strings.TrimSpace(req.Instructor),
		MaxCapacity: req.MaxCapacity,
		Status:      models.InstanceStatusScheduled,
		Category:    models.CategoryAll,
		ClassType:   models.ClassTypeGroup,
	}
	if req.Category != "" {
		instance.Category = models.ClassCategory(req.Category)
	}
	if req.ClassType != "" {
		instance.ClassType = models.ClassType(req.ClassType)
	}

	if err := s.repo.Create(ctx, instance); err != nil {
		return nil, appErrors.WrapAs(err, appErrors.ErrInsertBatch, "failed to create class instance")
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, instanceCachePattern); err != nil {
			s.logger.Warn("failed to invalidate instance cache", zap.Error(err))
		}
	}
	s.logger.Info("ad-hoc class instance created", zap.String("instance_id", instance.ID), zap.String("date", calendar.Format(date)))
	return instance, nil
}

func instanceListKey(filter models.ClassInstanceFilter) string {
	var from, to string
	if filter.From != nil {
		from = calendar.Format(*filter.From)
	}
	if filter.To != nil {
		to = calendar.Format(*filter.To)
	}
	return cacheKey(instanceCachePrefix, from, to, filter.SeriesID, filter.Status, filter.Category, filter.Page, filter.PageSize)
}
