package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/gym-class-api/internal/dto"
	"github.com/noah-isme/gym-class-api/internal/models"
	"github.com/noah-isme/gym-class-api/pkg/calendar"
	appErrors "github.com/noah-isme/gym-class-api/pkg/errors"
)

const instanceCachePattern = instanceCachePrefix + ":*"

type recurrenceSeriesStore interface {
	ListActiveInWindow(ctx context.Context, from, to time.Time, seriesID string) ([]models.ClassSeries, error)
	FindByID(ctx context.Context, id string) (*models.ClassSeries, error)
	Truncate(ctx context.Context, id string, periodEnd time.Time, deactivate bool) error
}

type recurrenceInstanceStore interface {
	ListKeys(ctx context.Context, seriesIDs []string, from, to time.Time) ([]models.InstanceKey, error)
	InsertBatch(ctx context.Context, instances []models.ClassInstance) (int64, error)
	FindByID(ctx context.Context, id string) (*models.ClassInstance, error)
	UpdateStatus(ctx context.Context, id string, status models.InstanceStatus) (int64, error)
	CancelSeriesFrom(ctx context.Context, seriesID string, from time.Time) (int64, error)
}

type cacheInvalidator interface {
	Invalidate(ctx context.Context, pattern string) error
}

type scheduleEvents interface {
	InstancesGenerated(evt models.InstancesGeneratedEvent)
	InstanceCanceled(evt models.InstanceCanceledEvent)
}

// RecurrenceConfig tunes generation.
type RecurrenceConfig struct {
	BatchSize     int
	MaxWindowDays int
}

// RecurrenceService expands weekly class series into dated instances and
// applies scoped cancellations.
type RecurrenceService struct {
	series    recurrenceSeriesStore
	instances recurrenceInstanceStore
	cache     cacheInvalidator
	events    scheduleEvents
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	cfg       RecurrenceConfig
}

// NewRecurrenceService wires the recurrence engine. cache, events and metrics are optional.
func NewRecurrenceService(
	series recurrenceSeriesStore,
	instances recurrenceInstanceStore,
	cache cacheInvalidator,
	events scheduleEvents,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg RecurrenceConfig,
) *RecurrenceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 200
	}
	return &RecurrenceService{
		series:    series,
		instances: instances,
		cache:     cache,
		events:    events,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
	}
}

// Generate materializes every missing instance of the active series
// overlapping [WindowStart, WindowEnd]. Dates that already have an instance
// for the same series are counted as existing and left alone, so the call is
// safe to repeat after a failure.
func (s *RecurrenceService) Generate(ctx context.Context, req dto.GenerateInstancesRequest) (*dto.GenerateInstancesResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid generate payload")
	}
	windowStart, err := calendar.ParseDate(req.WindowStart)
	if err != nil {
		return nil, appErrors.WrapAs(err, appErrors.ErrValidation, "invalid window_start")
	}
	windowEnd, err := calendar.ParseDate(req.WindowEnd)
	if err != nil {
		return nil, appErrors.WrapAs(err, appErrors.ErrValidation, "invalid window_end")
	}
	if windowEnd.Before(windowStart) {
		return nil, appErrors.ErrInvalidWindow
	}
	if s.cfg.MaxWindowDays > 0 {
		if days := int(windowEnd.Sub(windowStart).Hours()/24) + 1; days > s.cfg.MaxWindowDays {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("window spans %d days, at most %d allowed", days, s.cfg.MaxWindowDays))
		}
	}

	started := time.Now()
	result := &dto.GenerateInstancesResponse{
		Period: dto.GenerationPeriod{WindowStart: calendar.Format(windowStart), WindowEnd: calendar.Format(windowEnd)},
	}

	series, err := s.series.ListActiveInWindow(ctx, windowStart, windowEnd, req.SeriesID)
	if err != nil {
		return nil, appErrors.WrapAs(err, appErrors.ErrSeriesLoad, "")
	}
	for i := range series {
		if err := validateSeries(&series[i]); err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("series %s is invalid: %v", series[i].ID, err))
		}
	}
	result.SeriesProcessed = len(series)
	if len(series) == 0 {
		return result, nil
	}

	ids := make([]string, len(series))
	for i := range series {
		ids[i] = series[i].ID
	}
	keys, err := s.instances.ListKeys(ctx, ids, windowStart, windowEnd)
	if err != nil {
		return nil, appErrors.WrapAs(err, appErrors.ErrInstanceLoad, "")
	}
	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		seen[dedupKey(k.SeriesID, k.Date)] = struct{}{}
	}

	var pending []models.ClassInstance
	for i := range series {
		ser := &series[i]
		from, to, ok := calendar.Intersect(windowStart, windowEnd, ser.PeriodStart, ser.PeriodEnd)
		if !ok {
			continue
		}
		for _, date := range calendar.WeekdayDates(from, to, time.Weekday(ser.Weekday)) {
			key := dedupKey(ser.ID, date)
			if _, exists := seen[key]; exists {
				result.Existing++
				continue
			}
			seen[key] = struct{}{}
			pending = append(pending, instanceFromSeries(ser, date))
		}
	}

	for offset := 0; offset < len(pending); offset += s.cfg.BatchSize {
		end := offset + s.cfg.BatchSize
		if end > len(pending) {
			end = len(pending)
		}
		batch := pending[offset:end]
		inserted, err := s.instances.InsertBatch(ctx, batch)
		if err != nil {
			unconfirmed := len(pending) - offset
			s.logger.Error("class instance batch insert failed",
				zap.String("window_start", result.Period.WindowStart),
				zap.String("window_end", result.Period.WindowEnd),
				zap.Int("created", result.Created),
				zap.Int("unconfirmed", unconfirmed),
				zap.Error(err))
			if result.Created > 0 {
				s.invalidateInstances(ctx)
			}
			return nil, appErrors.WrapAs(err, appErrors.ErrInsertBatch,
				fmt.Sprintf("failed to insert class instances: %d instances not yet confirmed, retry the same window", unconfirmed))
		}
		result.Created += int(inserted)
		// rows the store skipped were created concurrently by another run
		result.Existing += len(batch) - int(inserted)
	}

	s.metrics.ObserveGeneration(result.Created, result.Existing, time.Since(started))
	if result.Created > 0 {
		s.invalidateInstances(ctx)
	}
	if s.events != nil {
		evt := models.InstancesGeneratedEvent{
			WindowStart:     result.Period.WindowStart,
			WindowEnd:       result.Period.WindowEnd,
			Created:         result.Created,
			Existing:        result.Existing,
			SeriesProcessed: result.SeriesProcessed,
		}
		if req.SeriesID != "" {
			id := req.SeriesID
			evt.SeriesID = &id
		}
		s.events.InstancesGenerated(evt)
	}
	s.logger.Info("class instances generated",
		zap.String("window_start", result.Period.WindowStart),
		zap.String("window_end", result.Period.WindowEnd),
		zap.Int("created", result.Created),
		zap.Int("existing", result.Existing),
		zap.Int("series_processed", result.SeriesProcessed))

	return result, nil
}

// Cancel cancels an instance. With scope future the cancellation extends to
// every later instance of the same series and the series is cut off the day
// before, so later generation runs never bring those dates back.
func (s *RecurrenceService) Cancel(ctx context.Context, instanceID string, scope string) (*dto.CancelInstanceResponse, error) {
	if scope == "" {
		scope = string(models.CancelScopeSingle)
	}
	if err := s.validator.Struct(dto.CancelInstanceRequest{Scope: scope}); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "scope must be single or future")
	}

	instance, err := s.instances.FindByID(ctx, instanceID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrInstanceNotFound
		}
		return nil, appErrors.WrapAs(err, appErrors.ErrInstanceLoad, "")
	}

	var canceled int64
	if models.CancelScope(scope) == models.CancelScopeFuture && instance.SeriesID != nil {
		canceled, err = s.cancelFuture(ctx, instance)
	} else {
		canceled, err = s.cancelSingle(ctx, instance.ID)
	}
	if err != nil {
		return nil, err
	}

	s.metrics.ObserveCancellation(scope, canceled)
	s.invalidateInstances(ctx)
	if s.events != nil {
		s.events.InstanceCanceled(models.InstanceCanceledEvent{
			InstanceID: instance.ID,
			SeriesID:   instance.SeriesID,
			Scope:      models.CancelScope(scope),
			Canceled:   canceled,
		})
	}
	s.logger.Info("class instance canceled",
		zap.String("instance_id", instance.ID),
		zap.String("scope", scope),
		zap.Int64("canceled", canceled))

	return &dto.CancelInstanceResponse{OK: true, Scope: scope, Canceled: canceled}, nil
}

func (s *RecurrenceService) cancelSingle(ctx context.Context, id string) (int64, error) {
	affected, err := s.instances.UpdateStatus(ctx, id, models.InstanceStatusCanceled)
	if err != nil {
		return 0, appErrors.WrapAs(err, appErrors.ErrInstanceUpdate, "")
	}
	if affected == 0 {
		return 0, appErrors.ErrInstanceNotFound
	}
	return affected, nil
}

func (s *RecurrenceService) cancelFuture(ctx context.Context, instance *models.ClassInstance) (int64, error) {
	seriesID := *instance.SeriesID
	canceled, err := s.instances.CancelSeriesFrom(ctx, seriesID, instance.Date)
	if err != nil {
		return 0, appErrors.WrapAs(err, appErrors.ErrInstanceUpdate, "")
	}

	series, err := s.series.FindByID(ctx, seriesID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("series missing, skipping truncation", zap.String("series_id", seriesID))
			return canceled, nil
		}
		return 0, appErrors.WrapAs(err, appErrors.ErrSeriesLoad, "")
	}

	periodEnd, ok := calendar.DayBefore(instance.Date)
	deactivate := !ok || periodEnd.Before(series.PeriodStart)
	if !deactivate && series.PeriodEnd != nil && series.PeriodEnd.Before(periodEnd) {
		// already ends earlier; never extend a series
		return canceled, nil
	}

	if err := s.series.Truncate(ctx, seriesID, periodEnd, deactivate); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("series missing, skipping truncation", zap.String("series_id", seriesID))
			return canceled, nil
		}
		return 0, appErrors.WrapAs(err, appErrors.ErrSeriesUpdate, "")
	}
	return canceled, nil
}

func (s *RecurrenceService) invalidateInstances(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, instanceCachePattern); err != nil {
		s.logger.Warn("failed to invalidate instance cache", zap.Error(err))
	}
}

func instanceFromSeries(s *models.ClassSeries, date time.Time) models.ClassInstance {
	seriesID := s.ID
	return models.ClassInstance{
		Title:       s.Title,
		Date:        date,
		StartTime:   calendar.NormalizeTime(s.StartTime),
		EndTime:     calendar.NormalizeTime(s.EndTime),
		Instructor:  s.Instructor,
		MaxCapacity: s.MaxCapacity,
		Status:      models.InstanceStatusScheduled,
		Category:    s.Category,
		ClassType:   s.ClassType,
		SeriesID:    &seriesID,
	}
}

func dedupKey(seriesID string, date time.Time) string {
	return seriesID + "|" + calendar.Format(calendar.DateOf(date))
}

// validateSeries checks the invariants a stored series must hold before it is expanded.
func validateSeries(s *models.ClassSeries) error {
	switch {
	case s.Weekday < 0 || s.Weekday > 6:
		return fmt.Errorf("weekday %d out of range", s.Weekday)
	case s.MaxCapacity <= 0:
		return fmt.Errorf("max_capacity must be positive")
	case !calendar.ValidTimeOfDay(calendar.NormalizeTime(s.StartTime)):
		return fmt.Errorf("invalid start_time %q", s.StartTime)
	case !calendar.ValidTimeOfDay(calendar.NormalizeTime(s.EndTime)):
		return fmt.Errorf("invalid end_time %q", s.EndTime)
	case !s.PeriodOrdered():
		return fmt.Errorf("period_end before period_start")
	}
	switch s.Category {
	case models.CategoryChild, models.CategoryAdult, models.CategoryAll:
	default:
		return fmt.Errorf("unknown category %q", s.Category)
	}
	switch s.ClassType {
	case models.ClassTypeGroup, models.ClassTypeIndividual:
	default:
		return fmt.Errorf("unknown class_type %q", s.ClassType)
	}
	return nil
}
