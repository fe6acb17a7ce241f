package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/gym-class-api/internal/models"
	"github.com/noah-isme/gym-class-api/pkg/calendar"
)

const seriesColumns = `id, title, weekday, start_time::text AS start_time, end_time::text AS end_time, category, class_type, instructor, max_capacity, active, period_start, period_end, created_at, updated_at`

// ClassSeriesRepository provides persistence for recurring class series.
type ClassSeriesRepository struct {
	db *sqlx.DB
}

// NewClassSeriesRepository creates a new series repository.
func NewClassSeriesRepository(db *sqlx.DB) *ClassSeriesRepository {
	return &ClassSeriesRepository{db: db}
}

func seriesConditions(filter models.ClassSeriesFilter) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	if filter.ID != "" {
		args = append(args, filter.ID)
		conditions = append(conditions, fmt.Sprintf("id = $%d", len(args)))
	}
	if filter.ActiveOnly {
		conditions = append(conditions, "active = TRUE")
	} else if filter.Active != nil {
		args = append(args, *filter.Active)
		conditions = append(conditions, fmt.Sprintf("active = $%d", len(args)))
	}
	if filter.Weekday != nil {
		args = append(args, *filter.Weekday)
		conditions = append(conditions, fmt.Sprintf("weekday = $%d", len(args)))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		conditions = append(conditions, fmt.Sprintf("category = $%d", len(args)))
	}
	if filter.OverlapTo != nil {
		args = append(args, calendar.Format(*filter.OverlapTo))
		conditions = append(conditions, fmt.Sprintf("period_start <= $%d::date", len(args)))
	}
	if filter.OverlapFrom != nil {
		args = append(args, calendar.Format(*filter.OverlapFrom))
		conditions = append(conditions, fmt.Sprintf("(period_end IS NULL OR period_end >= $%d::date)", len(args)))
	}

	where := "WHERE 1=1"
	if len(conditions) > 0 {
		where += " AND " + strings.Join(conditions, " AND ")
	}
	return where, args
}

// ListActiveInWindow returns active series whose effective period overlaps
// [from, to], optionally restricted to one id, ordered by weekday and start time.
func (r *ClassSeriesRepository) ListActiveInWindow(ctx context.Context, from, to time.Time, seriesID string) ([]models.ClassSeries, error) {
	where, args := seriesConditions(models.ClassSeriesFilter{
		ID:          seriesID,
		ActiveOnly:  true,
		OverlapFrom: &from,
		OverlapTo:   &to,
	})
	query := fmt.Sprintf("SELECT %s FROM class_series %s ORDER BY weekday ASC, start_time ASC, id ASC", seriesColumns, where)

	var series []models.ClassSeries
	if err := r.db.SelectContext(ctx, &series, query, args...); err != nil {
		return nil, fmt.Errorf("list active class series: %w", err)
	}
	for i := range series {
		normalizeSeriesDates(&series[i])
	}
	return series, nil
}

// List returns series with optional filtering and pagination.
func (r *ClassSeriesRepository) List(ctx context.Context, filter models.ClassSeriesFilter) ([]models.ClassSeries, int, error) {
	where, args := seriesConditions(filter)
	page, size := models.NormalizePage(filter.Page, filter.PageSize)
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s FROM class_series %s ORDER BY weekday ASC, start_time ASC, id ASC LIMIT %d OFFSET %d", seriesColumns, where, size, offset)
	var series []models.ClassSeries
	if err := r.db.SelectContext(ctx, &series, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list class series: %w", err)
	}
	for i := range series {
		normalizeSeriesDates(&series[i])
	}

	var total int
	if err := r.db.GetContext(ctx, &total, fmt.Sprintf("SELECT COUNT(*) FROM class_series %s", where), args...); err != nil {
		return nil, 0, fmt.Errorf("count class series: %w", err)
	}
	return series, total, nil
}

// FindByID loads a series by id. A missing row yields sql.ErrNoRows.
func (r *ClassSeriesRepository) FindByID(ctx context.Context, id string) (*models.ClassSeries, error) {
	query := fmt.Sprintf("SELECT %s FROM class_series WHERE id = $1", seriesColumns)
	var series models.ClassSeries
	if err := r.db.GetContext(ctx, &series, query, id); err != nil {
		return nil, err
	}
	normalizeSeriesDates(&series)
	return &series, nil
}

// Create stores a new series.
func (r *ClassSeriesRepository) Create(ctx context.Context, series *models.ClassSeries) error {
	if series.ID == "" {
		series.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	series.CreatedAt = now
	series.UpdatedAt = now

	const query = `INSERT INTO class_series (id, title, weekday, start_time, end_time, category, class_type, instructor, max_capacity, active, period_start, period_end, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11::date, $12::date, $13, $14)`
	if _, err := r.db.ExecContext(ctx, query, seriesArgs(series)...); err != nil {
		return fmt.Errorf("create class series: %w", err)
	}
	return nil
}

// Update rewrites every mutable column of a series.
func (r *ClassSeriesRepository) Update(ctx context.Context, series *models.ClassSeries) error {
	series.UpdatedAt = time.Now().UTC()
	const query = `UPDATE class_series SET title = $2, weekday = $3, start_time = $4, end_time = $5, category = $6, class_type = $7, instructor = $8, max_capacity = $9, active = $10, period_start = $11::date, period_end = $12::date, updated_at = $13
WHERE id = $1`
	args := seriesArgs(series)
	args = append(args[:12], series.UpdatedAt)
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update class series: %w", err)
	}
	return expectRows(res)
}

// Truncate ends a series on periodEnd. When deactivate is set the series is
// also switched off; otherwise its active flag is kept.
func (r *ClassSeriesRepository) Truncate(ctx context.Context, id string, periodEnd time.Time, deactivate bool) error {
	const query = `UPDATE class_series SET period_end = $2::date, active = active AND NOT $3, updated_at = $4 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, calendar.Format(periodEnd), deactivate, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("truncate class series: %w", err)
	}
	return expectRows(res)
}

// Deactivate switches a series off without touching its period.
func (r *ClassSeriesRepository) Deactivate(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE class_series SET active = FALSE, updated_at = $2 WHERE id = $1`, id, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("deactivate class series: %w", err)
	}
	return expectRows(res)
}

func seriesArgs(s *models.ClassSeries) []interface{} {
	var periodEnd interface{}
	if s.PeriodEnd != nil {
		periodEnd = calendar.Format(*s.PeriodEnd)
	}
	return []interface{}{
		s.ID, s.Title, s.Weekday, s.StartTime, s.EndTime, s.Category, s.ClassType, s.Instructor,
		s.MaxCapacity, s.Active, calendar.Format(s.PeriodStart), periodEnd, s.CreatedAt, s.UpdatedAt,
	}
}

func normalizeSeriesDates(s *models.ClassSeries) {
	s.PeriodStart = calendar.DateOf(s.PeriodStart)
	if s.PeriodEnd != nil {
		end := calendar.DateOf(*s.PeriodEnd)
		s.PeriodEnd = &end
	}
}

func expectRows(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
