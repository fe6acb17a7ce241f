package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/gym-class-api/internal/models"
	"github.com/noah-isme/gym-class-api/pkg/calendar"
)

const instanceColumns = `id, title, date, start_time::text AS start_time, end_time::text AS end_time, instructor, max_capacity, status, category, class_type, series_id, created_at, updated_at`

const instanceInsertColumns = `id, title, date, start_time, end_time, instructor, max_capacity, status, category, class_type, series_id, created_at, updated_at`

const instanceInsertWidth = 13

// MaxInsertBatch is the largest batch InsertBatch accepts; PostgreSQL caps a
// statement at 65535 bind parameters.
const MaxInsertBatch = 65535 / instanceInsertWidth

// ClassInstanceRepository provides persistence for dated class instances.
type ClassInstanceRepository struct {
	db *sqlx.DB
}

// NewClassInstanceRepository creates a new instance repository.
func NewClassInstanceRepository(db *sqlx.DB) *ClassInstanceRepository {
	return &ClassInstanceRepository{db: db}
}

// ListKeys returns the (series, date) pairs already materialized for the
// given series inside [from, to].
func (r *ClassInstanceRepository) ListKeys(ctx context.Context, seriesIDs []string, from, to time.Time) ([]models.InstanceKey, error) {
	if len(seriesIDs) == 0 {
		return nil, nil
	}
	const query = `SELECT series_id, date FROM class_instances WHERE series_id = ANY($1) AND date BETWEEN $2::date AND $3::date`
	var keys []models.InstanceKey
	if err := r.db.SelectContext(ctx, &keys, query, pq.Array(seriesIDs), calendar.Format(from), calendar.Format(to)); err != nil {
		return nil, fmt.Errorf("list class instance keys: %w", err)
	}
	for i := range keys {
		keys[i].Date = calendar.DateOf(keys[i].Date)
	}
	return keys, nil
}

// InsertBatch writes instances in one statement. Rows clashing with an
// existing (series_id, date) are skipped by the store; the returned count is
// the number of rows actually inserted.
func (r *ClassInstanceRepository) InsertBatch(ctx context.Context, instances []models.ClassInstance) (int64, error) {
	if len(instances) == 0 {
		return 0, nil
	}
	if len(instances) > MaxInsertBatch {
		return 0, fmt.Errorf("insert class instances: batch of %d exceeds %d rows", len(instances), MaxInsertBatch)
	}

	now := time.Now().UTC()
	placeholders := make([]string, 0, len(instances))
	args := make([]interface{}, 0, len(instances)*instanceInsertWidth)
	for i := range instances {
		inst := &instances[i]
		if inst.ID == "" {
			inst.ID = uuid.NewString()
		}
		if inst.CreatedAt.IsZero() {
			inst.CreatedAt = now
		}
		inst.UpdatedAt = now

		base := len(args)
		marks := make([]string, instanceInsertWidth)
		for j := range marks {
			marks[j] = fmt.Sprintf("$%d", base+j+1)
		}
		placeholders = append(placeholders, "("+strings.Join(marks, ", ")+")")
		args = append(args, instanceArgs(inst)...)
	}

	query := fmt.Sprintf(`INSERT INTO class_instances (%s) VALUES %s ON CONFLICT (series_id, date) WHERE series_id IS NOT NULL DO NOTHING`,
		instanceInsertColumns, strings.Join(placeholders, ", "))
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("insert class instances: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("insert class instances rows affected: %w", err)
	}
	return affected, nil
}

// Create stores a single instance.
func (r *ClassInstanceRepository) Create(ctx context.Context, instance *models.ClassInstance) error {
	batch := []models.ClassInstance{*instance}
	inserted, err := r.InsertBatch(ctx, batch)
	if err != nil {
		return err
	}
	if inserted == 0 {
		return fmt.Errorf("create class instance: duplicate series date")
	}
	*instance = batch[0]
	return nil
}

// FindByID loads an instance by id. A missing row yields sql.ErrNoRows.
func (r *ClassInstanceRepository) FindByID(ctx context.Context, id string) (*models.ClassInstance, error) {
	query := fmt.Sprintf("SELECT %s FROM class_instances WHERE id = $1", instanceColumns)
	var inst models.ClassInstance
	if err := r.db.GetContext(ctx, &inst, query, id); err != nil {
		return nil, err
	}
	inst.Date = calendar.DateOf(inst.Date)
	return &inst, nil
}

// List returns instances with optional filtering and pagination, ordered by date and start time.
func (r *ClassInstanceRepository) List(ctx context.Context, filter models.ClassInstanceFilter) ([]models.ClassInstance, int, error) {
	var conditions []string
	var args []interface{}

	if filter.From != nil {
		args = append(args, calendar.Format(*filter.From))
		conditions = append(conditions, fmt.Sprintf("date >= $%d::date", len(args)))
	}
	if filter.To != nil {
		args = append(args, calendar.Format(*filter.To))
		conditions = append(conditions, fmt.Sprintf("date <= $%d::date", len(args)))
	}
	if filter.SeriesID != "" {
		args = append(args, filter.SeriesID)
		conditions = append(conditions, fmt.Sprintf("series_id = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		conditions = append(conditions, fmt.Sprintf("category = $%d", len(args)))
	}

	where := "WHERE 1=1"
	if len(conditions) > 0 {
		where += " AND " + strings.Join(conditions, " AND ")
	}

	page, size := models.NormalizePage(filter.Page, filter.PageSize)
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s FROM class_instances %s ORDER BY date ASC, start_time ASC, id ASC LIMIT %d OFFSET %d", instanceColumns, where, size, offset)
	var instances []models.ClassInstance
	if err := r.db.SelectContext(ctx, &instances, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list class instances: %w", err)
	}
	for i := range instances {
		instances[i].Date = calendar.DateOf(instances[i].Date)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, fmt.Sprintf("SELECT COUNT(*) FROM class_instances %s", where), args...); err != nil {
		return nil, 0, fmt.Errorf("count class instances: %w", err)
	}
	return instances, total, nil
}

// UpdateStatus sets the status of one instance and returns the rows touched.
func (r *ClassInstanceRepository) UpdateStatus(ctx context.Context, id string, status models.InstanceStatus) (int64, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE class_instances SET status = $2, updated_at = $3 WHERE id = $1`, id, status, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("update class instance status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("update class instance status rows affected: %w", err)
	}
	return affected, nil
}

// CancelSeriesFrom cancels every instance of a series dated on or after from.
func (r *ClassInstanceRepository) CancelSeriesFrom(ctx context.Context, seriesID string, from time.Time) (int64, error) {
	const query = `UPDATE class_instances SET status = $3, updated_at = $4 WHERE series_id = $1 AND date >= $2::date`
	res, err := r.db.ExecContext(ctx, query, seriesID, calendar.Format(from), models.InstanceStatusCanceled, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("cancel class series instances: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("cancel class series instances rows affected: %w", err)
	}
	return affected, nil
}

func instanceArgs(inst *models.ClassInstance) []interface{} {
	return []interface{}{
		inst.ID, inst.Title, calendar.Format(inst.Date), inst.StartTime, inst.EndTime, inst.Instructor,
		inst.MaxCapacity, inst.Status, inst.Category, inst.ClassType, inst.SeriesID, inst.CreatedAt, inst.UpdatedAt,
	}
}
