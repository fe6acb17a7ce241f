package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gym-class-api/internal/dto"
	"github.com/noah-isme/gym-class-api/internal/models"
	appErrors "github.com/noah-isme/gym-class-api/pkg/errors"
)

type instanceRepoStub struct {
	items     []models.ClassInstance
	listCalls int
	lastList  models.ClassInstanceFilter
	created   *models.ClassInstance
}

func (r *instanceRepoStub) List(ctx context.Context, filter models.ClassInstanceFilter) ([]models.ClassInstance, int, error) {
	r.listCalls++
	r.lastList = filter
	return r.items, len(r.items), nil
}

func (r *instanceRepoStub) FindByID(ctx context.Context, id string) (*models.ClassInstance, error) {
	for i := range r.items {
		if r.items[i].ID == id {
			copied := r.items[i]
			return &copied, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r *instanceRepoStub) Create(ctx context.Context, instance *models.ClassInstance) error {
	instance.ID = "adhoc-1"
	r.created = instance
	return nil
}

type memoryCache struct {
	entries     map[string]interface{}
	invalidated []string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string]interface{})}
}

func (m *memoryCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	value, ok := m.entries[key]
	if !ok {
		return false, nil
	}
	*(dest.(*cachedInstancePage)) = value.(cachedInstancePage)
	return true, nil
}

func (m *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	m.entries[key] = value
	return nil
}

func (m *memoryCache) Invalidate(ctx context.Context, pattern string) error {
	m.invalidated = append(m.invalidated, pattern)
	m.entries = make(map[string]interface{})
	return nil
}

func TestClassInstanceServiceListUsesCache(t *testing.T) {
	repo := &instanceRepoStub{items: []models.ClassInstance{{ID: "i1", Title: "Yoga"}}}
	cache := newMemoryCache()
	svc := NewClassInstanceService(repo, cache, nil, nil)
	from := mustDate(t, "2024-01-01")
	to := mustDate(t, "2024-01-07")
	filter := models.ClassInstanceFilter{From: &from, To: &to}

	items, pagination, err := svc.List(context.Background(), filter)
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, &models.Pagination{Page: 1, PageSize: 20, TotalCount: 1}, pagination)
	assert.Equal(t, 20, repo.lastList.PageSize)

	items, _, err = svc.List(context.Background(), filter)
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, 1, repo.listCalls)

	otherFrom := mustDate(t, "2024-01-02")
	_, _, err = svc.List(context.Background(), models.ClassInstanceFilter{From: &otherFrom, To: &to})
	require.NoError(t, err)
	assert.Equal(t, 2, repo.listCalls)
}

func TestClassInstanceServiceListRejectsReversedWindow(t *testing.T) {
	repo := &instanceRepoStub{}
	svc := NewClassInstanceService(repo, nil, nil, nil)
	from := mustDate(t, "2024-01-07")
	to := mustDate(t, "2024-01-01")

	_, _, err := svc.List(context.Background(), models.ClassInstanceFilter{From: &from, To: &to})
	assert.ErrorIs(t, err, appErrors.ErrInvalidWindow)
	assert.Zero(t, repo.listCalls)
}

func TestClassInstanceServiceGet(t *testing.T) {
	svc := NewClassInstanceService(&instanceRepoStub{items: []models.ClassInstance{{ID: "i1"}}}, nil, nil, nil)

	inst, err := svc.Get(context.Background(), "i1")
	require.NoError(t, err)
	assert.Equal(t, "i1", inst.ID)

	_, err = svc.Get(context.Background(), "i2")
	assert.ErrorIs(t, err, appErrors.ErrInstanceNotFound)
}

func TestClassInstanceServiceCreateAdHoc(t *testing.T) {
	repo := &instanceRepoStub{}
	cache := newMemoryCache()
	svc := NewClassInstanceService(repo, cache, nil, nil)

	inst, err := svc.CreateAdHoc(context.Background(), dto.CreateInstanceRequest{
		Title:       "Open gym",
		Date:        "2024-01-13",
		StartTime:   "10:00",
		EndTime:     "12:00:00",
		MaxCapacity: 40,
		ClassType:   "individual",
	})
	require.NoError(t, err)
	assert.Equal(t, "adhoc-1", inst.ID)
	assert.Nil(t, inst.SeriesID)
	assert.Equal(t, models.InstanceStatusScheduled, inst.Status)
	assert.Equal(t, "10:00:00", inst.StartTime)
	assert.Equal(t, models.CategoryAll, inst.Category)
	assert.Equal(t, models.ClassTypeIndividual, inst.ClassType)
	assert.Equal(t, []string{"instances:*"}, cache.invalidated)

	_, err = svc.CreateAdHoc(context.Background(), dto.CreateInstanceRequest{Title: "x", Date: "2024-01-13", StartTime: "25:00", EndTime: "26:00", MaxCapacity: 1})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}
