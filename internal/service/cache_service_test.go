package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/gym-class-api/pkg/errors"
)

type cacheRepoStub struct {
	values  map[string]string
	getErr  error
	deleted []string
}

func (c *cacheRepoStub) Get(ctx context.Context, key string, dest interface{}) error {
	if c.getErr != nil {
		return c.getErr
	}
	v, ok := c.values[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	*(dest.(*string)) = v
	return nil
}

func (c *cacheRepoStub) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	c.values[key] = value.(string)
	return nil
}

func (c *cacheRepoStub) DeleteByPattern(ctx context.Context, pattern string) (int, error) {
	c.deleted = append(c.deleted, pattern)
	return len(c.values), nil
}

func TestCacheServiceHitAndMiss(t *testing.T) {
	repo := &cacheRepoStub{values: map[string]string{}}
	metrics := NewMetricsService()
	svc := NewCacheService(repo, metrics, time.Minute, nil, true)

	var out string
	hit, err := svc.Get(context.Background(), "instances:a", &out)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, svc.Set(context.Background(), "instances:a", "payload", 0))
	hit, err = svc.Get(context.Background(), "instances:a", &out)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "payload", out)

	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.cacheHits))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.cacheMisses))
	assert.Equal(t, 0.5, testutil.ToFloat64(metrics.cacheHitRatio))
}

func TestCacheServiceSurfacesBackendErrors(t *testing.T) {
	repo := &cacheRepoStub{values: map[string]string{}, getErr: errors.New("connection refused")}
	svc := NewCacheService(repo, nil, 0, nil, true)

	var out string
	hit, err := svc.Get(context.Background(), "instances:a", &out)
	assert.Error(t, err)
	assert.False(t, hit)
}

func TestCacheServiceDisabled(t *testing.T) {
	repo := &cacheRepoStub{values: map[string]string{"k": "v"}}
	svc := NewCacheService(repo, nil, 0, nil, false)

	var out string
	hit, err := svc.Get(context.Background(), "k", &out)
	require.NoError(t, err)
	assert.False(t, hit)
	require.NoError(t, svc.Invalidate(context.Background(), "instances:*"))
	assert.Empty(t, repo.deleted)

	var nilSvc *CacheService
	assert.False(t, nilSvc.Enabled())
	assert.NoError(t, nilSvc.Invalidate(context.Background(), "instances:*"))
}

func TestCacheKeyIsStable(t *testing.T) {
	a := cacheKey("instances", "2024-01-01", "", 1, 20)
	b := cacheKey("instances", "2024-01-01", "", 1, 20)
	c := cacheKey("instances", "2024-01-02", "", 1, 20)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Contains(t, a, "instances:")
}
