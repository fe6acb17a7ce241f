package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestFromViperDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg := fromViper(v)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, 200, cfg.Recurrence.BatchSize)
	assert.Equal(t, 366, cfg.Recurrence.MaxWindowDays)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "gym.class.events", cfg.Events.Queue)
	assert.True(t, cfg.Database.AutoMigrate)
	assert.Nil(t, cfg.CORS.AllowedOrigins)
}

func TestFromViperOverrides(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("RECURRENCE_BATCH_SIZE", 50)
	v.Set("CACHE_TTL", "not-a-duration")
	v.Set("ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	v.Set("EVENTS_WORKERS", -2)

	cfg := fromViper(v)

	assert.Equal(t, 50, cfg.Recurrence.BatchSize)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 1, cfg.Events.Workers)
}

func TestFromViperClampsBatchSize(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("RECURRENCE_BATCH_SIZE", 100000)

	cfg := fromViper(v)

	assert.Equal(t, MaxRecurrenceBatchSize, cfg.Recurrence.BatchSize)
	assert.Equal(t, 5041, cfg.Recurrence.BatchSize)
}
