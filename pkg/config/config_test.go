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
	assert.Equal(t, 8090, cfg.Port)
	assert.Equal(t, "/console", cfg.APIPrefix)
	assert.Equal(t, "http://localhost:8080/api", cfg.Backend.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Backend.Timeout)
	assert.False(t, cfg.Snapshots.Enabled)
	assert.Equal(t, 24*time.Hour, cfg.Snapshots.TTL)
	assert.Equal(t, "console:snapshot", cfg.Snapshots.KeyPrefix)
	assert.Equal(t, 4, cfg.Redis.PoolSize)
	assert.Equal(t, 3*time.Second, cfg.Redis.Timeout)
	assert.Empty(t, cfg.Refresh.Schedule)
	assert.Nil(t, cfg.CORS.AllowedOrigins)
}

func TestFromViperOverrides(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("BACKEND_BASE_URL", "http://backend:9000/api/")
	v.Set("BACKEND_TIMEOUT", "not-a-duration")
	v.Set("ALLOWED_ORIGINS", "http://a.test, ,http://b.test")
	v.Set("SNAPSHOT_WORKERS", 0)
	v.Set("REFRESH_SCHEDULE", " @every 5m ")
	v.Set("REDIS_TIMEOUT", "750ms")

	cfg := fromViper(v)

	assert.Equal(t, "http://backend:9000/api", cfg.Backend.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 1, cfg.Snapshots.Workers)
	assert.Equal(t, "@every 5m", cfg.Refresh.Schedule)
	assert.Equal(t, 750*time.Millisecond, cfg.Redis.Timeout)
}
