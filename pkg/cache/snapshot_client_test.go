package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/student-admin-console/pkg/config"
)

func TestOptionsAppliesDefaults(t *testing.T) {
	opts := Options(config.RedisConfig{Host: "redis", Port: 6380, DB: 2})

	assert.Equal(t, "redis:6380", opts.Addr)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, 4, opts.PoolSize)
	assert.Equal(t, 3*time.Second, opts.DialTimeout)
	assert.Equal(t, 3*time.Second, opts.ReadTimeout)
	assert.Equal(t, -1, opts.MaxRetries)
	assert.Equal(t, clientName, opts.ClientName)
}

func TestOptionsBracketsIPv6Hosts(t *testing.T) {
	opts := Options(config.RedisConfig{Host: "::1", Port: 6379, PoolSize: 8, Timeout: time.Second})

	assert.Equal(t, "[::1]:6379", opts.Addr)
	assert.Equal(t, 8, opts.PoolSize)
	assert.Equal(t, time.Second, opts.WriteTimeout)
}

func TestOpenSnapshotsUnreachable(t *testing.T) {
	client, err := OpenSnapshots(context.Background(), config.RedisConfig{
		Host:    "127.0.0.1",
		Port:    1,
		Timeout: 100 * time.Millisecond,
	})
	require.Error(t, err)
	assert.Nil(t, client)
	assert.Contains(t, err.Error(), "snapshot redis 127.0.0.1:1 unreachable")
}
