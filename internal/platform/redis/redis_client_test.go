package redis

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedisClient_NotConfigured(t *testing.T) {
	_, err := NewRedisClient(Config{})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestNewRedisClient_Success(t *testing.T) {
	mr := miniredis.RunT(t)

	rdb, err := NewRedisClient(Config{Host: mr.Host(), Port: mr.Port()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	assert.NotNil(t, rdb)
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	host, port := mr.Host(), mr.Port()
	mr.Close()

	_, err := NewRedisClient(Config{Host: host, Port: port})
	assert.Error(t, err)
}

func TestLoadConfig_DefaultPort(t *testing.T) {
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("REDIS_PORT", "")
	t.Setenv("REDIS_PASSWORD", "secret")

	cfg := LoadConfig()

	assert.Equal(t, Config{Host: "cache", Port: "6379", Password: "secret"}, cfg)
}
