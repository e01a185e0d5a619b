package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"SERVER_PORT", "SERVER_READ_TIMEOUT", "SERVER_BODY_LIMIT_MB", "DB_ENABLED",
		"REDIS_ENABLED", "REDIS_SNAPSHOT_TTL_MINUTES", "KB_PERSIST", "KB_SOURCE_NAME"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 64*1024*1024, cfg.Server.BodyLimit)
	assert.False(t, cfg.Database.Enabled)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, 24*time.Hour, cfg.Redis.SnapshotTTL)
	assert.True(t, cfg.Knowledge.Persist)
	assert.Equal(t, "upi_transactions_2024.csv", cfg.Knowledge.SourceName)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_ENABLED", "true")
	t.Setenv("JWT_EXPIRATION_HOURS", "2")
	t.Setenv("KB_PUBLISH", "false")
	t.Setenv("REDIS_SNAPSHOT_TTL_MINUTES", "15")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.True(t, cfg.Database.Enabled)
	assert.Equal(t, 2*time.Hour, cfg.JWT.Expiration)
	assert.False(t, cfg.Knowledge.Publish)
	assert.Equal(t, 15*time.Minute, cfg.Redis.SnapshotTTL)
}
