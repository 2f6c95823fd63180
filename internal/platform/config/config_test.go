package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	viper.Reset()
	t.Setenv("STORAGE_DRIVER", "memory")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, StorageDriverMemory, cfg.StorageDriver)
	assert.Equal(t, "INV", cfg.InvoicePrefix)
	assert.Equal(t, 5, cfg.SequenceMaxRepairs)
	assert.Equal(t, 10*time.Second, cfg.SubjectLockTTL)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, "100-M", cfg.RateLimit)
	require.NotNil(t, cfg.BusinessLocation)
}

func TestLoadConfigOverrides(t *testing.T) {
	viper.Reset()
	t.Setenv("STORAGE_DRIVER", "bogus")
	t.Setenv("SEQUENCE_MAX_REPAIRS", "0")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("BUSINESS_TIMEZONE", "Not/AZone")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, StorageDriverPostgres, cfg.StorageDriver)
	assert.Equal(t, 5, cfg.SequenceMaxRepairs)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)

	_, offset := time.Date(2026, 1, 1, 0, 0, 0, 0, cfg.BusinessLocation).Zone()
	assert.Equal(t, 7*60*60, offset)
}
