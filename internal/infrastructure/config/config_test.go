package config

import (
	"testing"
	"time"

	"flightsync-service/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range []string{"NOTIFY_CHANNEL", "LISTEN_TIMEOUT", "MIN_SURGE_MULTIPLIER", "MAX_SURGE_MULTIPLIER", "INSIGHT_TTL", "PRICE_REFRESH_INTERVAL", "BATCH_WORKERS", "REDIS_ADDR"} {
		t.Setenv(key, "")
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "mongodb_sync", cfg.NotifyChannel)
	assert.Equal(t, 5*time.Second, cfg.ListenTimeout)
	assert.Equal(t, 0.5, cfg.MinSurgeMultiplier)
	assert.Equal(t, 5.0, cfg.MaxSurgeMultiplier)
	assert.Equal(t, 6*time.Hour, cfg.InsightTTL)
	assert.Equal(t, time.Duration(0), cfg.PriceRefreshInterval)
	assert.Equal(t, 4, cfg.BatchWorkers)
	assert.Empty(t, cfg.RedisAddr)
	assert.Equal(t, 30*24*time.Hour, cfg.HistoryWindow())
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("MIN_SURGE_MULTIPLIER", "0.8")
	t.Setenv("MAX_SURGE_MULTIPLIER", "3")
	t.Setenv("INSIGHT_TTL", "90m")
	t.Setenv("LISTEN_TIMEOUT", "10")
	t.Setenv("PRICE_REFRESH_INTERVAL", "15m")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 0.8, cfg.MinSurgeMultiplier)
	assert.Equal(t, 3.0, cfg.MaxSurgeMultiplier)
	assert.Equal(t, 90*time.Minute, cfg.InsightTTL)
	assert.Equal(t, 10*time.Second, cfg.ListenTimeout)
	assert.Equal(t, 15*time.Minute, cfg.PriceRefreshInterval)
}

func TestLoadConfig_InvalidBounds(t *testing.T) {
	t.Setenv("MIN_SURGE_MULTIPLIER", "2")
	t.Setenv("MAX_SURGE_MULTIPLIER", "1")

	_, err := LoadConfig()

	var vErr *entity.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "MAX_SURGE_MULTIPLIER", vErr.Field)
}

func TestGetEnvAsDuration_FallsBack(t *testing.T) {
	t.Setenv("SOME_TIMEOUT", "soon")
	assert.Equal(t, time.Minute, getEnvAsDuration("SOME_TIMEOUT", time.Minute))
}

func TestLoadConfig_RejectsNonPositiveTimeouts(t *testing.T) {
	for _, key := range []string{"LISTEN_TIMEOUT", "EVENT_TIMEOUT", "LISTEN_RETRY_DELAY", "DEMAND_LOOKUP_TIMEOUT"} {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, "0s")

			_, err := LoadConfig()

			var vErr *entity.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, key, vErr.Field)
		})
	}
}

func TestLoadConfig_AppVersion(t *testing.T) {
	t.Setenv("APP_VERSION", "")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", cfg.AppVersion)

	t.Setenv("APP_VERSION", "2.3.1")
	cfg, err = LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "2.3.1", cfg.AppVersion)
}
