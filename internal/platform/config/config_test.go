package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	viper.Reset()
	t.Setenv("PGSQL_URL", "postgres://localhost/tracker")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "postgres://localhost/tracker", cfg.DatabaseURL)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 2*time.Minute, cfg.SessionIdleTimeout)
	assert.Equal(t, time.Minute, cfg.SessionWarningBefore)
	assert.Equal(t, 24*time.Hour, cfg.JWTExpiryDuration)
	assert.Equal(t, 1024, cfg.GoalCacheSize)
	assert.Equal(t, 7, cfg.DueSoonDays)
	assert.Equal(t, "file://migrations", cfg.MigrationsPath)
}

func TestLoadConfig_WarningLongerThanIdleIsDisabled(t *testing.T) {
	viper.Reset()
	t.Setenv("SESSION_IDLE_TIMEOUT", "5m")
	t.Setenv("SESSION_WARNING_BEFORE", "10m")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 5*time.Minute, cfg.SessionIdleTimeout)
	assert.Zero(t, cfg.SessionWarningBefore)
}

func TestLoadConfig_InvalidDurationFallsBack(t *testing.T) {
	viper.Reset()
	t.Setenv("PASSWORD_RESET_EXPIRY", "soon")
	t.Setenv("GOAL_CACHE_SIZE", "-3")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, time.Hour, cfg.PasswordResetExpiry)
	assert.Equal(t, 1024, cfg.GoalCacheSize)
}
