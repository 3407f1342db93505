package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Logging.Development)

	assert.Equal(t, 100, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 200, cfg.RateLimit.Burst)
	assert.True(t, cfg.RateLimit.Enabled)

	assert.Equal(t, 300, cfg.Firewall.MaxDurationSeconds)
	assert.Equal(t, 500, cfg.Firewall.MaxActions)

	assert.Equal(t, 30, cfg.Web.TimeoutSeconds)
	assert.Equal(t, 3, cfg.Web.MaxRetries)
}

func TestLoadFromEnvironment(t *testing.T) {
	os.Setenv("PORT", "9001")
	os.Setenv("FIREWALL_MAX_ACTIONS", "50")
	os.Setenv("LOG_LEVEL", "debug")
	defer func() {
		os.Unsetenv("PORT")
		os.Unsetenv("FIREWALL_MAX_ACTIONS")
		os.Unsetenv("LOG_LEVEL")
	}()

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9001", cfg.Server.Port)
	assert.Equal(t, 50, cfg.Firewall.MaxActions)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadOrDefaultFallsBack(t *testing.T) {
	// An unparsable value must not crash startup
	os.Setenv("FIREWALL_MAX_ACTIONS", "not-a-number")
	defer os.Unsetenv("FIREWALL_MAX_ACTIONS")

	cfg := LoadOrDefault()
	require.NotNil(t, cfg)
	assert.Equal(t, 500, cfg.Firewall.MaxActions)
}
