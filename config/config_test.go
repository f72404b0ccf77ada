package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func clearEnv() {
	os.Unsetenv("APP_NAME")
	os.Unsetenv("HTTP_PORT")
	os.Unsetenv("LOG_LEVEL")
	os.Unsetenv("DB_POOL_MAX")
	os.Unsetenv("DB_URL")
	os.Unsetenv("SECURITY_MAX_LOGIN_ATTEMPTS")
	os.Unsetenv("SECURITY_LOCKOUT_DURATION_SECONDS")
	os.Unsetenv("SECURITY_SESSION_TIMEOUT_SECONDS")
	os.Unsetenv("SECURITY_MIN_PASSWORD_LENGTH")
	os.Unsetenv("SECURITY_CLEANUP_INTERVAL_SECONDS")
}

func TestNewConfig_Defaults(t *testing.T) { //nolint:paralleltest // cannot have simultaneous tests modifying environment variables
	clearEnv() // Clear environment variables to ensure defaults are tested

	cfg, err := NewConfig()

	assert.NoError(t, err)
	assert.NotNil(t, cfg)

	// Verify default values
	assert.Equal(t, "registrar", cfg.Name)
	assert.Equal(t, "school-management-toolkit/registrar", cfg.Repo)
	assert.Equal(t, "DEVELOPMENT", cfg.Version)

	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, "8181", cfg.Port)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, []string{"*"}, cfg.AllowedHeaders)
	assert.Equal(t, false, cfg.TLS.Enabled)

	assert.Equal(t, "info", cfg.Level)

	assert.Equal(t, 2, cfg.PoolMax)

	assert.Equal(t, 3, cfg.Security.MaxLoginAttempts)
	assert.Equal(t, 900, cfg.Security.LockoutDurationSeconds)
	assert.Equal(t, 3600, cfg.Security.SessionTimeoutSeconds)
	assert.Equal(t, 8, cfg.Security.MinPasswordLength)
	assert.Equal(t, 300, cfg.Security.CleanupIntervalSeconds)
}

func TestNewConfig_EnvVars(t *testing.T) { //nolint:paralleltest // cannot have simultaneous tests modifying environment variables
	// Set environment variables
	os.Setenv("APP_NAME", "testApp")
	os.Setenv("HTTP_PORT", "9090")
	os.Setenv("LOG_LEVEL", "debug")
	os.Setenv("DB_POOL_MAX", "10")
	os.Setenv("DB_URL", "file:testdb.sqlite")
	os.Setenv("SECURITY_MAX_LOGIN_ATTEMPTS", "5")
	os.Setenv("SECURITY_LOCKOUT_DURATION_SECONDS", "60")

	defer clearEnv() // Ensure environment variables are cleared after test

	cfg, err := NewConfig()
	assert.NoError(t, err)
	assert.NotNil(t, cfg)

	assert.Equal(t, "testApp", cfg.Name)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "debug", cfg.Level)
	assert.Equal(t, 10, cfg.PoolMax)
	assert.Equal(t, "file:testdb.sqlite", cfg.DB.URL)
	assert.Equal(t, 5, cfg.Security.MaxLoginAttempts)
	assert.Equal(t, 60, cfg.Security.LockoutDurationSeconds)
}

func TestSecurityDurations(t *testing.T) {
	t.Parallel()

	sec := Security{
		LockoutDurationSeconds: 900,
		SessionTimeoutSeconds:  3600,
		CleanupIntervalSeconds: 300,
	}

	assert.Equal(t, "15m0s", sec.LockoutDuration().String())
	assert.Equal(t, "1h0m0s", sec.SessionTimeout().String())
	assert.Equal(t, "5m0s", sec.CleanupInterval().String())
}
