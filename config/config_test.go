package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("DB_PASSWORD", "test-pass")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "5432", cfg.DBPort)
	assert.Equal(t, "fitapp", cfg.DBName)
	assert.Equal(t, "disable", cfg.DBSSLMode)
	assert.Equal(t, "test-secret", cfg.JWTSecret)
}

func TestLoadConfigRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestValidateConfigRejectsBadPorts(t *testing.T) {
	cfg := &Config{
		JWTSecret:  "s",
		DBHost:     "localhost",
		DBName:     "fitapp",
		DBUser:     "postgres",
		DBPort:     "not-a-port",
		ServerPort: "8080",
	}
	assert.Error(t, ValidateConfig(cfg))

	cfg.DBPort = "5432"
	cfg.ServerPort = "nope"
	assert.Error(t, ValidateConfig(cfg))

	cfg.ServerPort = "8080"
	assert.NoError(t, ValidateConfig(cfg))
}
