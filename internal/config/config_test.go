package config

import (
	"testing"

	apperrors "fitness-tracker-backend/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("FITBIT_CLIENT_ID", "client-id")
	t.Setenv("FITBIT_CLIENT_SECRET", "client-secret")
	t.Setenv("FITBIT_REDIRECT_URI", "http://localhost:8000/fitbit/callback")
	t.Setenv("POSTGRES_HOST", "localhost")
	t.Setenv("POSTGRES_PORT", "5432")
	t.Setenv("POSTGRES_USER", "app")
	t.Setenv("POSTGRES_PASSWORD", "secret")
	t.Setenv("POSTGRES_DB", "fitness")
	t.Setenv("JWT_SECRET", "jwt-secret")
	t.Setenv("TOKEN_SECRET", "token-secret")
}

func TestLoadFromEnvironment(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "client-id", cfg.FitbitClientID)
	assert.Equal(t, "8000", cfg.ServerPort, "default port applied")
	assert.Equal(t, 3600, cfg.JWTExpiresInSeconds, "default session lifetime applied")
	assert.NotEmpty(t, cfg.CORSAllowedOrigins, "default dev origins applied")
}

func TestLoadMissingRequired(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("FITBIT_CLIENT_ID", "")
	t.Setenv("JWT_SECRET", "")

	_, err := Load("")
	require.Error(t, err)

	var confErr *apperrors.ConfigurationError
	assert.ErrorAs(t, err, &confErr)
	assert.Contains(t, err.Error(), "FITBIT_CLIENT_ID")
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoadEnvOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SERVER_PORT", "9999")
	t.Setenv("JWT_EXPIRES_IN_SECONDS", "120")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.example.com, https://staging.example.com")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "9999", cfg.ServerPort)
	assert.Equal(t, 120, cfg.JWTExpiresInSeconds)
	assert.Equal(t,
		[]string{"https://app.example.com", "https://staging.example.com"},
		cfg.CORSAllowedOrigins)
}

func TestDatabaseDSN(t *testing.T) {
	cfg := &Config{
		PostgresHost:     "db",
		PostgresPort:     "5432",
		PostgresUser:     "app",
		PostgresPassword: "secret",
		PostgresDB:       "fitness",
	}
	assert.Equal(t,
		"host=db port=5432 user=app password=secret dbname=fitness sslmode=disable",
		cfg.DatabaseDSN())
}
