package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	for key, value := range map[string]string{
		"APP_ENV":                 "development",
		"JWT_SECRET":              "",
		"STORE_DRIVER":            "memory",
		"STORAGE_DRIVER":          "",
		"DB_URL":                  "",
		"SESSION_TTL_HOURS":       "",
		"ENABLE_API_DOCS":         "",
		"METRICS_USER":            "",
		"METRICS_PASS":            "",
		"AUTH_RATE_LIMIT_PER_SEC": "",
		"AUTH_RATE_LIMIT_BURST":   "",
	} {
		t.Setenv(key, value)
	}
}

func TestFromEnvDefaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "dev", cfg.JWTSecret)
	assert.Equal(t, StoreDriverMemory, cfg.StoreDriver)
	assert.Equal(t, 168*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 5.0, cfg.AuthRatePerSec)
	assert.Equal(t, 30, cfg.AuthRateBurst)
	assert.Equal(t, "us-east-1", cfg.S3.Region)
	assert.False(t, cfg.MetricsEnabled())
	assert.False(t, cfg.DocsEnabled())
}

func TestFromEnvRequiresSecretOutsideDevelopment(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("APP_ENV", "prod")

	_, err := FromEnv()
	assert.EqualError(t, err, "JWT_SECRET is required")

	t.Setenv("JWT_SECRET", "s3cret")
	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
}

func TestFromEnvPostgresNeedsURL(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("STORE_DRIVER", "Postgres")

	_, err := FromEnv()
	assert.Error(t, err)

	t.Setenv("DB_URL", "postgres://localhost/fitquest")
	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, StoreDriverPostgres, cfg.StoreDriver)
}

func TestFromEnvRejectsUnknownDrivers(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("STORE_DRIVER", "sqlite")
	_, err := FromEnv()
	assert.Error(t, err)

	setBaseEnv(t)
	t.Setenv("STORAGE_DRIVER", "ftp")
	_, err = FromEnv()
	assert.Error(t, err)
}

func TestFromEnvParsesOverrides(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("SESSION_TTL_HOURS", "2")
	t.Setenv("ENABLE_API_DOCS", "yes")
	t.Setenv("METRICS_USER", "prom")
	t.Setenv("METRICS_PASS", "scrape")
	t.Setenv("AUTH_RATE_LIMIT_PER_SEC", "0.5")
	t.Setenv("AUTH_RATE_LIMIT_BURST", "-3")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.True(t, cfg.DocsEnabled())
	assert.True(t, cfg.MetricsEnabled())
	assert.Equal(t, 0.5, cfg.AuthRatePerSec)
	assert.Equal(t, 30, cfg.AuthRateBurst)
}

func TestNormalizeEnv(t *testing.T) {
	assert.Equal(t, "development", normalizeEnv(" Local "))
	assert.Equal(t, "production", normalizeEnv("PROD"))
	assert.Equal(t, "staging", normalizeEnv("stage"))
	assert.Equal(t, "qa", normalizeEnv("QA"))
}
