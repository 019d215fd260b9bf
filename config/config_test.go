package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("ENV", "test")
	t.Setenv("CI", "")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_USER", "foodgram")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "foodgram_test")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
	t.Setenv("PAGE_SIZE", "10")
	t.Setenv("TOKEN_TTL", "2h")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "db", cfg.DBHost)
	assert.Equal(t, "5433", cfg.DBPort)
	assert.Equal(t, "foodgram", cfg.DBUser)
	assert.Equal(t, "secret", cfg.DBPassword)
	assert.Equal(t, "foodgram_test", cfg.DBName)
	assert.Equal(t, "disable", cfg.DBSSLMode)
	assert.Equal(t, "test-secret", cfg.JWTSecret)
	assert.Equal(t, "redis://localhost:6379", cfg.RedisURL)
	assert.Equal(t, 10, cfg.PageSize)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSAllowedOrigins)
}

func TestLoadConfigWithDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("ENV", "development")
	t.Setenv("CI", "")
	t.Setenv("JWT_SECRET", "dev-secret")
	for _, key := range []string{"DB_HOST", "DB_PORT", "DB_NAME", "DB_DRIVER", "PAGE_SIZE", "TOKEN_TTL"} {
		t.Setenv(key, "")
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "5432", cfg.DBPort)
	assert.Equal(t, "foodgram", cfg.DBName)
	assert.Equal(t, 6, cfg.PageSize)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, "0.0.0.0:8080", cfg.Addr())
}

func TestLoadConfigMissingSecret(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("ENV", "development")
	t.Setenv("CI", "")
	t.Setenv("JWT_SECRET", "")

	_, err := LoadConfig()
	require.Error(t, err)

	var verr ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "JWT_SECRET", verr.Field)
}

func TestLoadConfigProductionSecrets(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SECRETS_DIR", dir)
	t.Setenv("APP_ENV", "")
	t.Setenv("ENV", "production")
	t.Setenv("CI", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DB_PASSWORD", "")

	secrets := map[string]string{
		"jwt_secret":  "prod-jwt\n",
		"db_password": "prod-db",
		"redis_url":   "redis://cache:6379",
	}
	for name, value := range secrets {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(value), 0o600))
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "prod-jwt", cfg.JWTSecret)
	assert.Equal(t, "prod-db", cfg.DBPassword)
	assert.Equal(t, "redis://cache:6379", cfg.RedisURL)
}

func TestValidateConfigUnknownDriver(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("ENV", "development")
	t.Setenv("CI", "")

	cfg := &Config{ServerPort: "8080", DBDriver: "mysql", JWTSecret: "x", TokenTTL: time.Hour, PageSize: 6}
	err := ValidateConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_DRIVER")
}
