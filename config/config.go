package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort         string
	ServerHost         string
	CORSAllowedOrigins []string

	// Database configuration
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	DBPath     string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// JWT configuration
	JWTSecret string
	TokenTTL  time.Duration

	// Rate limiting for recipe creation; zero limit disables it
	RecipeCreateLimit  int
	RecipeCreateWindow time.Duration

	PageSize int

	LogLevel  string
	LogFormat string
}

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	env := GetEnvironment()
	cfg := &Config{}

	switch {
	case env == Production:
		loadFromEnv(cfg, secretOrEnv)
	case env.UsesDotEnv():
		// .env is optional; a missing file is not an error
		_ = godotenv.Load()
		loadFromEnv(cfg, os.Getenv)
	default:
		loadFromEnv(cfg, os.Getenv)
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromEnv fills cfg using lookup, applying development defaults for missing keys
func loadFromEnv(cfg *Config, lookup func(string) string) {
	get := func(key, def string) string {
		if v := lookup(key); v != "" {
			return v
		}
		return def
	}

	cfg.ServerPort = get("SERVER_PORT", "8080")
	cfg.ServerHost = get("SERVER_HOST", "0.0.0.0")
	cfg.CORSAllowedOrigins = splitList(get("CORS_ALLOWED_ORIGINS", "http://localhost:3000"))

	cfg.DBDriver = get("DB_DRIVER", "postgres")
	cfg.DBHost = get("DB_HOST", "localhost")
	cfg.DBPort = get("DB_PORT", "5432")
	cfg.DBUser = get("DB_USER", "postgres")
	cfg.DBPassword = get("DB_PASSWORD", "postgres")
	cfg.DBName = get("DB_NAME", "foodgram")
	cfg.DBSSLMode = get("DB_SSL_MODE", "disable")
	cfg.DBPath = get("DB_PATH", "foodgram.db")

	cfg.RedisHost = get("REDIS_HOST", "localhost")
	cfg.RedisPort = get("REDIS_PORT", "6379")
	cfg.RedisPassword = get("REDIS_PASSWORD", "")
	cfg.RedisURL = get("REDIS_URL", "")
	cfg.RedisDB = 0

	cfg.JWTSecret = get("JWT_SECRET", "")
	cfg.TokenTTL = parseDuration(get("TOKEN_TTL", "24h"), 24*time.Hour)

	cfg.RecipeCreateLimit = parseInt(get("RECIPE_CREATE_LIMIT", "30"), 30)
	cfg.RecipeCreateWindow = parseDuration(get("RECIPE_CREATE_WINDOW", "1h"), time.Hour)

	cfg.PageSize = parseInt(get("PAGE_SIZE", "6"), 6)

	cfg.LogLevel = get("LOG_LEVEL", "info")
	cfg.LogFormat = get("LOG_FORMAT", "json")
}

// secretOrEnv reads a Docker secret named after the lower-cased key, falling back to the environment
func secretOrEnv(key string) string {
	if v := readSecret(strings.ToLower(key)); v != "" {
		return v
	}
	return os.Getenv(key)
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseInt(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func parseDuration(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}

// DSN returns the postgres connection string
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

// Addr returns the listen address of the HTTP server
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}
