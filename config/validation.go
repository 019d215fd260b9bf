package config

import (
	"errors"
	"fmt"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ConfigRequirements defines which values must be explicitly provided in an environment
type ConfigRequirements struct {
	RequireSecrets bool
	RequireRedis   bool
}

var (
	// Environment-specific requirements
	requirements = map[Environment]ConfigRequirements{
		Development: {},
		Test:        {},
		CI:          {RequireSecrets: true},
		Production:  {RequireSecrets: true, RequireRedis: true},
	}
)

// ValidateConfig checks if the configuration meets the requirements for the current environment
func ValidateConfig(cfg *Config) error {
	reqs := requirements[GetEnvironment()]

	var errs []error
	add := func(field, msg string) {
		errs = append(errs, ValidationError{Field: field, Message: msg})
	}

	if cfg.ServerPort == "" {
		add("SERVER_PORT", "is required")
	}

	switch cfg.DBDriver {
	case "postgres":
		if cfg.DBHost == "" {
			add("DB_HOST", "is required for postgres")
		}
		if cfg.DBName == "" {
			add("DB_NAME", "is required for postgres")
		}
	case "sqlite":
		if cfg.DBPath == "" {
			add("DB_PATH", "is required for sqlite")
		}
	default:
		add("DB_DRIVER", fmt.Sprintf("unsupported driver %q", cfg.DBDriver))
	}

	if cfg.JWTSecret == "" {
		add("JWT_SECRET", "is required")
	}
	if cfg.TokenTTL <= 0 {
		add("TOKEN_TTL", "must be positive")
	}
	if cfg.PageSize <= 0 {
		add("PAGE_SIZE", "must be positive")
	}
	if cfg.RecipeCreateLimit < 0 {
		add("RECIPE_CREATE_LIMIT", "must not be negative")
	}

	if reqs.RequireSecrets && cfg.DBDriver == "postgres" && cfg.DBPassword == "" {
		add("DB_PASSWORD", "is required in this environment")
	}
	if reqs.RequireRedis && cfg.RedisURL == "" && cfg.RedisHost == "" {
		add("REDIS_URL", "is required in this environment")
	}

	return errors.Join(errs...)
}
