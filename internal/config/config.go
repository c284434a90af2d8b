package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"dividas/internal/rates"
)

type Config struct {
	// HTTP Server
	Port        string
	MaxUploadMB int

	// PTAX
	PTAXBaseURL string
	PTAXTimeout time.Duration

	// Rate lookup
	RateField  string
	IncludeSDR bool

	// Cache backend selection
	CacheBackend string
	CacheTTL     time.Duration
	RedisURL     string
}

func Load() *Config {
	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		MaxUploadMB: getEnvInt("MAX_UPLOAD_MB", 50),

		PTAXBaseURL: getEnv("PTAX_BASE_URL", ""),
		PTAXTimeout: getEnvDuration("PTAX_TIMEOUT", 15*time.Second),

		RateField:  getEnv("RATE_FIELD", string(rates.FieldBuy)),
		IncludeSDR: getEnvBool("INCLUDE_SDR", true),

		CacheBackend: getEnv("CACHE_BACKEND", "memory"),
		CacheTTL:     getEnvDuration("CACHE_TTL", time.Hour),
		RedisURL:     getEnv("REDIS_URL", "redis://localhost:6379/0"),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	// Validate upload cap
	if c.MaxUploadMB < 1 {
		errors = append(errors, fmt.Sprintf("invalid max upload size %dMB: must be at least 1", c.MaxUploadMB))
	} else if c.MaxUploadMB > 1024 {
		errors = append(errors, fmt.Sprintf("invalid max upload size %dMB: must be at most 1024", c.MaxUploadMB))
	}

	// Validate PTAX base URL if overridden
	if c.PTAXBaseURL != "" {
		if parsedURL, err := url.Parse(c.PTAXBaseURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid PTAX base URL '%s': %v", c.PTAXBaseURL, err))
		} else if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
			errors = append(errors, fmt.Sprintf("invalid PTAX base URL scheme '%s': must be 'http' or 'https'", parsedURL.Scheme))
		}
	}

	if c.PTAXTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid PTAX timeout %v: must be at least 1 second", c.PTAXTimeout))
	} else if c.PTAXTimeout > 5*time.Minute {
		errors = append(errors, fmt.Sprintf("invalid PTAX timeout %v: must be at most 5 minutes", c.PTAXTimeout))
	}

	// Validate rate field
	if c.RateField != string(rates.FieldBuy) && c.RateField != string(rates.FieldSell) {
		errors = append(errors, fmt.Sprintf("invalid rate field '%s': must be '%s' or '%s'",
			c.RateField, rates.FieldBuy, rates.FieldSell))
	}

	// Validate cache backend
	validBackends := []string{"memory", "redis"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.CacheBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid cache backend '%s': must be one of %v", c.CacheBackend, validBackends))
	}

	// Validate Redis URL if backend is redis
	if c.CacheBackend == "redis" {
		if c.RedisURL == "" {
			errors = append(errors, "Redis URL cannot be empty when using redis cache backend")
		} else if parsedURL, err := url.Parse(c.RedisURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid Redis URL '%s': %v", c.RedisURL, err))
		} else if parsedURL.Scheme != "redis" && parsedURL.Scheme != "rediss" {
			errors = append(errors, fmt.Sprintf("invalid Redis URL scheme '%s': must be 'redis' or 'rediss'", parsedURL.Scheme))
		}
	}

	// Validate cache TTL
	if c.CacheTTL < time.Minute {
		errors = append(errors, fmt.Sprintf("invalid cache TTL %v: must be at least 1 minute", c.CacheTTL))
	} else if c.CacheTTL > 7*24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid cache TTL %v: must be at most 7 days", c.CacheTTL))
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
