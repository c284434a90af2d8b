package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		Port:         "8080",
		MaxUploadMB:  50,
		PTAXTimeout:  15 * time.Second,
		RateField:    "buy",
		IncludeSDR:   true,
		CacheBackend: "memory",
		CacheTTL:     time.Hour,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		wantErr     bool
		errorString string
	}{
		{
			name:    "valid memory backend config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name: "valid redis backend config",
			mutate: func(c *Config) {
				c.CacheBackend = "redis"
				c.RedisURL = "redis://localhost:6379/0"
			},
			wantErr: false,
		},
		{
			name:        "invalid port - non-numeric",
			mutate:      func(c *Config) { c.Port = "abc" },
			wantErr:     true,
			errorString: "invalid port 'abc': must be a number",
		},
		{
			name:        "invalid port - out of range low",
			mutate:      func(c *Config) { c.Port = "0" },
			wantErr:     true,
			errorString: "invalid port 0: must be between 1 and 65535",
		},
		{
			name:        "invalid port - out of range high",
			mutate:      func(c *Config) { c.Port = "70000" },
			wantErr:     true,
			errorString: "invalid port 70000: must be between 1 and 65535",
		},
		{
			name:        "invalid upload cap - too small",
			mutate:      func(c *Config) { c.MaxUploadMB = 0 },
			wantErr:     true,
			errorString: "invalid max upload size 0MB: must be at least 1",
		},
		{
			name:        "invalid upload cap - too large",
			mutate:      func(c *Config) { c.MaxUploadMB = 2048 },
			wantErr:     true,
			errorString: "invalid max upload size 2048MB: must be at most 1024",
		},
		{
			name:        "invalid PTAX base URL scheme",
			mutate:      func(c *Config) { c.PTAXBaseURL = "ftp://olinda.bcb.gov.br" },
			wantErr:     true,
			errorString: "invalid PTAX base URL scheme 'ftp': must be 'http' or 'https'",
		},
		{
			name:    "valid PTAX base URL override",
			mutate:  func(c *Config) { c.PTAXBaseURL = "http://localhost:9999/odata" },
			wantErr: false,
		},
		{
			name:        "invalid PTAX timeout - too short",
			mutate:      func(c *Config) { c.PTAXTimeout = 100 * time.Millisecond },
			wantErr:     true,
			errorString: "invalid PTAX timeout 100ms: must be at least 1 second",
		},
		{
			name:        "invalid rate field",
			mutate:      func(c *Config) { c.RateField = "mid" },
			wantErr:     true,
			errorString: "invalid rate field 'mid': must be 'buy' or 'sell'",
		},
		{
			name:    "sell rate field is accepted",
			mutate:  func(c *Config) { c.RateField = "sell" },
			wantErr: false,
		},
		{
			name:        "invalid cache backend",
			mutate:      func(c *Config) { c.CacheBackend = "memcached" },
			wantErr:     true,
			errorString: "invalid cache backend 'memcached': must be one of [memory redis]",
		},
		{
			name: "redis backend missing URL",
			mutate: func(c *Config) {
				c.CacheBackend = "redis"
				c.RedisURL = ""
			},
			wantErr:     true,
			errorString: "Redis URL cannot be empty when using redis cache backend",
		},
		{
			name: "redis backend wrong URL scheme",
			mutate: func(c *Config) {
				c.CacheBackend = "redis"
				c.RedisURL = "http://localhost:6379"
			},
			wantErr:     true,
			errorString: "invalid Redis URL scheme 'http': must be 'redis' or 'rediss'",
		},
		{
			name:        "invalid cache TTL - too short",
			mutate:      func(c *Config) { c.CacheTTL = 10 * time.Second },
			wantErr:     true,
			errorString: "invalid cache TTL 10s: must be at least 1 minute",
		},
		{
			name:        "invalid cache TTL - too long",
			mutate:      func(c *Config) { c.CacheTTL = 8 * 24 * time.Hour },
			wantErr:     true,
			errorString: "invalid cache TTL 192h0m0s: must be at most 7 days",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				if err == nil {
					t.Errorf("Config.Validate() error = nil, wantErr %v", tt.wantErr)
					return
				}
				if tt.errorString != "" && !strings.Contains(err.Error(), tt.errorString) {
					t.Errorf("Config.Validate() error = %v, want error containing %v", err.Error(), tt.errorString)
				}
			} else {
				if err != nil {
					t.Errorf("Config.Validate() error = %v, wantErr %v", err, tt.wantErr)
				}
			}
		})
	}
}

func TestConfig_ValidateCollectsAllErrors(t *testing.T) {
	cfg := Config{
		Port:         "abc",
		MaxUploadMB:  0,
		PTAXTimeout:  15 * time.Second,
		RateField:    "mid",
		CacheBackend: "memory",
		CacheTTL:     time.Hour,
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Config.Validate() error = nil, want combined errors")
	}
	for _, want := range []string{"invalid port", "invalid max upload size", "invalid rate field"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Config.Validate() error missing %q: %v", want, err)
		}
	}
}

func TestLoad(t *testing.T) {
	for _, key := range []string{
		"PORT", "MAX_UPLOAD_MB", "PTAX_BASE_URL", "PTAX_TIMEOUT",
		"RATE_FIELD", "INCLUDE_SDR", "CACHE_BACKEND", "CACHE_TTL", "REDIS_URL",
	} {
		t.Setenv(key, "")
	}

	t.Run("default values", func(t *testing.T) {
		cfg := Load()

		if cfg.Port != "8080" {
			t.Errorf("Load() Port = %v, want 8080", cfg.Port)
		}
		if cfg.MaxUploadMB != 50 {
			t.Errorf("Load() MaxUploadMB = %v, want 50", cfg.MaxUploadMB)
		}
		if cfg.RateField != "buy" {
			t.Errorf("Load() RateField = %v, want buy", cfg.RateField)
		}
		if !cfg.IncludeSDR {
			t.Error("Load() IncludeSDR = false, want true")
		}
		if cfg.CacheBackend != "memory" {
			t.Errorf("Load() CacheBackend = %v, want memory", cfg.CacheBackend)
		}
		if cfg.CacheTTL != time.Hour {
			t.Errorf("Load() CacheTTL = %v, want 1h", cfg.CacheTTL)
		}
	})

	t.Run("environment variables", func(t *testing.T) {
		t.Setenv("PORT", "9090")
		t.Setenv("MAX_UPLOAD_MB", "10")
		t.Setenv("RATE_FIELD", "sell")
		t.Setenv("INCLUDE_SDR", "false")
		t.Setenv("CACHE_BACKEND", "redis")
		t.Setenv("CACHE_TTL", "24h")
		t.Setenv("REDIS_URL", "redis://cache:6379/1")

		cfg := Load()

		if cfg.Port != "9090" {
			t.Errorf("Load() Port = %v, want 9090", cfg.Port)
		}
		if cfg.MaxUploadMB != 10 {
			t.Errorf("Load() MaxUploadMB = %v, want 10", cfg.MaxUploadMB)
		}
		if cfg.RateField != "sell" {
			t.Errorf("Load() RateField = %v, want sell", cfg.RateField)
		}
		if cfg.IncludeSDR {
			t.Error("Load() IncludeSDR = true, want false")
		}
		if cfg.CacheBackend != "redis" {
			t.Errorf("Load() CacheBackend = %v, want redis", cfg.CacheBackend)
		}
		if cfg.CacheTTL != 24*time.Hour {
			t.Errorf("Load() CacheTTL = %v, want 24h", cfg.CacheTTL)
		}
		if cfg.RedisURL != "redis://cache:6379/1" {
			t.Errorf("Load() RedisURL = %v, want redis://cache:6379/1", cfg.RedisURL)
		}
	})

	t.Run("invalid environment variables use defaults", func(t *testing.T) {
		t.Setenv("MAX_UPLOAD_MB", "invalid")
		t.Setenv("CACHE_TTL", "invalid")
		t.Setenv("INCLUDE_SDR", "maybe")

		cfg := Load()

		if cfg.MaxUploadMB != 50 {
			t.Errorf("Load() MaxUploadMB = %v, want 50 (default for invalid input)", cfg.MaxUploadMB)
		}
		if cfg.CacheTTL != time.Hour {
			t.Errorf("Load() CacheTTL = %v, want 1h (default for invalid input)", cfg.CacheTTL)
		}
		if !cfg.IncludeSDR {
			t.Error("Load() IncludeSDR = false, want true (default for invalid input)")
		}
	})
}
