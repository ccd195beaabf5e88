// Package config loads the server configuration from the environment, with
// optional YAML overrides for the parameter matching keywords.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joeshaw/envdecode"
	"gopkg.in/yaml.v3"

	"github.com/patitas/storefront/internal/app/services/params"
)

// Config is the full server configuration. Every field is settable through
// the environment; a .env file in the working directory is honored by the
// entry point before decoding.
type Config struct {
	HTTPAddr  string `env:"HTTP_ADDR,default=:8080"`
	LogLevel  string `env:"LOG_LEVEL,default=info"`
	JWTSecret string `env:"JWT_SECRET,default=dev-secret-change-me"`

	// DatabaseURL switches persistence from in-memory to Postgres.
	DatabaseURL string `env:"DATABASE_URL"`

	// RedisAddr switches cart persistence from in-memory to Redis.
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB,default=0"`

	SnapshotSchedule string `env:"SNAPSHOT_SCHEDULE,default=@daily"`

	RateLimitPerSecond int `env:"RATE_LIMIT_RPS,default=20"`
	RateLimitBurst     int `env:"RATE_LIMIT_BURST,default=40"`

	CORSOrigins string `env:"CORS_ORIGINS,default=*"`

	// KeywordsFile points at a YAML file overriding the phrases used to
	// match system parameters by description.
	KeywordsFile string `env:"PARAM_KEYWORDS_FILE"`
}

// Load decodes the configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode environment: %w", err)
	}
	return cfg, nil
}

// Origins splits the CORS origin list.
func (c Config) Origins() []string {
	parts := strings.Split(c.CORSOrigins, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// LoadKeywords reads parameter matching keywords from a YAML file. Fields
// left empty keep their defaults.
func LoadKeywords(path string) (params.Keywords, error) {
	defaults := params.DefaultKeywords()
	data, err := os.ReadFile(path)
	if err != nil {
		return defaults, fmt.Errorf("read keywords file: %w", err)
	}

	loaded := defaults
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return defaults, fmt.Errorf("parse keywords file: %w", err)
	}
	if loaded.MaxDailyItems == "" {
		loaded.MaxDailyItems = defaults.MaxDailyItems
	}
	if loaded.MaxLoginAttempts == "" {
		loaded.MaxLoginAttempts = defaults.MaxLoginAttempts
	}
	if loaded.TaxRate == "" {
		loaded.TaxRate = defaults.TaxRate
	}
	return loaded, nil
}
