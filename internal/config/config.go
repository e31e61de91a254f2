package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv         string `env:"APP_ENV" envDefault:"development"`
	Port           string `env:"PORT" envDefault:"8080"`
	AllowedOrigins string `env:"ALLOWED_ORIGINS" envDefault:"http://localhost:3000"`

	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBUser     string `env:"DB_USER" envDefault:"postgres"`
	DBPassword string `env:"DB_PASS"`
	DBName     string `env:"DB_NAME" envDefault:"fatetable"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBSSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`

	// Empty disables redis: no rate limiting and no live notification push.
	RedisURL string `env:"REDIS_URL"`

	JWTSecret string `env:"JWT_SECRET" envDefault:"12345"`

	// Global game master account created by the seed command.
	StaffUsername string `env:"STAFF_USERNAME" envDefault:"mestre"`
	StaffEmail    string `env:"STAFF_EMAIL" envDefault:"mestre@fatetable.local"`

	RateLimitIdea     time.Duration `env:"RATE_LIMIT_IDEA" envDefault:"30s"`
	PollDefaultWindow time.Duration `env:"POLL_DEFAULT_WINDOW" envDefault:"10m"`
}

func Load() (*Config, error) {
	// Don't fail if .env doesn't exist (might be prod env vars)
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Origins splits AllowedOrigins on commas.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
