package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const defaultJWTSecret = "change-me-in-production"

// Config holds every runtime setting of the service.
type Config struct {
	Env  string
	Port string

	DatabaseDriver string
	DatabaseDSN    string

	JWTSecret    string
	JWTExpiresIn time.Duration
	BcryptRounds int

	RateLimitWindow  time.Duration
	RateLimitMax     int
	AuthRateLimitMax int

	CORSOrigins string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	RabbitMQURL      string
	RabbitMQExchange string
}

// IsProduction reports whether the service runs with APP_ENV=production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// Load reads an optional .env file, then environment variables, falling back to defaults.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("Could not load .env file: %v", err)
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	return FromViper(v)
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Env:              v.GetString("APP_ENV"),
		Port:             v.GetString("APP_PORT"),
		DatabaseDriver:   strings.ToLower(v.GetString("DATABASE_DRIVER")),
		DatabaseDSN:      v.GetString("DATABASE_DSN"),
		JWTSecret:        v.GetString("JWT_SECRET"),
		JWTExpiresIn:     v.GetDuration("JWT_EXPIRES_IN"),
		BcryptRounds:     v.GetInt("BCRYPT_ROUNDS"),
		RateLimitWindow:  v.GetDuration("RATE_LIMIT_WINDOW"),
		RateLimitMax:     v.GetInt("RATE_LIMIT_MAX"),
		AuthRateLimitMax: v.GetInt("AUTH_RATE_LIMIT_MAX"),
		CORSOrigins:      v.GetString("CORS_ORIGINS"),
		RedisAddr:        v.GetString("REDIS_ADDR"),
		RedisPassword:    v.GetString("REDIS_PASSWORD"),
		RedisDB:          v.GetInt("REDIS_DB"),
		RabbitMQURL:      v.GetString("RABBITMQ_URL"),
		RabbitMQExchange: v.GetString("RABBITMQ_EXCHANGE"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("DATABASE_DRIVER", "sqlite")
	v.SetDefault("DATABASE_DSN", "gudang.db")
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("JWT_EXPIRES_IN", "168h")
	v.SetDefault("BCRYPT_ROUNDS", 12)
	v.SetDefault("RATE_LIMIT_WINDOW", "15m")
	v.SetDefault("RATE_LIMIT_MAX", 100)
	v.SetDefault("AUTH_RATE_LIMIT_MAX", 5)
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("RABBITMQ_EXCHANGE", "inventory.events")
}

// Defaults returns a viper instance holding only the default values.
// Tests use it to build a Config without touching the environment.
func Defaults() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

func (c *Config) validate() error {
	if c.DatabaseDriver != "postgres" && c.DatabaseDriver != "sqlite" {
		return fmt.Errorf("unsupported DATABASE_DRIVER %q", c.DatabaseDriver)
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must not be empty")
	}
	if c.IsProduction() && c.JWTSecret == defaultJWTSecret {
		return errors.New("JWT_SECRET must be set in production")
	}
	if c.JWTExpiresIn <= 0 {
		return fmt.Errorf("JWT_EXPIRES_IN must be positive, got %s", c.JWTExpiresIn)
	}
	if c.BcryptRounds < 4 || c.BcryptRounds > 31 {
		return fmt.Errorf("BCRYPT_ROUNDS must be between 4 and 31, got %d", c.BcryptRounds)
	}
	if c.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %s", c.RateLimitWindow)
	}
	if c.RateLimitMax <= 0 || c.AuthRateLimitMax <= 0 {
		return errors.New("rate limit thresholds must be positive")
	}
	return nil
}
