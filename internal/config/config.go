package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Database DatabaseConfig
	HTTP     HTTPConfig
	Auth     AuthConfig
	Log      LogConfig
}

// DatabaseConfig contains database-related settings.
type DatabaseConfig struct {
	Driver string // sqlite3 or pgx
	DSN    string // SQLite file path / URI, or a Postgres connection string
}

// HTTPConfig contains HTTP server settings.
type HTTPConfig struct {
	Address         string // listen address (e.g., ":8080")
	ShutdownTimeout time.Duration
}

// AuthConfig contains session settings.
type AuthConfig struct {
	JWTSecret  string // session token signing secret
	SessionTTL time.Duration
}

type LogConfig struct {
	Level string
}

const devSecret = "dev-secret-change-me"

// Load reads configuration from an optional .env file, an optional
// config.yaml and the environment. JWT_SECRET is required.
func Load() (*Config, error) {
	cfg, err := load("")
	if err != nil {
		return nil, err
	}
	if cfg.Auth.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET environment variable is not set; required for production")
	}
	return cfg, nil
}

// LoadWithDefaults is like Load but falls back to a development JWT secret.
// WARNING: Only use in development! Use Load() in production.
func LoadWithDefaults() (*Config, error) {
	return load(devSecret)
}

func load(secretDefault string) (*Config, error) {
	// a missing .env is normal outside development
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("DB_DRIVER", "sqlite3")
	v.SetDefault("DB_DSN", "forum.db")
	v.SetDefault("HTTP_ADDRESS", ":8080")
	v.SetDefault("HTTP_SHUTDOWN_TIMEOUT", "10s")
	v.SetDefault("JWT_SECRET", secretDefault)
	v.SetDefault("SESSION_TTL", "24h")
	v.SetDefault("LOG_LEVEL", "info")
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	shutdown, err := parseDuration(v, "HTTP_SHUTDOWN_TIMEOUT")
	if err != nil {
		return nil, err
	}
	ttl, err := parseDuration(v, "SESSION_TTL")
	if err != nil {
		return nil, err
	}

	return &Config{
		Database: DatabaseConfig{
			Driver: v.GetString("DB_DRIVER"),
			DSN:    v.GetString("DB_DSN"),
		},
		HTTP: HTTPConfig{
			Address:         v.GetString("HTTP_ADDRESS"),
			ShutdownTimeout: shutdown,
		},
		Auth: AuthConfig{
			JWTSecret:  v.GetString("JWT_SECRET"),
			SessionTTL: ttl,
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
	}, nil
}

func parseDuration(v *viper.Viper, key string) (time.Duration, error) {
	d, err := time.ParseDuration(v.GetString(key))
	if err != nil {
		return 0, fmt.Errorf("invalid duration for %s: %w", key, err)
	}
	return d, nil
}

// String returns a string representation of the config (sensitive values are masked).
func (c *Config) String() string {
	return fmt.Sprintf("Config{DB: %s, HTTP: %s, SessionTTL: %s, Log: %s, Auth: *** (masked) ***}",
		c.Database.Driver, c.HTTP.Address, c.Auth.SessionTTL, c.Log.Level)
}
