// Package config loads application configuration via Viper from environment
// variables and an optional .env file.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config groups the application configuration.
type Config struct {
	App   AppConfig
	HTTP  HTTPConfig
	DB    DBConfig
	JWT   JWTConfig
	Stock StockConfig
	Log   LogConfig
}

// AppConfig holds general application settings.
type AppConfig struct {
	Env  string // development, staging, production
	Name string
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr returns the listen address (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DBConfig holds the two database connections: accounts live in one
// database, items and movements in another.
type DBConfig struct {
	UsersURL string
	StockURL string
}

// JWTConfig holds token settings.
type JWTConfig struct {
	Secret         string
	Issuer         string
	AccessTokenTTL time.Duration
}

// StockConfig holds stock accounting policy settings.
type StockConfig struct {
	// NegativePolicy: clamp | allow | reject
	NegativePolicy string

	// Timezone is the canonical location for calendar-day bucketing.
	// Must stay consistent between ledger writes and report reads.
	Timezone string
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string
}

// Load reads configuration from environment variables (and optionally a
// .env file in the working directory). Env vars take precedence.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // missing file is fine

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	cfg := &Config{
		App: AppConfig{
			Env:  v.GetString("APP_ENV"),
			Name: v.GetString("APP_NAME"),
		},
		HTTP: HTTPConfig{
			Host: v.GetString("HTTP_HOST"),
			Port: v.GetInt("HTTP_PORT"),
		},
		DB: DBConfig{
			UsersURL: v.GetString("USERS_DATABASE_URL"),
			StockURL: v.GetString("STOCK_DATABASE_URL"),
		},
		JWT: JWTConfig{
			Secret:         v.GetString("JWT_SECRET"),
			Issuer:         v.GetString("JWT_ISSUER"),
			AccessTokenTTL: time.Duration(v.GetInt("JWT_TTL_MINUTES")) * time.Minute,
		},
		Stock: StockConfig{
			NegativePolicy: v.GetString("STOCK_NEGATIVE_POLICY"),
			Timezone:       v.GetString("REPORT_TIMEZONE"),
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_NAME", "stocktrack")
	v.SetDefault("HTTP_HOST", "0.0.0.0")
	v.SetDefault("HTTP_PORT", 8080)
	v.SetDefault("JWT_ISSUER", "stocktrack")
	v.SetDefault("JWT_TTL_MINUTES", 60)
	v.SetDefault("STOCK_NEGATIVE_POLICY", "clamp")
	v.SetDefault("REPORT_TIMEZONE", "UTC")
	v.SetDefault("LOG_LEVEL", "info")
}

func (c *Config) validate() error {
	if c.DB.UsersURL == "" {
		return fmt.Errorf("USERS_DATABASE_URL is required")
	}
	if c.DB.StockURL == "" {
		return fmt.Errorf("STOCK_DATABASE_URL is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	switch c.Stock.NegativePolicy {
	case "clamp", "allow", "reject":
	default:
		return fmt.Errorf("STOCK_NEGATIVE_POLICY must be clamp, allow or reject, got %q", c.Stock.NegativePolicy)
	}
	return nil
}

// IsDevelopment reports whether the app runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}
