package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// DefaultAllowedOrigins are the browser origins of the holdings front-end
var DefaultAllowedOrigins = []string{
	"http://localhost:5173",
	"http://127.0.0.1:5173",
	"https://www.mycoins.pl",
}

// Config holds all configuration for the application
type Config struct {
	Environment      string `validate:"required"`
	Port             string `validate:"required,numeric"`
	LogLevel         string `validate:"required"`
	LogFormat        string `validate:"oneof=json text"`
	HelloDefaultName string
	Database         DatabaseConfig
	CORS             CORSConfig
	RateLimit        RateLimitConfig
}

// DatabaseConfig holds database configuration. Host, User and Password are
// used by mysql; SQLitePath by sqlite; ClusterARN, SecretARN and Region by
// dataapi. Name is the schema for both mysql and dataapi.
type DatabaseConfig struct {
	Driver         string `validate:"required,oneof=mysql sqlite dataapi"`
	Host           string `validate:"required_if=Driver mysql"`
	Port           int    `validate:"omitempty,min=1,max=65535"`
	User           string `validate:"required_if=Driver mysql"`
	Password       string
	Name           string `validate:"required_unless=Driver sqlite"`
	ConnectTimeout time.Duration
	RetryAttempts  int    `validate:"min=1,max=10"`
	SQLitePath     string `validate:"required_if=Driver sqlite"`
	ClusterARN     string `validate:"required_if=Driver dataapi"`
	SecretARN      string `validate:"required_if=Driver dataapi"`
	Region         string
}

// CORSConfig holds cross-origin settings
type CORSConfig struct {
	AllowedOrigins   []string
	AllowCredentials bool
}

// RateLimitConfig holds request rate limiting settings
type RateLimitConfig struct {
	RPS   float64 `validate:"gt=0"`
	Burst int     `validate:"min=1"`
}

// Load loads configuration from environment variables and an optional .env file
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 3306)
	v.SetDefault("DB_NAME", "company")
	v.SetDefault("DB_CONNECT_TIMEOUT", "5s")
	v.SetDefault("DB_RETRY_ATTEMPTS", 3)
	v.SetDefault("DB_SQLITE_PATH", "./data/holdings.db")
	v.SetDefault("CORS_ALLOWED_ORIGINS", strings.Join(DefaultAllowedOrigins, ","))
	v.SetDefault("CORS_ALLOW_CREDENTIALS", true)
	v.SetDefault("RATE_LIMIT_RPS", 100)
	v.SetDefault("RATE_LIMIT_BURST", 200)

	timeout, err := parseTimeout(v.GetString("DB_CONNECT_TIMEOUT"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_CONNECT_TIMEOUT: %w", err)
	}

	config := &Config{
		Environment:      v.GetString("ENVIRONMENT"),
		Port:             v.GetString("PORT"),
		LogLevel:         v.GetString("LOG_LEVEL"),
		LogFormat:        strings.ToLower(v.GetString("LOG_FORMAT")),
		HelloDefaultName: v.GetString("HELLO_DEFAULT_NAME"),
		Database: DatabaseConfig{
			Driver:         resolveDriver(v.GetString("DB_DRIVER"), v.GetString("DB_CLUSTER_ARN")),
			Host:           v.GetString("DB_HOST"),
			Port:           v.GetInt("DB_PORT"),
			User:           v.GetString("DB_USER"),
			Password:       v.GetString("DB_PASSWORD"),
			Name:           v.GetString("DB_NAME"),
			ConnectTimeout: timeout,
			RetryAttempts:  v.GetInt("DB_RETRY_ATTEMPTS"),
			SQLitePath:     v.GetString("DB_SQLITE_PATH"),
			ClusterARN:     v.GetString("DB_CLUSTER_ARN"),
			SecretARN:      v.GetString("DB_SECRET_ARN"),
			Region:         v.GetString("AWS_REGION"),
		},
		CORS: CORSConfig{
			AllowedOrigins:   splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
			AllowCredentials: v.GetBool("CORS_ALLOW_CREDENTIALS"),
		},
		RateLimit: RateLimitConfig{
			RPS:   v.GetFloat64("RATE_LIMIT_RPS"),
			Burst: v.GetInt("RATE_LIMIT_BURST"),
		},
	}

	return config, nil
}

// Validate checks the configuration for missing or inconsistent values
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// ConfigureLogger applies the configured level and format to logger
func ConfigureLogger(logger *logrus.Logger, cfg *Config) error {
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	logger.SetLevel(level)

	if cfg.LogFormat == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return nil
}

// IsProduction reports whether the service runs in production
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// GetEnv gets an environment variable with a fallback value
func GetEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// resolveDriver picks the Data API when a cluster is configured and no
// driver was named explicitly.
func resolveDriver(driver, clusterARN string) string {
	driver = strings.ToLower(strings.TrimSpace(driver))
	if driver != "" {
		return driver
	}
	if clusterARN != "" {
		return "dataapi"
	}
	return "mysql"
}

// parseTimeout accepts Go durations ("5s") and bare seconds ("5")
func parseTimeout(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	return time.ParseDuration(raw)
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
