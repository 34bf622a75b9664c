package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultJWTSecret is only acceptable outside release mode.
const DefaultJWTSecret = "default-secret-key-change-me"

// ErrInsecureSecret is returned when release mode runs with the default JWT secret.
var ErrInsecureSecret = errors.New("JWT_SECRET must be set in release mode")

type Config struct {
	AppEnv          string        `mapstructure:"APP_ENV" validate:"required,oneof=development staging production test"`
	GinMode         string        `mapstructure:"GIN_MODE" validate:"required,oneof=debug release test"`
	HTTPAddr        string        `mapstructure:"HTTP_ADDR" validate:"required"`
	ShutdownTimeout time.Duration `mapstructure:"SHUTDOWN_TIMEOUT" validate:"required"`

	LogLevel  string `mapstructure:"LOG_LEVEL" validate:"required,oneof=debug info warn error"`
	LogFormat string `mapstructure:"LOG_FORMAT" validate:"required,oneof=json console"`

	DBDriver   string `mapstructure:"DB_DRIVER" validate:"required,oneof=mysql postgres sqlite"`
	DBHost     string `mapstructure:"DB_HOST"`
	DBPort     string `mapstructure:"DB_PORT"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBName     string `mapstructure:"DB_NAME"`
	DBSSLMode  string `mapstructure:"DB_SSLMODE"`
	SQLitePath string `mapstructure:"SQLITE_PATH"`
	DBLogLevel string `mapstructure:"DB_LOG_LEVEL" validate:"required,oneof=silent error warn info"`

	JWTSecret    string        `mapstructure:"JWT_SECRET" validate:"required"`
	JWTExpiresIn time.Duration `mapstructure:"JWT_EXPIRES_IN" validate:"required"`

	FrontendURL     string        `mapstructure:"FRONTEND_URL" validate:"required"`
	RateLimitWindow time.Duration `mapstructure:"RATE_LIMIT_WINDOW" validate:"required"`
	RateLimitMax    int           `mapstructure:"RATE_LIMIT_MAX" validate:"gte=1"`

	OpenAIAPIKey string `mapstructure:"OPENAI_API_KEY"`
	OpenAIModel  string `mapstructure:"OPENAI_MODEL"`
}

var (
	validate = validator.New(validator.WithRequiredStructEnabled())

	keys = []string{
		"APP_ENV",
		"GIN_MODE",
		"HTTP_ADDR",
		"SHUTDOWN_TIMEOUT",
		"LOG_LEVEL",
		"LOG_FORMAT",
		"DB_DRIVER",
		"DB_HOST",
		"DB_PORT",
		"DB_USER",
		"DB_PASSWORD",
		"DB_NAME",
		"DB_SSLMODE",
		"SQLITE_PATH",
		"DB_LOG_LEVEL",
		"JWT_SECRET",
		"JWT_EXPIRES_IN",
		"FRONTEND_URL",
		"RATE_LIMIT_WINDOW",
		"RATE_LIMIT_MAX",
		"OPENAI_API_KEY",
		"OPENAI_MODEL",
	}
)

// Load reads configuration from .env files, an optional config.yaml and the
// environment, applies defaults and validates the result.
func Load() (*Config, error) {
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	for _, key := range keys {
		_ = v.BindEnv(key)
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("config unmarshal error: %w", err)
	}

	if err := validate.Struct(&c); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if c.GinMode == "release" && c.JWTSecret == DefaultJWTSecret {
		return nil, ErrInsecureSecret
	}

	return &c, nil
}

// MustLoad loads configuration or exits the process on failure.
func MustLoad() *Config {
	c, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	return c
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("SHUTDOWN_TIMEOUT", "15s")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("DB_DRIVER", "mysql")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "3306")
	v.SetDefault("DB_USER", "taskuser")
	v.SetDefault("DB_PASSWORD", "taskpassword")
	v.SetDefault("DB_NAME", "task_tracker")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("SQLITE_PATH", "task_tracker.db")
	v.SetDefault("DB_LOG_LEVEL", "warn")
	v.SetDefault("JWT_SECRET", DefaultJWTSecret)
	v.SetDefault("JWT_EXPIRES_IN", "168h")
	v.SetDefault("FRONTEND_URL", "http://localhost:3000")
	v.SetDefault("RATE_LIMIT_WINDOW", "15m")
	v.SetDefault("RATE_LIMIT_MAX", 100)
	v.SetDefault("OPENAI_API_KEY", "")
	v.SetDefault("OPENAI_MODEL", "gpt-4o")
}
