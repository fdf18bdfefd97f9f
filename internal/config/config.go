package config

import (
	"fmt"
	"os"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"invoicer/internal/logger"
)

var currencyCode = regexp.MustCompile(`^[A-Z]{3}$`)

type Config struct {
	// Local document state
	StateFile string

	// Defaults for new documents and for fields missing after migration
	DefaultCurrency string
	DefaultLocale   string
	DefaultLayout   string
	DefaultStyle    string

	// Logging Configuration
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

func Load() (*Config, error) {
	config := &Config{
		StateFile:       getEnv("INVOICER_STATE_FILE", "invoice.json"),
		DefaultCurrency: getEnv("INVOICER_DEFAULT_CURRENCY", "USD"),
		DefaultLocale:   getEnv("INVOICER_DEFAULT_LOCALE", "en-US"),
		DefaultLayout:   getEnv("INVOICER_DEFAULT_LAYOUT", "classic"),
		DefaultStyle:    getEnv("INVOICER_DEFAULT_STYLE", "classic"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "console"),
		LogTimeFormat:   getEnv("LOG_TIME_FORMAT", "2006-01-02T15:04:05Z07:00"),
		LogOutput:       getEnv("LOG_OUTPUT", "stderr"),
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func (c *Config) validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.StateFile, validation.Required),
		validation.Field(&c.DefaultCurrency,
			validation.Required,
			validation.Match(currencyCode).Error("must be a three-letter ISO 4217 code"),
		),
		validation.Field(&c.DefaultLocale, validation.Required),
		validation.Field(&c.DefaultLayout, validation.Required),
		validation.Field(&c.DefaultStyle, validation.Required),
		validation.Field(&c.LogFormat, validation.In("console", "json")),
	)
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
