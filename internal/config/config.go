// Package config loads runtime configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config holds everything the CLI needs to talk to its backing services.
// Required fields are validated on load; optional fields carry defaults.
type Config struct {
	// DatabaseURL is the PostgreSQL connection string.
	DatabaseURL string `validate:"required,url|startswith=postgres://|startswith=postgresql://"`

	// GeminiAPIKey authenticates content generation calls.
	GeminiAPIKey string `validate:"required"`

	// GoogleCredentialsFile is the path to the service account JSON used for
	// Drive and Docs access.
	GoogleCredentialsFile string `validate:"required,file"`

	// GeminiModel overrides the default generation model.
	GeminiModel string

	// MonitorInterval is the pause between polling cycles.
	MonitorInterval time.Duration `validate:"min=0"`

	// ScrapeTimeout bounds each page fetch.
	ScrapeTimeout time.Duration `validate:"min=0"`

	// UseBrowser enables the headless browser fallback for JS-heavy sites.
	UseBrowser bool

	// Verbose turns on detailed logging in the scraper.
	Verbose bool
}

// Load reads configuration from environment variables and validates it.
// Call godotenv.Load before this to pick up a local .env file.
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:           os.Getenv("DATABASE_URL"),
		GeminiAPIKey:          os.Getenv("GEMINI_API_KEY"),
		GoogleCredentialsFile: os.Getenv("GOOGLE_CREDENTIALS_FILE"),
		GeminiModel:           os.Getenv("GEMINI_MODEL"),
		MonitorInterval:       durationEnv("MONITOR_INTERVAL_SECONDS", 60*time.Second),
		ScrapeTimeout:         durationEnv("SCRAPE_TIMEOUT_SECONDS", 15*time.Second),
		UseBrowser:            boolEnv("SCRAPE_USE_BROWSER", false),
		Verbose:               boolEnv("VERBOSE", false),
	}

	if err := validator.New().Struct(cfg); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			return nil, fmt.Errorf("config error: %s is %s", envName(errs[0].StructField()), reason(errs[0]))
		}
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func durationEnv(name string, fallback time.Duration) time.Duration {
	v := os.Getenv(name)
	if v == "" {
		return fallback
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs < 0 {
		return fallback
	}
	return time.Duration(secs) * time.Second
}

func boolEnv(name string, fallback bool) bool {
	v := os.Getenv(name)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func envName(field string) string {
	switch field {
	case "DatabaseURL":
		return "DATABASE_URL"
	case "GeminiAPIKey":
		return "GEMINI_API_KEY"
	case "GoogleCredentialsFile":
		return "GOOGLE_CREDENTIALS_FILE"
	}
	return field
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required but not set"
	case "file":
		return "not a readable file"
	}
	return "invalid"
}
