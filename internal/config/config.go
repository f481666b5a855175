// Package config loads the service configuration from environment variables
// and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Analyzer backends.
const (
	AnalyzerService = "service"
	AnalyzerGemini  = "gemini"
)

// Config represents the application configuration.
type Config struct {
	Port string

	Services ServicesConfig
	Gemini   GeminiConfig
	GCP      GCPConfig
	Notion   NotionConfig
	Queue    QueueConfig

	LogLevel  string
	LogFormat string
}

// ServicesConfig configures the external analysis/validation/statement service.
type ServicesConfig struct {
	URL      string
	Timeout  time.Duration
	Analyzer string
}

// GeminiConfig configures the in-process Gemini analyzer.
type GeminiConfig struct {
	APIKey string
	Model  string
}

// GCPConfig holds the optional archive and export settings.
type GCPConfig struct {
	Bucket          string
	ProjectID       string
	Dataset         string
	CredentialsFile string
}

// NotionConfig holds the Notion mirror settings.
type NotionConfig struct {
	Token      string
	DatabaseID string
}

// QueueConfig sizes the analysis job queue.
type QueueConfig struct {
	Workers int
	Size    int
}

// Load loads configuration from environment variables.
// It automatically loads .env file from the current directory if available.
// You can optionally specify a custom .env file path.
func Load(envPath ...string) (*Config, error) {
	if len(envPath) > 0 && envPath[0] != "" {
		if err := godotenv.Load(envPath[0]); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	} else {
		_ = godotenv.Load()
	}

	var errs []error

	timeout, err := parseDurationEnv("SERVICES_TIMEOUT", 120*time.Second)
	errs = append(errs, err)
	workers, err := parseIntEnv("WORKER_COUNT", 4)
	errs = append(errs, err)
	size, err := parseIntEnv("QUEUE_SIZE", 100)
	errs = append(errs, err)

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	return &Config{
		Port: getEnvOrDefault("PORT", "8080"),
		Services: ServicesConfig{
			URL:      getEnvOrDefault("SERVICES_URL", "http://localhost:8000"),
			Timeout:  timeout,
			Analyzer: getEnvOrDefault("ANALYZER", AnalyzerService),
		},
		Gemini: GeminiConfig{
			APIKey: os.Getenv("GEMINI_API_KEY"),
			Model:  os.Getenv("GEMINI_MODEL"),
		},
		GCP: GCPConfig{
			Bucket:          os.Getenv("GCS_BUCKET"),
			ProjectID:       os.Getenv("GCP_PROJECT"),
			Dataset:         getEnvOrDefault("BIGQUERY_DATASET", "finance_dashboard"),
			CredentialsFile: os.Getenv("GOOGLE_CREDENTIALS_FILE"),
		},
		Notion: NotionConfig{
			Token:      os.Getenv("NOTION_TOKEN"),
			DatabaseID: os.Getenv("NOTION_DATABASE_ID"),
		},
		Queue: QueueConfig{
			Workers: workers,
			Size:    size,
		},
		LogLevel:  getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "console"),
	}, nil
}

// Validate reports every problem with the core settings as one error.
func (c *Config) Validate() error {
	var errs []error

	if c.Port == "" {
		errs = append(errs, errors.New("PORT is required"))
	}
	if c.Services.Timeout <= 0 {
		errs = append(errs, errors.New("SERVICES_TIMEOUT must be positive"))
	}
	if c.Queue.Workers <= 0 {
		errs = append(errs, errors.New("WORKER_COUNT must be positive"))
	}
	if c.Queue.Size < 0 {
		errs = append(errs, errors.New("QUEUE_SIZE must not be negative"))
	}

	switch c.Services.Analyzer {
	case AnalyzerService:
		if c.Services.URL == "" {
			errs = append(errs, errors.New("SERVICES_URL is required for the service analyzer"))
		}
	case AnalyzerGemini:
		if c.Gemini.APIKey == "" {
			errs = append(errs, errors.New("GEMINI_API_KEY is required for the gemini analyzer"))
		}
	default:
		errs = append(errs, fmt.Errorf("ANALYZER must be %q or %q, got %q", AnalyzerService, AnalyzerGemini, c.Services.Analyzer))
	}

	switch c.LogFormat {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be console or json, got %q", c.LogFormat))
	}

	return errors.Join(errs...)
}

// RequireBigQuery checks the settings needed by the snapshot export.
func (c *Config) RequireBigQuery() error {
	var missing []string
	if c.GCP.ProjectID == "" {
		missing = append(missing, "GCP_PROJECT")
	}
	if c.GCP.Dataset == "" {
		missing = append(missing, "BIGQUERY_DATASET")
	}
	return missingError(missing)
}

// RequireNotion checks the settings needed by the Notion mirror.
func (c *Config) RequireNotion() error {
	var missing []string
	if c.Notion.Token == "" {
		missing = append(missing, "NOTION_TOKEN")
	}
	if c.Notion.DatabaseID == "" {
		missing = append(missing, "NOTION_DATABASE_ID")
	}
	return missingError(missing)
}

func missingError(missing []string) error {
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %v\nPlease check your .env file or environment variables", missing)
	}
	return nil
}

// getEnvOrDefault returns the value of the environment variable or a default value if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parseIntEnv parses an int from an environment variable.
// Returns defaultValue if the environment variable is not set.
func parseIntEnv(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid integer value for %s: %s", key, value)
	}
	return parsed, nil
}

// parseDurationEnv accepts a Go duration ("90s") or a whole number of seconds.
func parseDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}

	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid duration value for %s: %s", key, value)
	}
	return d, nil
}
