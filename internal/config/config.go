// Package config loads toolkit configuration from an optional YAML file,
// a local .env file, and environment variable overrides.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the hygiene toolkit.
type Config struct {
	SendGrid  SendGridConfig  `yaml:"sendgrid"`
	NerdGraph NerdGraphConfig `yaml:"nerdgraph"`
	SCIM      SCIMConfig      `yaml:"scim"`
	History   HistoryConfig   `yaml:"history"`
	Export    ExportConfig    `yaml:"export"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// SendGridConfig holds SendGrid API settings.
type SendGridConfig struct {
	BaseURL        string `yaml:"base_url"`
	SecretsFile    string `yaml:"secrets_file"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout returns the SendGrid request timeout as a duration.
func (c SendGridConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// NerdGraphConfig holds the NerdGraph GraphQL endpoint settings.
type NerdGraphConfig struct {
	Endpoint       string `yaml:"endpoint"`
	APIKey         string `yaml:"api_key"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout returns the NerdGraph request timeout as a duration.
func (c NerdGraphConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// SCIMConfig holds the SCIM provisioning API settings.
type SCIMConfig struct {
	BaseURL        string `yaml:"base_url"`
	BearerToken    string `yaml:"bearer_token"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout returns the SCIM request timeout as a duration.
func (c SCIMConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// HistoryConfig holds run-history store settings.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`
}

// ExportConfig holds findings-export settings.
type ExportConfig struct {
	S3Bucket   string `yaml:"s3_bucket"`
	S3Region   string `yaml:"s3_region"`
	AWSProfile string `yaml:"aws_profile"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Dir       string `yaml:"dir"`
	RedactPII bool   `yaml:"redact_pii"`
}

// Load reads and parses the configuration file. A missing file is not an
// error: every field has a usable default so the CLIs run with no config
// at all.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("reading config file: %w", err)
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if cfg.SendGrid.BaseURL == "" {
		cfg.SendGrid.BaseURL = "https://api.sendgrid.com"
	}
	if cfg.SendGrid.SecretsFile == "" {
		cfg.SendGrid.SecretsFile = ".env"
	}
	if cfg.SendGrid.TimeoutSeconds == 0 {
		cfg.SendGrid.TimeoutSeconds = 30
	}
	if cfg.NerdGraph.Endpoint == "" {
		cfg.NerdGraph.Endpoint = "https://api.newrelic.com/graphql"
	}
	if cfg.NerdGraph.TimeoutSeconds == 0 {
		cfg.NerdGraph.TimeoutSeconds = 30
	}
	if cfg.SCIM.BaseURL == "" {
		cfg.SCIM.BaseURL = "https://scim-provisioning.service.newrelic.com/scim/v2"
	}
	if cfg.SCIM.TimeoutSeconds == 0 {
		cfg.SCIM.TimeoutSeconds = 30
	}
	if cfg.Logging.Dir == "" {
		cfg.Logging.Dir = "logs"
	}

	return &cfg, nil
}

// LoadFromEnv loads configuration with environment variable overrides.
// It loads a .env file (if present) before reading env vars, so secrets
// can live in .env locally and in real env vars elsewhere.
func LoadFromEnv(path string) (*Config, error) {
	// Load .env file if it exists (no error if missing)
	_ = godotenv.Load()

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("SENDGRID_BASE_URL"); v != "" {
		cfg.SendGrid.BaseURL = v
	}
	if v := os.Getenv("SENDGRID_SECRETS_FILE"); v != "" {
		cfg.SendGrid.SecretsFile = v
	}
	if v := os.Getenv("NEW_RELIC_API_KEY"); v != "" {
		cfg.NerdGraph.APIKey = v
	}
	if v := os.Getenv("NERDGRAPH_ENDPOINT"); v != "" {
		cfg.NerdGraph.Endpoint = v
	}
	if v := os.Getenv("SCIM_BEARER_TOKEN"); v != "" {
		cfg.SCIM.BearerToken = v
	}
	if v := os.Getenv("SCIM_BASE_URL"); v != "" {
		cfg.SCIM.BaseURL = v
	}
	if v := os.Getenv("HYGIENE_EXPORT_S3_BUCKET"); v != "" {
		cfg.Export.S3Bucket = v
	}
	if v := os.Getenv("HYGIENE_EXPORT_S3_REGION"); v != "" {
		cfg.Export.S3Region = v
	}

	return cfg, nil
}
