// Package config provides server configuration loaded from environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const logPrefix = "config:LoadConfig"

// Config holds nexus-dispatch configuration.
type Config struct {
	// COMMS: connect to standalone NATS at COMMSURL.
	COMMSURL  string `envconfig:"COMMS_URL" default:"nats://127.0.0.1:4222"`
	COMMSName string `envconfig:"SERVICE_NAME" default:"nexus-dispatch"`

	// Subject overrides (empty = built-in defaults)
	DispatchSubject string `envconfig:"DISPATCH_SUBJECT"`
	EventSubject    string `envconfig:"DISPATCH_EVENT_SUBJECT"`

	// Timeouts
	RequestTimeout time.Duration `envconfig:"DISPATCH_REQUEST_TIMEOUT" default:"25s"`

	// Rule set
	RulesFile     string  `envconfig:"DISPATCH_RULES_FILE"`
	MinConfidence float64 `envconfig:"MATCH_MIN_CONFIDENCE" default:"0"`

	// Audit log database. Empty disables the audit log; the dispatch core
	// itself is persistence-free.
	DatabaseURL   string `envconfig:"DATABASE_URL"`
	RunMigrations bool   `envconfig:"RUN_MIGRATIONS" default:"false"`
	MigrationPath string `envconfig:"MIGRATION_PATH" default:"migrations"`

	// HTTP status/health endpoint
	HTTPPort           int           `envconfig:"HTTP_PORT" default:"8080"`
	HealthCheckTimeout time.Duration `envconfig:"HEALTH_CHECK_TIMEOUT" default:"5s"`

	// Logging
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (*Config, error) {
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// ValidateForServe checks required config when running the dispatch server.
func (c *Config) ValidateForServe() error {
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("%s - DISPATCH_REQUEST_TIMEOUT must be positive", logPrefix)
	}
	if c.HealthCheckTimeout <= 0 {
		return fmt.Errorf("%s - HEALTH_CHECK_TIMEOUT must be positive", logPrefix)
	}
	if c.MinConfidence < 0 || c.MinConfidence > 1 {
		return fmt.Errorf("%s - MATCH_MIN_CONFIDENCE must be in [0,1]", logPrefix)
	}
	return nil
}

// ValidateForDB checks required config when running DB-dependent commands (migrate, clear, ensure-db).
func (c *Config) ValidateForDB() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("%s - DATABASE_URL is required", logPrefix)
	}
	return nil
}
