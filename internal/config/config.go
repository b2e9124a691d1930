// Package config provides loading, defaults, and validation for sweep configuration files.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all settings for a sweep run. Values may come from a YAML
// file, with command-line flags overriding individual fields. The GitHub
// token is deliberately absent: it is only ever read from the environment.
type Config struct {
	// Repo is the target repository in "owner/name" form.
	Repo string `yaml:"repo"`
	// Label filters the issue listing.
	Label string `yaml:"label"`
	// PerPage is the listing page size.
	PerPage int `yaml:"per_page"`
	// DryRun logs what would happen without issuing mutating calls.
	DryRun bool `yaml:"dry_run"`
	// Message is the comment body posted to each issue before closing.
	Message string `yaml:"message"`
	// LockReason is sent when locking an issue.
	LockReason string `yaml:"lock_reason"`
	// MaxPages caps the number of pages fetched; 0 means unlimited.
	MaxPages int `yaml:"max_pages"`
	// SummaryFile is where the final run counters are written.
	SummaryFile string `yaml:"summary_file"`
	// RequestTimeoutSeconds bounds each individual HTTP call.
	RequestTimeoutSeconds int `yaml:"request_timeout_seconds"`
	// MaxAttempts bounds retries per API operation.
	MaxAttempts int `yaml:"max_attempts"`
	// RetryDelaySeconds is the fixed delay between retry attempts.
	RetryDelaySeconds int `yaml:"retry_delay_seconds"`
}

// DefaultConfig returns a Config with all tunables set to their defaults.
// Repo and Label have no defaults and must be supplied.
func DefaultConfig() *Config {
	return &Config{
		PerPage:               100,
		Message:               "This issue is being closed as part of bulk triage.",
		LockReason:            "resolved",
		SummaryFile:           "sweep-summary.json",
		RequestTimeoutSeconds: 30,
		MaxAttempts:           3,
		RetryDelaySeconds:     5,
	}
}

// LoadConfig loads the configuration from the specified file, applying
// defaults for any field the file leaves unset.
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename) //nolint:gosec // Config filename is from command-line flag
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// Validate checks that the configuration describes a runnable sweep.
// Violations are configuration errors: fatal immediately, never retried.
func (c *Config) Validate() error {
	if c.Repo == "" {
		return fmt.Errorf("repo is required (owner/name)")
	}
	if c.Label == "" {
		return fmt.Errorf("label is required")
	}
	if c.PerPage <= 0 {
		return fmt.Errorf("per_page must be a positive integer, got %d", c.PerPage)
	}
	if c.MaxPages < 0 {
		return fmt.Errorf("max_pages must not be negative, got %d", c.MaxPages)
	}
	if c.MaxAttempts < 1 {
		return fmt.Errorf("max_attempts must be at least 1, got %d", c.MaxAttempts)
	}
	return nil
}

// RequestTimeout returns the per-call HTTP timeout.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// RetryDelay returns the fixed delay between retry attempts.
func (c *Config) RetryDelay() time.Duration {
	return time.Duration(c.RetryDelaySeconds) * time.Second
}
