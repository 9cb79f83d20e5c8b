// Package config provides configuration loading and validation for streamfilter.
package config

import "time"

// Config is the root configuration structure loaded from YAML.
type Config struct {
	// MaxLineSize is the longest line, in bytes, the loader accepts.
	MaxLineSize int `yaml:"max_line_size"`

	// Output is the default report format (text, json).
	Output string `yaml:"output"`

	// LineNumbers prefixes printed lines with their line number.
	LineNumbers bool `yaml:"line_numbers"`

	// LogLevel is the zerolog level name (debug, info, warn, error).
	LogLevel string `yaml:"log_level"`

	// LogFile receives logs while the terminal view is running.
	// Empty discards them.
	LogFile string `yaml:"log_file,omitempty"`

	Webhooks []WebhookConfig `yaml:"webhooks,omitempty"`
}

// Output formats.
const (
	OutputText = "text"
	OutputJSON = "json"
)

// WebhookTrigger determines when a webhook fires.
type WebhookTrigger string

const (
	// WebhookTriggerOnMatches fires only when at least one line matched (default).
	WebhookTriggerOnMatches WebhookTrigger = "on_matches"
	// WebhookTriggerAlways fires after every search.
	WebhookTriggerAlways WebhookTrigger = "always"
	// WebhookTriggerNever disables the webhook.
	WebhookTriggerNever WebhookTrigger = "never"
)

// WebhookConfig defines a webhook endpoint for sending filter reports.
type WebhookConfig struct {
	Name string `yaml:"name,omitempty"`

	// URL is the webhook endpoint (required).
	URL string `yaml:"url"`

	// Token is an optional bearer token. ${VAR} and $VAR are expanded.
	Token string `yaml:"token,omitempty"`

	// Trigger defaults to "on_matches".
	Trigger WebhookTrigger `yaml:"trigger,omitempty"`

	// Timeout defaults to 10s.
	Timeout time.Duration `yaml:"timeout,omitempty"`
}
