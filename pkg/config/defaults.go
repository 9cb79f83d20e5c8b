package config

import (
	"os"
	"time"
)

// Default values for configuration.
const (
	DefaultMaxLineSize    = 1024 * 1024
	DefaultOutput         = OutputText
	DefaultLogLevel       = "warn"
	DefaultWebhookTimeout = 10 * time.Second
)

// Environment variable names.
const (
	EnvOutput   = "STREAMFILTER_OUTPUT"
	EnvLogLevel = "STREAMFILTER_LOG_LEVEL"
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		MaxLineSize: DefaultMaxLineSize,
		Output:      DefaultOutput,
		LogLevel:    DefaultLogLevel,
	}
}

// applyEnvironmentOverrides applies environment variable overrides to the config.
func (c *Config) applyEnvironmentOverrides() {
	if output := os.Getenv(EnvOutput); output != "" {
		c.Output = output
	}
	if level := os.Getenv(EnvLogLevel); level != "" {
		c.LogLevel = level
	}
}
