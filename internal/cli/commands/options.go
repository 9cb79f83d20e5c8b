package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/ccollicutt/streamfilter/internal/logging"
	"github.com/ccollicutt/streamfilter/pkg/config"
	"github.com/ccollicutt/streamfilter/pkg/loader"
)

// ExitCode is set by commands to indicate the result
var ExitCode = 0

// GlobalOptions holds the persistent root flags shared by all commands.
type GlobalOptions struct {
	ConfigPath string
	LogLevel   string
}

// loadConfig loads the configured file (or defaults) and applies flag overrides.
func (g *GlobalOptions) loadConfig(ctx context.Context) (*config.Config, error) {
	cfg, err := config.LoadOrDefault(ctx, g.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if g.LogLevel != "" {
		if _, err := zerolog.ParseLevel(g.LogLevel); err != nil {
			return nil, fmt.Errorf("--log-level: %w", err)
		}
		cfg.LogLevel = g.LogLevel
	}

	return cfg, nil
}

func newConsoleLogger(cfg *config.Config, w io.Writer) zerolog.Logger {
	logger, err := logging.NewConsole(w, cfg.LogLevel)
	if err != nil {
		// Validate already checked the level.
		return zerolog.Nop()
	}
	return logger
}

func newLoader(cfg *config.Config, logger zerolog.Logger, stdin io.Reader) *loader.Loader {
	return loader.New(
		loader.WithMaxLineSize(cfg.MaxLineSize),
		loader.WithLogger(logging.Component(logger, "loader")),
		loader.WithStdin(stdin),
	)
}
