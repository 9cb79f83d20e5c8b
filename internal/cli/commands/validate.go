package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/streamfilter/pkg/config"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a configuration file",
		Long: `Validate a streamfilter configuration file without filtering anything.

Checks:
  - YAML syntax
  - Output format and log level
  - Webhook URLs and triggers`,
		Args: cobra.ExactArgs(1),
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	configPath := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Validating %s...\n", configPath)

	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	fmt.Fprintf(out, "\nConfiguration valid!\n")
	fmt.Fprintf(out, "  Max line size: %d bytes\n", cfg.MaxLineSize)
	fmt.Fprintf(out, "  Output:        %s\n", cfg.Output)
	fmt.Fprintf(out, "  Line numbers:  %t\n", cfg.LineNumbers)
	fmt.Fprintf(out, "  Log level:     %s\n", cfg.LogLevel)
	if cfg.LogFile != "" {
		fmt.Fprintf(out, "  Log file:      %s\n", cfg.LogFile)
	}

	if len(cfg.Webhooks) > 0 {
		fmt.Fprintf(out, "\nWebhooks:\n")
		for i, wh := range cfg.Webhooks {
			name := wh.Name
			if name == "" {
				name = wh.URL
			}
			fmt.Fprintf(out, "  %d. %s [%s, timeout %s]\n", i+1, name, wh.Trigger, wh.Timeout)
		}
	}

	return nil
}
