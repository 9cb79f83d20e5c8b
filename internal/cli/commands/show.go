package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/streamfilter/pkg/output"
)

// NewShowCommand creates the show command.
func NewShowCommand(globals *GlobalOptions) *cobra.Command {
	var lineNumbers bool

	cmd := &cobra.Command{
		Use:   "show <file|->",
		Short: "Print a file as it is loaded",
		Long: `Load a file the same way filter and view do and print its lines.

Useful for checking how line endings and a trailing blank line are handled.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			cfg, err := globals.loadConfig(ctx)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("line-numbers") {
				lineNumbers = cfg.LineNumbers
			}

			ld := newLoader(cfg, newConsoleLogger(cfg, cmd.ErrOrStderr()), cmd.InOrStdin())
			doc, err := ld.Load(ctx, args[0])
			if err != nil {
				return err
			}

			if err := output.WriteDocument(cmd.OutOrStdout(), doc, lineNumbers); err != nil {
				return fmt.Errorf("writing output: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&lineNumbers, "line-numbers", "n", false, "Prefix lines with their line number")

	return cmd
}
