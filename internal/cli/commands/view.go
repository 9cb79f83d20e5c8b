package commands

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/ccollicutt/streamfilter/internal/logging"
	"github.com/ccollicutt/streamfilter/internal/tui"
	"github.com/ccollicutt/streamfilter/pkg/document"
	"github.com/ccollicutt/streamfilter/pkg/session"
)

// NewViewCommand creates the interactive view command.
func NewViewCommand(globals *GlobalOptions) *cobra.Command {
	var lineNumbers bool

	cmd := &cobra.Command{
		Use:   "view [file|-]",
		Short: "Browse a file and its filtered lines side by side",
		Long: `Open an interactive terminal view with the loaded file on the left and the
lines matching the last search on the right.

Keys:
  o        open a file
  /        search (plain, case-sensitive substring)
  tab      switch the scrolled pane
  q        quit

Logs are written to log_file from the configuration, if set.`,
		Args: cobra.MaximumNArgs(1),
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

			logger, closer, err := logging.NewFile(cfg.LogFile, cfg.LogLevel)
			if err != nil {
				return err
			}
			if closer != nil {
				defer closer.Close()
			}

			s := session.New(newLoader(cfg, logger, cmd.InOrStdin()), logging.Component(logger, "session"))
			opts := tui.Options{
				LineNumbers: lineNumbers,
				Logger:      logging.Component(logger, "tui"),
			}

			var progOpts []tea.ProgramOption
			if len(args) == 1 {
				if args[0] == document.StdinSource {
					// Read the piped document now; keys then come from the terminal.
					if err := s.Load(ctx, args[0]); err != nil {
						return err
					}
					progOpts = append(progOpts, tea.WithInputTTY())
				} else {
					opts.InitialPath = args[0]
				}
			}

			if err := tui.Run(ctx, s, opts, progOpts...); err != nil {
				return fmt.Errorf("running view: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&lineNumbers, "line-numbers", "n", false, "Prefix lines with their line number")

	return cmd
}
