// Package cli provides the command-line interface for streamfilter.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/streamfilter/internal/cli/commands"
	"github.com/ccollicutt/streamfilter/internal/cli/plugins"
)

// Execute runs streamfilter with the process arguments and returns the exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return Run(ctx, os.Args[1:], plugins.OSStreams())
}

// Run executes the root command with args and returns the exit code.
// Unknown commands are dispatched to streamfilter-<command> plugins.
func Run(ctx context.Context, args []string, streams plugins.Streams) int {
	commands.ExitCode = 0
	rootCmd := NewRootCommand()
	rootCmd.SetArgs(args)
	rootCmd.SetIn(streams.In)
	rootCmd.SetOut(streams.Out)
	rootCmd.SetErr(streams.Err)

	potentialCommand := ""
	if len(args) > 0 && len(args[0]) > 0 && args[0][0] != '-' && !isBuiltinCommand(rootCmd, args[0]) {
		potentialCommand = args[0]
	}

	if potentialCommand != "" {
		if pluginPath, err := plugins.FindPlugin(potentialCommand); err == nil {
			return plugins.Execute(ctx, pluginPath, args[1:], streams)
		}
		// Plugin not found - will fall through to Cobra which will show error
	}

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if potentialCommand != "" {
			_, _ = fmt.Fprintln(streams.Err, plugins.FormatNotFoundError(potentialCommand))
			return 2
		}
		// SilenceErrors prevents Cobra from printing this
		_, _ = fmt.Fprintf(streams.Err, "Error: %v\n", err)
		return 2
	}
	return commands.ExitCode
}

// isBuiltinCommand checks if a command name is a built-in cobra command.
func isBuiltinCommand(rootCmd *cobra.Command, name string) bool {
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == name || cmd.HasAlias(name) {
			return true
		}
	}
	return name == "help" || name == "completion"
}

// NewRootCommand creates the root cobra command.
func NewRootCommand() *cobra.Command {
	globals := &commands.GlobalOptions{}

	rootCmd := &cobra.Command{
		Use:   "streamfilter",
		Short: "Filter the lines of a text file by substring",
		Long: `streamfilter loads a text file and shows the lines that contain a search string.

The search is a plain, case-sensitive substring match performed in memory on
the loaded copy of the file.

  filter    print matching lines (grep-style, scriptable)
  show      print a file as it is loaded
  view      interactive side-by-side view of the file and its matches

PLUGINS:
  Plugins are standalone binaries named streamfilter-<command> that are
  automatically discovered and invoked.

  Plugin locations (searched in order):
    1. Same directory as the streamfilter binary
    2. ~/.streamfilter/plugins/
    3. Anywhere in PATH`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&globals.ConfigPath, "config", "c", "", "Path to a YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&globals.LogLevel, "log-level", "", "Log level (trace|debug|info|warn|error)")

	rootCmd.AddCommand(commands.NewFilterCommand(globals))
	rootCmd.AddCommand(commands.NewShowCommand(globals))
	rootCmd.AddCommand(commands.NewViewCommand(globals))
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	return rootCmd
}
