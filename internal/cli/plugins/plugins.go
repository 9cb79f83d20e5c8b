// Package plugins provides exec-based plugin support for streamfilter.
// Plugins are separate binaries named streamfilter-<command> that are
// discovered and executed when an unknown command is invoked.
//
// This follows the same pattern used by kubectl and git for plugins.
package plugins

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// BinaryName is the name of the main binary and the plugin prefix.
const BinaryName = "streamfilter"

// KnownPlugins lists plugin commands users commonly look for.
// These get a description in the not-found message.
var KnownPlugins = map[string]string{
	"tail": "Follow a growing file and filter new lines as they arrive.",
}

// ErrPluginNotFound is returned when no plugin binary can be located.
var ErrPluginNotFound = errors.New("plugin not found")

// Streams are the standard streams handed to a plugin process.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// OSStreams returns the process's own standard streams.
func OSStreams() Streams {
	return Streams{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}

// pluginName returns the binary name for a command.
func pluginName(command string) string {
	return BinaryName + "-" + command
}

// PluginDir returns ~/.streamfilter/plugins.
func PluginDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, "."+BinaryName, "plugins"), nil
}

// FindPlugin searches for a plugin binary named streamfilter-<command>.
// It searches in the following locations in order:
//  1. Same directory as the streamfilter binary
//  2. ~/.streamfilter/plugins/
//  3. Anywhere in PATH
func FindPlugin(command string) (string, error) {
	if command == "" || strings.ContainsAny(command, `/\`) {
		return "", ErrPluginNotFound
	}
	name := pluginName(command)

	if execPath, err := os.Executable(); err == nil {
		candidate := filepath.Join(filepath.Dir(execPath), name)
		if isExecutable(candidate) {
			return candidate, nil
		}
	}

	if dir, err := PluginDir(); err == nil {
		candidate := filepath.Join(dir, name)
		if isExecutable(candidate) {
			return candidate, nil
		}
	}

	if path, err := exec.LookPath(name); err == nil {
		return path, nil
	}

	return "", ErrPluginNotFound
}

// Execute runs a plugin with the given arguments and returns its exit code.
func Execute(ctx context.Context, pluginPath string, args []string, streams Streams) int {
	cmd := exec.CommandContext(ctx, pluginPath, args...) // #nosec G204 -- plugin path comes from FindPlugin
	cmd.Stdin = streams.In
	cmd.Stdout = streams.Out
	cmd.Stderr = streams.Err

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode()
		}
		fmt.Fprintf(streams.Err, "Error executing plugin: %v\n", err)
		return 1
	}

	return 0
}

// FormatNotFoundError returns a helpful error message when a plugin is not found.
func FormatNotFoundError(command string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "unknown command %q for %q\n", command, BinaryName)

	if info, ok := KnownPlugins[command]; ok {
		fmt.Fprintf(&sb, "\n%q is provided by a plugin: %s\n", command, info)
		sb.WriteString("\nInstall the plugin binary as one of:\n")
	} else {
		sb.WriteString("\nIf this is a plugin, install the binary as one of:\n")
	}

	name := pluginName(command)
	fmt.Fprintf(&sb, "  - %s in the same directory as %s\n", name, BinaryName)
	fmt.Fprintf(&sb, "  - ~/.%s/plugins/%s\n", BinaryName, name)
	fmt.Fprintf(&sb, "  - %s anywhere in your PATH\n", name)

	fmt.Fprintf(&sb, "\nRun '%s --help' for usage.", BinaryName)

	return sb.String()
}

// isExecutable checks if a regular file exists with an execute bit set.
func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular() && info.Mode()&0111 != 0
}
