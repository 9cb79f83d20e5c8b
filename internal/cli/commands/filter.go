package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/streamfilter/internal/logging"
	"github.com/ccollicutt/streamfilter/pkg/config"
	"github.com/ccollicutt/streamfilter/pkg/document"
	"github.com/ccollicutt/streamfilter/pkg/filter"
	"github.com/ccollicutt/streamfilter/pkg/loader"
	"github.com/ccollicutt/streamfilter/pkg/output"
	"github.com/ccollicutt/streamfilter/pkg/webhook"
)

// FilterOptions holds command-line options for the filter command.
type FilterOptions struct {
	Output      string
	LineNumbers bool
	Verbose     bool
	Quiet       bool

	// Webhook options
	WebhookURL     string
	WebhookToken   string
	WebhookTrigger string
}

// NewFilterCommand creates the filter command.
func NewFilterCommand(globals *GlobalOptions) *cobra.Command {
	opts := &FilterOptions{}

	cmd := &cobra.Command{
		Use:   "filter <query> [file|glob|-]...",
		Short: "Print the lines that contain a substring",
		Long: `Load each file and print the lines that contain the query.

The query is a plain, case-sensitive substring: no pattern syntax, no escaping.
With no files, or with "-", standard input is read.

Exit codes:
  0 - At least one line matched
  1 - No lines matched
  2 - Usage, configuration or read error`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFilter(cmd, args, opts, globals)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", config.DefaultOutput, "Output format (text|json)")
	cmd.Flags().BoolVarP(&opts.LineNumbers, "line-numbers", "n", false, "Prefix matches with their line number")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Append a per-source summary")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Summary only, no matching lines")

	cmd.Flags().StringVar(&opts.WebhookURL, "webhook-url", "", "Webhook endpoint URL")
	cmd.Flags().StringVar(&opts.WebhookToken, "webhook-token", "", "Bearer token for webhook auth")
	cmd.Flags().StringVar(&opts.WebhookTrigger, "webhook-trigger", string(config.WebhookTriggerOnMatches), "When to fire webhook (on_matches|always|never)")

	return cmd
}

func runFilter(cmd *cobra.Command, args []string, opts *FilterOptions, globals *GlobalOptions) error {
	ExitCode = 0
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	query := args[0]
	if query == "" {
		return filter.ErrInvalidQuery
	}

	cfg, err := globals.loadConfig(ctx)
	if err != nil {
		return err
	}
	logger := newConsoleLogger(cfg, cmd.ErrOrStderr())

	patterns := args[1:]
	if len(patterns) == 0 {
		patterns = []string{document.StdinSource}
	}
	sources, err := loader.ExpandSources(patterns)
	if err != nil {
		return fmt.Errorf("expanding sources: %w", err)
	}
	logger.Debug().Strs("sources", sources).Str("query", query).Msg("filtering")

	ld := newLoader(cfg, logger, cmd.InOrStdin())

	start := time.Now()
	results := make([]*output.FileResult, 0, len(sources))
	for _, src := range sources {
		doc, err := ld.Load(ctx, src)
		if err != nil {
			return err
		}

		view, err := filter.Filter(doc, query)
		if err != nil {
			return err
		}
		results = append(results, output.NewFileResult(doc, view))
	}

	report := output.NewReport(query, results, start, time.Now())
	report.Metadata.ConfigFile = globals.ConfigPath

	formatter, err := createFormatter(cmd, cfg, opts)
	if err != nil {
		return err
	}

	if err := formatter.Format(ctx, report, cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	filterLogger := logging.Component(logger, "filter")
	filterLogger.Info().
		Int("sources", report.Summary.SourcesSearched).
		Int("matches", report.Summary.TotalMatches).
		Msg("filter complete")

	// Webhook failures are reported but don't change the exit code
	sendWebhooks(ctx, cfg, opts, report, cmd.ErrOrStderr())

	if !report.HasMatches() {
		ExitCode = 1
	}

	return nil
}

// createFormatter picks the format from the flag when given, else from config.
func createFormatter(cmd *cobra.Command, cfg *config.Config, opts *FilterOptions) (output.Formatter, error) {
	format := cfg.Output
	if cmd.Flags().Changed("output") {
		format = opts.Output
	}

	lineNumbers := cfg.LineNumbers
	if cmd.Flags().Changed("line-numbers") {
		lineNumbers = opts.LineNumbers
	}

	return output.NewFormatter(format, output.FormatOptions{
		Verbose:     opts.Verbose,
		Quiet:       opts.Quiet,
		LineNumbers: lineNumbers,
	})
}

// sendWebhooks sends the report to all configured webhooks whose trigger fires.
func sendWebhooks(ctx context.Context, cfg *config.Config, opts *FilterOptions, report *output.Report, stderr io.Writer) {
	webhooks := collectWebhooks(cfg, opts)
	if len(webhooks) == 0 {
		return
	}

	for _, d := range webhook.NewClient().Notify(ctx, report, webhooks) {
		if d.Response.Success() {
			fmt.Fprintf(stderr, "Webhook %s: sent (%d, %s)\n", d.Name, d.Response.StatusCode, d.Response.Duration)
		} else {
			fmt.Fprintf(stderr, "Webhook %s: failed (%v)\n", d.Name, d.Response.Error)
		}
	}
}

// collectWebhooks merges config file webhooks with the CLI webhook.
func collectWebhooks(cfg *config.Config, opts *FilterOptions) []config.WebhookConfig {
	webhooks := make([]config.WebhookConfig, 0, len(cfg.Webhooks)+1)
	webhooks = append(webhooks, cfg.Webhooks...)

	if opts.WebhookURL != "" {
		trigger := config.WebhookTrigger(opts.WebhookTrigger)
		if trigger == "" {
			trigger = config.WebhookTriggerOnMatches
		}

		webhooks = append(webhooks, config.WebhookConfig{
			Name:    "cli",
			URL:     opts.WebhookURL,
			Token:   opts.WebhookToken,
			Trigger: trigger,
			Timeout: config.DefaultWebhookTimeout,
		})
	}

	return webhooks
}
