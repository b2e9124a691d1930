// Package sweep implements the sweep command: the single entry point that
// wires configuration, the GitHub client, and the triage runner together.
package sweep

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/alan/issue-sweeper/internal/config"
	"github.com/alan/issue-sweeper/internal/github"
	"github.com/alan/issue-sweeper/internal/triage"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// SweepCommand encapsulates the sweep command and its resolved settings
type SweepCommand struct {
	ConfigFile string
	LoadConfig func(string) (*config.Config, error)
	Config     *config.Config
}

// NewSweepCmd creates the sweep command
func NewSweepCmd(loadConfig func(string) (*config.Config, error)) *cobra.Command {
	sweepCmd := &SweepCommand{LoadConfig: loadConfig}

	// Flag values start from the defaults; only flags the user actually
	// set override the config file.
	flagValues := config.DefaultConfig()

	command := &cobra.Command{
		Use:   "sweep",
		Short: "Comment on, close, and lock all open issues carrying a label",
		Long: `Fetch open issues carrying the given label page by page and, for each
one that is not a pull request, post a comment, close it, and lock it.

A single failed comment, close, or lock call (after retries) aborts the
whole run and no summary is written. An issue that is already locked is
logged and skipped for the lock step only.

Requires GITHUB_TOKEN environment variable to be set.

Examples:
  issue-sweeper sweep --repo myorg/myrepo --label wontfix
  issue-sweeper sweep -c sweep.yaml --dry-run
  issue-sweeper sweep --repo myorg/myrepo --label stale --max-pages 2`,
		SilenceUsage: true,
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			cfg, err := sweepCmd.resolveConfig(flagValues, cobraCmd.Flags())
			if err != nil {
				return err
			}
			sweepCmd.Config = cfg

			return sweepCmd.Run()
		},
	}

	command.Flags().StringVarP(&sweepCmd.ConfigFile, "config", "c", "", "Path to configuration file")
	command.Flags().StringVar(&flagValues.Repo, "repo", flagValues.Repo, "Target repository (owner/name)")
	command.Flags().StringVar(&flagValues.Label, "label", flagValues.Label, "Label to filter issues by")
	command.Flags().IntVar(&flagValues.PerPage, "per-page", flagValues.PerPage, "Listing page size")
	command.Flags().BoolVar(&flagValues.DryRun, "dry-run", flagValues.DryRun, "Log what would happen without issuing mutating calls")
	command.Flags().StringVar(&flagValues.Message, "message", flagValues.Message, "Comment body posted to each issue")
	command.Flags().StringVar(&flagValues.LockReason, "lock-reason", flagValues.LockReason, "Reason sent when locking an issue")
	command.Flags().IntVar(&flagValues.MaxPages, "max-pages", flagValues.MaxPages, "Maximum number of pages to fetch (0 = unlimited)")
	command.Flags().StringVar(&flagValues.SummaryFile, "summary-file", flagValues.SummaryFile, "Path of the run summary artifact")
	command.Flags().IntVar(&flagValues.RequestTimeoutSeconds, "request-timeout", flagValues.RequestTimeoutSeconds, "Per-request timeout in seconds")
	command.Flags().IntVar(&flagValues.MaxAttempts, "max-attempts", flagValues.MaxAttempts, "Attempts per API operation before giving up")
	command.Flags().IntVar(&flagValues.RetryDelaySeconds, "retry-delay", flagValues.RetryDelaySeconds, "Fixed delay between retry attempts in seconds")

	return command
}

// resolveConfig loads the config file (or starts from defaults) and lays
// any explicitly set flags over it.
func (sc *SweepCommand) resolveConfig(flagValues *config.Config, flags *pflag.FlagSet) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if sc.ConfigFile != "" {
		loaded, err := sc.LoadConfig(sc.ConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags.Visit(func(flag *pflag.Flag) {
		switch flag.Name {
		case "repo":
			cfg.Repo = flagValues.Repo
		case "label":
			cfg.Label = flagValues.Label
		case "per-page":
			cfg.PerPage = flagValues.PerPage
		case "dry-run":
			cfg.DryRun = flagValues.DryRun
		case "message":
			cfg.Message = flagValues.Message
		case "lock-reason":
			cfg.LockReason = flagValues.LockReason
		case "max-pages":
			cfg.MaxPages = flagValues.MaxPages
		case "summary-file":
			cfg.SummaryFile = flagValues.SummaryFile
		case "request-timeout":
			cfg.RequestTimeoutSeconds = flagValues.RequestTimeoutSeconds
		case "max-attempts":
			cfg.MaxAttempts = flagValues.MaxAttempts
		case "retry-delay":
			cfg.RetryDelaySeconds = flagValues.RetryDelaySeconds
		}
	})

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Run executes the sweep command
func (sc *SweepCommand) Run() error {
	token, err := getGitHubToken()
	if err != nil {
		return err
	}

	ctx := context.Background()
	client, err := github.NewClient(token, sc.Config.Repo, github.Options{
		Timeout: sc.Config.RequestTimeout(),
		Retry: &github.RetryConfig{
			MaxAttempts: sc.Config.MaxAttempts,
			Delay:       sc.Config.RetryDelay(),
		},
	})
	if err != nil {
		return err
	}

	return runSweep(ctx, client, sc.Config)
}

// runSweep clears any stale summary, runs the sweep, and writes the
// summary only on clean completion.
func runSweep(ctx context.Context, service triage.IssueService, cfg *config.Config) error {
	if err := triage.RemoveSummary(cfg.SummaryFile); err != nil {
		return err
	}

	runner := triage.NewRunner(service, cfg)
	counters, err := runner.Run(ctx)
	if err != nil {
		slog.Error("Sweep aborted", "error", err)
		return err
	}

	if err := triage.WriteSummary(cfg.SummaryFile, counters); err != nil {
		return err
	}

	slog.Info("Sweep complete",
		"processed", counters.Processed,
		"commented", counters.Commented,
		"closed", counters.Closed,
		"locked", counters.Locked,
		"skipped", counters.Skipped,
		"summary_file", cfg.SummaryFile)

	return nil
}

// getGitHubToken retrieves and validates the GitHub token
func getGitHubToken() (string, error) {
	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		return "", fmt.Errorf("GITHUB_TOKEN environment variable is required")
	}
	return token, nil
}
