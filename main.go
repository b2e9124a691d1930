// package main is the entry point for the issue-sweeper tool
package main

import (
	"log/slog"
	"os"

	"github.com/alan/issue-sweeper/cmd/sweep"
	"github.com/alan/issue-sweeper/internal/config"
	"github.com/spf13/cobra"
)

func main() {
	var logLevel string
	var logFormat string

	rootCmd := &cobra.Command{
		Use:   "issue-sweeper",
		Short: "A CLI tool for bulk triage of labeled GitHub issues",
		Long: `issue-sweeper fetches open issues carrying a given label, page by page,
and comments on, closes, and locks each one. Transient API failures are
retried with a bounded fixed delay, and a JSON summary of the run counters
is written when the sweep completes cleanly.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			setupLogger(logLevel, logFormat)
		},
	}

	// Add global flags
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVarP(&logFormat, "log-format", "f", "text", "Log format (text, json)")

	rootCmd.AddCommand(sweep.NewSweepCmd(config.LoadConfig))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupLogger(level, format string) {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})
	} else {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})
	}

	slog.SetDefault(slog.New(handler))
}
