package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/manucho/restate/internal"
	"github.com/spf13/cobra"
)

var (
	verbose     bool
	logLevel    string
	configPath  string
	sessionPath string
	format      string
	timeout     time.Duration
	version     string = "dev"
	commit      string = "unknown"
	date        string = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "restate",
	Short: "Browse restate property listings from the terminal",
	Long: `restate signs you in to the restate backend and lets you browse its
property listings, agents and reviews.

Configuration comes from ~/.config/restate/config.yaml (or --config) and the
APPWRITE_* / EXPO_PUBLIC_APPWRITE_* environment variables:
  APPWRITE_ENDPOINT, APPWRITE_PROJECT_ID, APPWRITE_DATABASE_ID,
  APPWRITE_GALLERIES_TABLE_ID, APPWRITE_REVIEWS_TABLE_ID,
  APPWRITE_AGENTS_TABLE_ID, APPWRITE_PROPERTIES_TABLE_ID

Quick Start:
  restate login                            # Sign in with Google in your browser
  restate properties latest                # The five first listings
  restate properties list --filter House   # Newest houses
  restate property show <property-id>      # A listing with its agent and reviews`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			internal.SetVerbose(true)
			return nil
		}
		level, err := internal.ParseLogLevel(logLevel)
		if err != nil {
			return err
		}
		internal.SetLogLevel(level)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// Ctrl-C cancels the command's context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		internal.PrintError(os.Stderr, fmt.Sprintf("Error: %v", err))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (error, warn, info, debug)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file (default ~/.config/restate/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&sessionPath, "session", "", "Path to the session database (default ~/.restate/session.db)")
	rootCmd.PersistentFlags().StringVarP(&format, "format", "f", "table", "Output format (table, json, jsonl, yaml, md)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "Per-request timeout (0 waits indefinitely)")

	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}
