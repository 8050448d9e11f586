package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/rankwatch/internal/config"
)

var (
	cfgFile string
	verbose bool

	// RootCmd is the root command for rankwatch
	RootCmd = &cobra.Command{
		Use:   "rankwatch",
		Short: "Local ranking reports and drop alerts for client businesses",
		Long: `rankwatch pulls local ranking scans from the scan service and turns them
into the reports an agency runs its morning on: a portfolio summary, a
per-client report, a prioritized action list, quick-win keywords, and an
at-risk list.

Configuration lives in ~/.config/rankwatch/config.yaml with RANKWATCH_*
environment overrides; RANKWATCH_API_KEY is the only required setting.

Quick Start:
  1. export RANKWATCH_API_KEY=<your key>
  2. rankwatch summary
  3. rankwatch priorities
  4. rankwatch watch    # background drop alerts

Features:
  • Portfolio and per-client trend reports
  • Daily priorities: urgent drops, deep ranks, quick wins
  • Website audit submission and tracking
  • Background watch daemon with ranking-drop alerts
  • JSON output on every report for scripting

Examples:
  # Portfolio overview
  rankwatch summary

  # One client in detail
  rankwatch client "Acme Plumbing"

  # What to work on today
  rankwatch priorities

  # Start drop alerts in the background
  rankwatch watch

  # Submit a website audit
  rankwatch audit submit https://acmeplumbing.example`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("rankwatch: local ranking reports for client businesses")
			fmt.Println()
			if os.Getenv("RANKWATCH_API_KEY") == "" && !configFileExists() {
				fmt.Println("No API key configured. Set RANKWATCH_API_KEY or create a config file.")
				fmt.Println("Run 'rankwatch --help' for the full reference.")
			} else {
				fmt.Println("Tip: Run 'rankwatch summary' for the portfolio overview.")
				fmt.Println("     Run 'rankwatch priorities' for today's action list.")
				fmt.Println("     Run 'rankwatch --help' for all commands.")
			}
			return nil
		},
	}
)

func init() {
	// Global flags
	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.config/rankwatch/config.yaml)")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "trace API requests on stderr")

	// Enable cobra's built-in suggestion feature for unknown subcommands
	RootCmd.SuggestionsMinimumDistance = 2
}

// Execute runs the root command
func Execute() error {
	return RootCmd.Execute()
}

// SetVersion wires the build version into the root command, enabling
// --version.
func SetVersion(v string) {
	RootCmd.Version = v
}

// configFileExists reports whether a config file is present at the --config
// path or the default location.
func configFileExists() bool {
	path := cfgFile
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return false
		}
	}
	_, err := os.Stat(path)
	return err == nil
}

// getDBPath returns the ledger database path inside the data directory
func getDBPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	// Create .rankwatch directory if it doesn't exist
	rankwatchDir := filepath.Join(home, ".rankwatch")
	if err := os.MkdirAll(rankwatchDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create rankwatch directory: %w", err)
	}

	return filepath.Join(rankwatchDir, "rankwatch.db"), nil
}

// getDefaultPIDFile returns the default watch daemon PID file path
func getDefaultPIDFile() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	rankwatchDir := filepath.Join(home, ".rankwatch")
	if err := os.MkdirAll(rankwatchDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create rankwatch directory: %w", err)
	}

	return filepath.Join(rankwatchDir, "watch.pid"), nil
}

// getDefaultLogFile returns the default watch daemon log file path
func getDefaultLogFile() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	rankwatchDir := filepath.Join(home, ".rankwatch")
	if err := os.MkdirAll(rankwatchDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create rankwatch directory: %w", err)
	}

	return filepath.Join(rankwatchDir, "watch.log"), nil
}
