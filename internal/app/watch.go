package app

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/blackwell-systems/rankwatch/internal/config"
	"github.com/blackwell-systems/rankwatch/internal/daemon"
	"github.com/blackwell-systems/rankwatch/internal/logging"
	"github.com/blackwell-systems/rankwatch/internal/output"
	"github.com/blackwell-systems/rankwatch/internal/rankapi"
	"github.com/blackwell-systems/rankwatch/internal/store"
)

var (
	watchForeground  bool
	watchDaemonChild bool
	watchStop        bool
	watchShowStatus  bool
	watchPIDFile     string
	watchLogFile     string

	watchCmd = &cobra.Command{
		Use:   "watch",
		Short: "Watch for ranking drops in the background",
		Long: `Poll the scan listing on an interval and alert when a business's newest
scan is worse than the last one seen by more than the drop threshold.

Each business's last seen scan is marked in the local database, so an
alert fires once per scan, not on every poll, and restarts stay quiet
about drops already alerted.

Watch modes:
  • Default: detach a background daemon logging to the watch log file
  • Foreground: run in the current terminal with Ctrl+C to stop
  • Stop: stop a running daemon
  • Status: show daemon state and the tracked businesses

Interval and threshold come from watch.interval and watch.drop_threshold
in the config file; changes to the file apply live without a restart.`,
		Example: `  # Start the background daemon
  rankwatch watch

  # Run in the foreground (Ctrl+C to stop)
  rankwatch watch --foreground

  # Stop the daemon
  rankwatch watch --stop

  # Daemon state and tracked businesses
  rankwatch watch --status`,
		Args: cobra.NoArgs,
		RunE: runWatch,
	}
)

func init() {
	watchCmd.Flags().BoolVar(&watchForeground, "foreground", false, "run in the foreground instead of daemonizing")
	watchCmd.Flags().BoolVar(&watchDaemonChild, "daemon-child", false, "internal flag for the daemon child process")
	watchCmd.Flags().BoolVar(&watchStop, "stop", false, "stop a running daemon")
	watchCmd.Flags().BoolVar(&watchShowStatus, "status", false, "show daemon state and tracked businesses")
	watchCmd.Flags().StringVar(&watchPIDFile, "pid-file", "", "PID file path (default: ~/.rankwatch/watch.pid)")
	watchCmd.Flags().StringVar(&watchLogFile, "log-file", "", "log file path (default: ~/.rankwatch/watch.log)")

	// Hide the internal daemon-child flag from help
	watchCmd.Flags().MarkHidden("daemon-child")

	RootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if watchPIDFile == "" {
		defaultPID, err := getDefaultPIDFile()
		if err != nil {
			return fmt.Errorf("failed to get default PID file path: %w", err)
		}
		watchPIDFile = defaultPID
	}

	if watchLogFile == "" {
		defaultLog, err := getDefaultLogFile()
		if err != nil {
			return fmt.Errorf("failed to get default log file path: %w", err)
		}
		watchLogFile = defaultLog
	}

	if watchStop {
		return stopWatchDaemon()
	}
	if watchShowStatus {
		return showWatchStatus()
	}

	// Load config up front so a broken file fails here, not silently in
	// the detached child.
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if watchDaemonChild {
		return runWatchChild(cfg)
	}
	if watchForeground {
		return runWatchForeground(cfg)
	}
	return startWatchDaemon(cfg)
}

func stopWatchDaemon() error {
	running, err := daemon.IsRunning(watchPIDFile)
	if err != nil {
		return fmt.Errorf("failed to check daemon status: %w", err)
	}
	if !running {
		fmt.Println("Watch daemon is not running")
		return nil
	}

	spinner := newSpinner("Stopping watch daemon...")
	spinner.Start()
	if err := daemon.Stop(watchPIDFile); err != nil {
		spinner.Stop()
		return fmt.Errorf("failed to stop daemon: %w", err)
	}
	spinner.Stop()

	fmt.Println("✓ Watch daemon stopped")
	return nil
}

func showWatchStatus() error {
	running, err := daemon.IsRunning(watchPIDFile)
	if err != nil {
		return fmt.Errorf("failed to check daemon status: %w", err)
	}
	if running {
		fmt.Printf("Watch daemon is running (PID file: %s)\n", watchPIDFile)
	} else {
		fmt.Println("Watch daemon is not running")
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	marks, err := st.ListScanMarks()
	if err != nil {
		return fmt.Errorf("failed to list scan marks: %w", err)
	}

	fmt.Println()
	fmt.Print(output.RenderScanMarkTable(marks))
	return nil
}

func startWatchDaemon(cfg *config.Config) error {
	childArgs := []string{"watch", "--daemon-child", "--pid-file", watchPIDFile, "--log-file", watchLogFile}
	if cfgFile != "" {
		childArgs = append(childArgs, "--config", cfgFile)
	}

	spinner := newSpinner("Starting watch daemon...")
	spinner.Start()
	if err := daemon.Start(watchPIDFile, watchLogFile, childArgs); err != nil {
		spinner.Stop()
		return fmt.Errorf("failed to start daemon: %w", err)
	}
	spinner.Stop()

	fmt.Println("✓ Watch daemon started")
	fmt.Println()
	fmt.Printf("  Polling every %s, alerting on drops over %.1f positions\n", cfg.Watch.Interval, cfg.Watch.DropThreshold)
	fmt.Printf("  PID file: %s\n", watchPIDFile)
	fmt.Printf("  Log file: %s\n", watchLogFile)
	fmt.Printf("\nTo stop: rankwatch watch --stop\n")
	return nil
}

// runWatchChild runs inside the detached daemon process. Its stdout and
// stderr already point at the log file, and structured logs go there too.
func runWatchChild(cfg *config.Config) error {
	logger, err := logging.NewFile(cfg.Log.Level, cfg.Log.Format, watchLogFile)
	if err != nil {
		return err
	}
	defer logger.Sync()

	p, st, err := buildPoller(cfg, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	return p.Run(watchPIDFile)
}

func runWatchForeground(cfg *config.Config) error {
	fmt.Println("Watching for ranking drops (press Ctrl+C to stop)...")
	fmt.Println()

	level := cfg.Log.Level
	if verbose {
		level = "debug"
	}
	logger, err := logging.New(level, cfg.Log.Format)
	if err != nil {
		return err
	}
	defer logger.Sync()

	p, st, err := buildPoller(cfg, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	// No PID file: foreground runs are owned by the terminal, not --stop.
	return p.Run("")
}

// buildPoller wires the API client, the mark store, and the poller. The
// caller closes the returned store after the poller's Run returns.
func buildPoller(cfg *config.Config, logger *zap.SugaredLogger) (*daemon.Poller, *store.Store, error) {
	client, err := rankapi.New(cfg.API.BaseURL, cfg.API.Key,
		rankapi.WithTimeout(cfg.API.Timeout),
		rankapi.WithShareBaseURL(cfg.API.ShareBaseURL),
		rankapi.WithLogger(logger),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create API client: %w", err)
	}

	st, err := openStore()
	if err != nil {
		return nil, nil, err
	}

	p, err := daemon.New(client, st, cfg, configPathInUse(), logger)
	if err != nil {
		st.Close()
		return nil, nil, err
	}
	return p, st, nil
}
