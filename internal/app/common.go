package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/blackwell-systems/rankwatch/internal/analyzer"
	"github.com/blackwell-systems/rankwatch/internal/config"
	"github.com/blackwell-systems/rankwatch/internal/fetch"
	"github.com/blackwell-systems/rankwatch/internal/logging"
	"github.com/blackwell-systems/rankwatch/internal/output"
	"github.com/blackwell-systems/rankwatch/internal/rankapi"
	"github.com/blackwell-systems/rankwatch/internal/store"
)

// loadConfig loads the configuration from the --config path when given, and
// otherwise from the default location plus RANKWATCH_* environment overrides.
func loadConfig() (*config.Config, error) {
	if cfgFile != "" {
		return config.Load(cfgFile)
	}
	return config.LoadDefault()
}

// configPathInUse returns the config file the current invocation reads, or
// "" when configuration comes from defaults and environment alone. The watch
// daemon watches this path for live setting reloads.
func configPathInUse() string {
	if cfgFile != "" {
		return cfgFile
	}
	path, err := config.DefaultPath()
	if err != nil {
		return ""
	}
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

// newClient builds the scan-service client from the configuration. With
// --verbose a debug logger traces every request on stderr.
func newClient(cfg *config.Config) (*rankapi.Client, error) {
	opts := []rankapi.Option{
		rankapi.WithTimeout(cfg.API.Timeout),
		rankapi.WithShareBaseURL(cfg.API.ShareBaseURL),
	}
	if verbose {
		logger, err := logging.New("debug", cfg.Log.Format)
		if err != nil {
			return nil, err
		}
		opts = append(opts, rankapi.WithLogger(logger))
	}
	client, err := rankapi.New(cfg.API.BaseURL, cfg.API.Key, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create API client: %w", err)
	}
	return client, nil
}

// openStore opens the ledger database and ensures the schema exists.
func openStore() (*store.Store, error) {
	dbPath, err := getDBPath()
	if err != nil {
		return nil, err
	}
	st, err := store.New(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := st.CreateSchema(); err != nil {
		st.Close()
		return nil, fmt.Errorf("failed to create database schema: %w", err)
	}
	return st, nil
}

// newSpinner builds a spinner writing to stderr so report output on stdout
// stays parseable.
func newSpinner(message string) *output.Spinner {
	s := output.NewSpinner(message)
	s.SetWriter(os.Stderr)
	return s
}

// newProgress builds a progress bar writing to stderr, for the same reason.
func newProgress(total int, label string) *output.ProgressBar {
	b := output.NewProgress(total, label)
	b.SetWriter(os.Stderr)
	return b
}

// fetchScans pulls every scan summary from the service.
func fetchScans(ctx context.Context, client *rankapi.Client) ([]rankapi.Scan, error) {
	spinner := newSpinner("Fetching scans...")
	spinner.Start()
	scans, err := client.AllScans(ctx)
	spinner.Stop()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch scans: %w", err)
	}
	return scans, nil
}

// fetchLatestDetails merges keyword results into each business's newest scan
// through the bounded fetch pool. Failed fetches leave summaries in place and
// surface as warnings on stderr.
func fetchLatestDetails(ctx context.Context, cfg *config.Config, client *rankapi.Client, g *analyzer.Grouping) {
	latests := g.Latests()
	if len(latests) == 0 {
		return
	}

	bar := newProgress(len(latests), "Fetching keyword details")
	detailed, warnings := fetch.Details(ctx, client, latests, fetch.Options{
		Concurrency: cfg.Fetch.Concurrency,
		Timeout:     cfg.Fetch.Timeout,
		Progress:    bar.Increment,
	})
	bar.Finish()

	for _, s := range detailed {
		g.Replace(s)
	}
	printWarnings(warnings)
}

// printWarnings writes fetch warnings to stderr. No-op for an empty list.
func printWarnings(warnings []string) {
	fmt.Fprint(os.Stderr, output.RenderWarnings(warnings))
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
