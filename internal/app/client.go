package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/rankwatch/internal/analyzer"
	"github.com/blackwell-systems/rankwatch/internal/fetch"
	"github.com/blackwell-systems/rankwatch/internal/output"
)

var (
	clientJSON bool

	clientCmd = &cobra.Command{
		Use:   "client <business>",
		Short: "Full report for one business",
		Long: `Show the full report for a single business: latest and previous scan
figures, the average-rank change between them, and every keyword that
improved or dropped.

The business name must match exactly as the scan service reports it,
including case. Run 'rankwatch summary' to see the known names.`,
		Example: `  # Report for one client
  rankwatch client "Acme Plumbing"

  # Machine-readable output
  rankwatch client "Acme Plumbing" --json`,
		Args: cobra.ExactArgs(1),
		RunE: runClient,
	}
)

func init() {
	clientCmd.Flags().BoolVar(&clientJSON, "json", false, "output JSON instead of a report")

	RootCmd.AddCommand(clientCmd)
}

func runClient(cmd *cobra.Command, args []string) error {
	name := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	scans, err := fetchScans(ctx, client)
	if err != nil {
		return err
	}

	grouped := analyzer.GroupScans(scans)
	history := grouped.Scans(name)
	if len(history) == 0 {
		return fmt.Errorf("no scans found for business %q (run 'rankwatch summary' to list known names)", name)
	}

	// Keyword movement compares the two newest scans, so only those need
	// full details.
	n := 2
	if len(history) < n {
		n = len(history)
	}
	bar := newProgress(n, "Fetching keyword details")
	detailed, warnings := fetch.Details(ctx, client, history[:n], fetch.Options{
		Concurrency: cfg.Fetch.Concurrency,
		Timeout:     cfg.Fetch.Timeout,
		Progress:    bar.Increment,
	})
	bar.Finish()
	printWarnings(warnings)
	copy(history[:n], detailed)

	report := analyzer.ComposeClient(name, history, client.ShareURL)

	if clientJSON {
		return printJSON(report)
	}
	fmt.Print(output.RenderClientReport(report))
	return nil
}
