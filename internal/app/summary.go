package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/rankwatch/internal/analyzer"
	"github.com/blackwell-systems/rankwatch/internal/output"
)

var (
	summaryJSON bool

	summaryCmd = &cobra.Command{
		Use:   "summary",
		Short: "Portfolio overview across every business",
		Long: `Show the portfolio summary: one row per business with its latest average
rank, the change since the previous scan, keyword count, last scan time,
and a trend status.

Businesses that need attention sort first: declining, then improving,
then stable, then new (fewer than two scans). The portfolio average is
the mean of latest average ranks across businesses that have one.`,
		Example: `  # Render the portfolio table
  rankwatch summary

  # Machine-readable output for scripts
  rankwatch summary --json`,
		Args: cobra.NoArgs,
		RunE: runSummary,
	}
)

func init() {
	summaryCmd.Flags().BoolVar(&summaryJSON, "json", false, "output JSON instead of a table")

	RootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	scans, err := fetchScans(cmd.Context(), client)
	if err != nil {
		return err
	}

	grouped := analyzer.GroupScans(scans)
	report := analyzer.ComposePortfolio(grouped, client.ShareURL)

	if summaryJSON {
		return printJSON(report)
	}
	fmt.Print(output.RenderPortfolioTable(report))
	return nil
}
