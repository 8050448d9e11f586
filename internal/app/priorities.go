package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/rankwatch/internal/analyzer"
	"github.com/blackwell-systems/rankwatch/internal/output"
)

var (
	prioritiesJSON bool

	prioritiesCmd = &cobra.Command{
		Use:   "priorities",
		Short: "What to work on today",
		Long: `Classify every business into at most one action bucket and print the
day's queue:

  urgent      average rank dropped by more than 3 positions
  important   average rank sits beyond position 12
  quick wins  a keyword ranks between 11 and 15, one push from page one

A business lands in the first bucket it qualifies for, urgent beating
important beating quick wins. Each bucket shows at most 5 entries.`,
		Example: `  # Today's action list
  rankwatch priorities

  # Feed the list to a script
  rankwatch priorities --json`,
		Args: cobra.NoArgs,
		RunE: runPriorities,
	}
)

func init() {
	prioritiesCmd.Flags().BoolVar(&prioritiesJSON, "json", false, "output JSON instead of a report")

	RootCmd.AddCommand(prioritiesCmd)
}

func runPriorities(cmd *cobra.Command, args []string) error {
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
	// The quick-win bucket reads keyword results, which listings omit.
	fetchLatestDetails(ctx, cfg, client, grouped)

	report := analyzer.Prioritize(grouped)

	if prioritiesJSON {
		return printJSON(report)
	}
	fmt.Print(output.RenderPrioritiesReport(report))
	return nil
}
