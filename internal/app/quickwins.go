package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/rankwatch/internal/analyzer"
	"github.com/blackwell-systems/rankwatch/internal/output"
)

var (
	quickwinsJSON bool

	quickwinsCmd = &cobra.Command{
		Use:   "quickwins",
		Short: "Keywords one push away from page one",
		Long: `Scan every business's newest keyword results for ranks between 11 and
20 and list them closest-to-page-one first, capped at 20 entries.

Keywords at rank 15 or better are High opportunity; the rest are Medium.
These are the cheapest wins on the board: a small content or review push
often moves them onto page one.`,
		Example: `  # The quick-win board
  rankwatch quickwins

  # Machine-readable output
  rankwatch quickwins --json`,
		Args: cobra.NoArgs,
		RunE: runQuickwins,
	}
)

func init() {
	quickwinsCmd.Flags().BoolVar(&quickwinsJSON, "json", false, "output JSON instead of a table")

	RootCmd.AddCommand(quickwinsCmd)
}

func runQuickwins(cmd *cobra.Command, args []string) error {
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
	fetchLatestDetails(ctx, cfg, client, grouped)

	wins := analyzer.FindQuickWins(grouped)

	if quickwinsJSON {
		if wins == nil {
			wins = []analyzer.QuickWin{}
		}
		return printJSON(wins)
	}
	fmt.Print(output.RenderQuickWinTable(wins))
	return nil
}
