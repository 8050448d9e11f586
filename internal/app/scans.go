package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/rankwatch/internal/output"
	"github.com/blackwell-systems/rankwatch/internal/rankapi"
)

var (
	scansPage  int
	scansLimit int
	scansJSON  bool

	scansCmd = &cobra.Command{
		Use:   "scans",
		Short: "List ranking scans, newest first",
		Long: `List scan summaries straight from the service, newest first. Summaries
carry the business, average rank, keyword count, and scan time; use
'rankwatch scan <uuid>' for per-keyword results.`,
		Example: `  # Most recent scans
  rankwatch scans

  # Walk older pages
  rankwatch scans --page 3 --limit 50

  # Machine-readable output
  rankwatch scans --json`,
		Args: cobra.NoArgs,
		RunE: runScans,
	}

	scanJSON bool

	scanCmd = &cobra.Command{
		Use:   "scan <uuid>",
		Short: "Show one scan with per-keyword results",
		Long: `Fetch a single scan in full: business, scan time, average rank, the
public view link when one exists, and a table of every keyword with its
average rank, best rank, and how many grid points found the business.`,
		Example: `  # Full detail for one scan
  rankwatch scan 1f0e9d8c-3b2a-4c5d-8e7f-6a5b4c3d2e1f

  # Machine-readable output
  rankwatch scan 1f0e9d8c-3b2a-4c5d-8e7f-6a5b4c3d2e1f --json`,
		Args: cobra.ExactArgs(1),
		RunE: runScan,
	}
)

func init() {
	scansCmd.Flags().IntVar(&scansPage, "page", 1, "page number")
	scansCmd.Flags().IntVar(&scansLimit, "limit", 20, "scans per page")
	scansCmd.Flags().BoolVar(&scansJSON, "json", false, "output JSON instead of a table")

	scanCmd.Flags().BoolVar(&scanJSON, "json", false, "output JSON instead of a report")

	RootCmd.AddCommand(scansCmd)
	RootCmd.AddCommand(scanCmd)
}

func runScans(cmd *cobra.Command, args []string) error {
	if scansPage < 1 {
		return fmt.Errorf("invalid page: %d (must be at least 1)", scansPage)
	}
	if scansLimit < 1 {
		return fmt.Errorf("invalid limit: %d (must be at least 1)", scansLimit)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	spinner := newSpinner("Fetching scans...")
	spinner.Start()
	page, err := client.ListScans(cmd.Context(), scansPage, scansLimit)
	spinner.Stop()
	if err != nil {
		return err
	}

	if scansJSON {
		return printJSON(struct {
			Data []rankapi.Scan   `json:"data"`
			Meta rankapi.PageMeta `json:"meta"`
		}{page.Scans, page.Meta})
	}

	fmt.Print(output.RenderScanTable(page.Scans))
	if page.Meta.Total > 0 {
		fmt.Printf("\nPage %d · %d scans total\n", page.Meta.Page, page.Meta.Total)
	}
	if page.Meta.HasMore {
		fmt.Printf("More: rankwatch scans --page %d\n", page.Meta.Page+1)
	}
	return nil
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	spinner := newSpinner("Fetching scan...")
	spinner.Start()
	scan, err := client.GetScan(cmd.Context(), args[0])
	spinner.Stop()
	if err != nil {
		return err
	}

	if scanJSON {
		return printJSON(scan)
	}
	fmt.Print(output.RenderScanDetail(scan, client.ShareURL(scan.ShareToken)))
	return nil
}
