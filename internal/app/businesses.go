package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/rankwatch/internal/output"
	"github.com/blackwell-systems/rankwatch/internal/rankapi"
)

var (
	businessesJSON bool

	businessesCmd = &cobra.Command{
		Use:   "businesses",
		Short: "List businesses registered with the scan service",
		Long: `List every business the scan service knows about, with the UUIDs other
tools and API calls refer to them by. Reports group by the exact name
shown here.`,
		Example: `  # All registered businesses
  rankwatch businesses

  # Machine-readable output
  rankwatch businesses --json`,
		Args: cobra.NoArgs,
		RunE: runBusinesses,
	}
)

func init() {
	businessesCmd.Flags().BoolVar(&businessesJSON, "json", false, "output JSON instead of a table")

	RootCmd.AddCommand(businessesCmd)
}

func runBusinesses(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	spinner := newSpinner("Fetching businesses...")
	spinner.Start()
	businesses, err := client.ListBusinesses(cmd.Context())
	spinner.Stop()
	if err != nil {
		return err
	}

	if businessesJSON {
		if businesses == nil {
			businesses = []rankapi.Business{}
		}
		return printJSON(businesses)
	}
	fmt.Print(output.RenderBusinessTable(businesses))
	return nil
}
