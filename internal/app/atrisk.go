package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/rankwatch/internal/analyzer"
	"github.com/blackwell-systems/rankwatch/internal/output"
)

var (
	atriskJSON bool

	atriskCmd = &cobra.Command{
		Use:   "atrisk",
		Short: "Businesses at risk of churning",
		Long: `Score each business on churn-risk factors and list everyone with a
non-zero score, highest risk first:

  +3  average rank dropped more than 2 positions since the previous scan
  +2  latest average rank beyond position 15
  +1  only one scan on record

The factors behind each score are listed so the retention call has its
talking points ready.`,
		Example: `  # Who needs a call this week
  rankwatch atrisk

  # Machine-readable output
  rankwatch atrisk --json`,
		Args: cobra.NoArgs,
		RunE: runAtRisk,
	}
)

func init() {
	atriskCmd.Flags().BoolVar(&atriskJSON, "json", false, "output JSON instead of a report")

	RootCmd.AddCommand(atriskCmd)
}

func runAtRisk(cmd *cobra.Command, args []string) error {
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
	assessments := analyzer.AtRisk(grouped)

	if atriskJSON {
		if assessments == nil {
			assessments = []analyzer.RiskAssessment{}
		}
		return printJSON(assessments)
	}
	fmt.Print(output.RenderAtRiskReport(assessments))
	return nil
}
