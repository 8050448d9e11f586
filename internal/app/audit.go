package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/rankwatch/internal/output"
	"github.com/blackwell-systems/rankwatch/internal/rankapi"
	"github.com/blackwell-systems/rankwatch/internal/store"
)

var (
	auditSubmitBusiness string
	auditSubmitJSON     bool
	auditStatusJSON     bool
	auditListJSON       bool

	auditCmd = &cobra.Command{
		Use:   "audit",
		Short: "Submit and track website audits",
		Long: `Run website audits through the scan service. Submissions are recorded
in the local ledger, so 'audit list' and 'audit status' work across
invocations without keeping ids around by hand.`,
	}

	auditSubmitCmd = &cobra.Command{
		Use:   "submit <url>",
		Short: "Submit a website for auditing",
		Example: `  # Kick off an audit
  rankwatch audit submit https://acmeplumbing.example

  # Tag it with the client it belongs to
  rankwatch audit submit https://acmeplumbing.example --business "Acme Plumbing"`,
		Args: cobra.ExactArgs(1),
		RunE: runAuditSubmit,
	}

	auditStatusCmd = &cobra.Command{
		Use:   "status <id>",
		Short: "Check an audit's progress and results",
		Example: `  # Poll a submitted audit
  rankwatch audit status aud_4f3c2b1a`,
		Args: cobra.ExactArgs(1),
		RunE: runAuditStatus,
	}

	auditListCmd = &cobra.Command{
		Use:   "list",
		Short: "List audits submitted from this machine",
		Example: `  # The local audit ledger
  rankwatch audit list`,
		Args: cobra.NoArgs,
		RunE: runAuditList,
	}
)

func init() {
	auditSubmitCmd.Flags().StringVar(&auditSubmitBusiness, "business", "", "business name to tag the audit with")
	auditSubmitCmd.Flags().BoolVar(&auditSubmitJSON, "json", false, "output JSON instead of a confirmation")
	auditStatusCmd.Flags().BoolVar(&auditStatusJSON, "json", false, "output JSON instead of a report")
	auditListCmd.Flags().BoolVar(&auditListJSON, "json", false, "output JSON instead of a table")

	auditCmd.AddCommand(auditSubmitCmd)
	auditCmd.AddCommand(auditStatusCmd)
	auditCmd.AddCommand(auditListCmd)
	RootCmd.AddCommand(auditCmd)
}

func runAuditSubmit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	spinner := newSpinner("Submitting audit...")
	spinner.Start()
	audit, err := client.SubmitAudit(cmd.Context(), args[0])
	spinner.Stop()
	if err != nil {
		return fmt.Errorf("failed to submit audit: %w", err)
	}

	recordAuditSubmission(audit)

	if auditSubmitJSON {
		return printJSON(audit)
	}

	fmt.Println("✓ Audit submitted")
	fmt.Println()
	fmt.Printf("  ID:     %s\n", audit.ID)
	fmt.Printf("  URL:    %s\n", audit.URL)
	fmt.Printf("  Status: %s\n", audit.Status)
	fmt.Printf("\nCheck progress: rankwatch audit status %s\n", audit.ID)
	return nil
}

func runAuditStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	spinner := newSpinner("Checking audit...")
	spinner.Start()
	audit, err := client.GetAudit(cmd.Context(), args[0])
	spinner.Stop()
	if err != nil {
		return fmt.Errorf("failed to check audit %s: %w", args[0], err)
	}

	recordAuditCheck(audit)

	if auditStatusJSON {
		return printJSON(audit)
	}
	fmt.Print(output.RenderAuditDetail(audit))
	return nil
}

func runAuditList(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	audits, err := st.ListAudits()
	if err != nil {
		return fmt.Errorf("failed to list audits: %w", err)
	}

	if auditListJSON {
		rows := make([]auditRow, 0, len(audits))
		for _, a := range audits {
			rows = append(rows, auditRow{
				ID:          a.ID,
				URL:         a.URL,
				Business:    a.Business,
				Status:      a.Status,
				Score:       a.Score,
				SubmittedAt: a.SubmittedAt,
				CheckedAt:   a.CheckedAt,
			})
		}
		return printJSON(rows)
	}

	fmt.Print(output.RenderAuditTable(audits))
	if len(audits) == 0 {
		fmt.Println("Submit one: rankwatch audit submit <url>")
	}
	return nil
}

// auditRow is the JSON shape of one ledger entry.
type auditRow struct {
	ID          string     `json:"id"`
	URL         string     `json:"url"`
	Business    string     `json:"business,omitempty"`
	Status      string     `json:"status"`
	Score       *int       `json:"score"`
	SubmittedAt time.Time  `json:"submitted_at"`
	CheckedAt   *time.Time `json:"checked_at"`
}

// recordAuditSubmission writes a fresh submission to the ledger. Ledger
// failures warn rather than fail: the audit is already running server-side.
func recordAuditSubmission(audit *rankapi.Audit) {
	st, err := openStore()
	if err != nil {
		printWarnings([]string{fmt.Sprintf("audit %s not recorded locally: %v", audit.ID, err)})
		return
	}
	defer st.Close()

	submittedAt := audit.CreatedAt
	if submittedAt.IsZero() {
		submittedAt = time.Now().UTC()
	}
	err = st.InsertAudit(&store.Audit{
		ID:          audit.ID,
		URL:         audit.URL,
		Business:    auditSubmitBusiness,
		Status:      audit.Status,
		Score:       audit.Score,
		SubmittedAt: submittedAt,
	})
	if err != nil {
		printWarnings([]string{fmt.Sprintf("audit %s not recorded locally: %v", audit.ID, err)})
	}
}

// recordAuditCheck folds a status check into the ledger, inserting audits
// submitted elsewhere so 'audit list' still knows about them.
func recordAuditCheck(audit *rankapi.Audit) {
	st, err := openStore()
	if err != nil {
		printWarnings([]string{fmt.Sprintf("audit %s not recorded locally: %v", audit.ID, err)})
		return
	}
	defer st.Close()

	now := time.Now().UTC()
	err = st.UpdateAuditResult(audit.ID, audit.Status, audit.Score, now)
	if errors.Is(err, store.ErrNotFound) {
		submittedAt := audit.CreatedAt
		if submittedAt.IsZero() {
			submittedAt = now
		}
		err = st.InsertAudit(&store.Audit{
			ID:          audit.ID,
			URL:         audit.URL,
			Status:      audit.Status,
			Score:       audit.Score,
			SubmittedAt: submittedAt,
			CheckedAt:   &now,
		})
	}
	if err != nil {
		printWarnings([]string{fmt.Sprintf("audit %s not recorded locally: %v", audit.ID, err)})
	}
}
