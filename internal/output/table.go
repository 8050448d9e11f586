// Package output provides terminal output utilities for rankwatch.
//
// This package includes:
//   - Table and report rendering for portfolio summaries, client reports,
//     daily priorities, quick wins, at-risk businesses, scans, and audits
//   - Progress bars for multi-scan detail fetches
//   - Spinners for indeterminate API calls
//   - Human-readable formatting for ranks, deltas, and timestamps
//
// All rendering functions use ASCII characters and ANSI color codes for
// terminal output. Progress indicators are thread-safe and can be used from
// multiple goroutines.
package output

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/blackwell-systems/rankwatch/internal/analyzer"
	"github.com/blackwell-systems/rankwatch/internal/rankapi"
	"github.com/blackwell-systems/rankwatch/internal/store"
)

// ANSI color codes for status and severity display
const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
	colorGray   = "\033[90m"
)

// IsColorEnabled returns true if ANSI color codes should be emitted.
// It checks that os.Stdout is a TTY and that the NO_COLOR env var is not set.
func IsColorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd())
}

// colorize wraps text in the given ANSI color code if color is enabled,
// otherwise returns the plain text.
func colorize(color, text string) string {
	if IsColorEnabled() {
		return color + text + colorReset
	}
	return text
}

// RenderPortfolioTable renders the portfolio summary report.
// Note: Does not sort - clients arrive pre-sorted (declining first).
func RenderPortfolioTable(p analyzer.PortfolioSummary) string {
	if p.TotalBusinesses == 0 {
		return "No businesses with scan history.\n"
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Portfolio: %d businesses", p.TotalBusinesses))
	if p.AvgRank != nil {
		sb.WriteString(fmt.Sprintf(" · average rank %.1f", *p.AvgRank))
	}
	sb.WriteString("\n\n")

	// Header
	sb.WriteString(fmt.Sprintf("%-24s %-9s %-8s %-9s %-14s %s\n",
		"Business", "Avg Rank", "Change", "Keywords", "Last Scan", "Status"))
	sb.WriteString(strings.Repeat("─", 80))
	sb.WriteString("\n")

	// Rows
	for _, c := range p.Clients {
		sb.WriteString(fmt.Sprintf("%-24s %-9s %-8s %-9d %-14s %s\n",
			truncate(c.Business, 24),
			formatRank(c.AvgRank),
			formatDelta(c.AvgRankDelta),
			c.Keywords,
			formatRelativeTime(c.LastScanAt),
			colorize(statusColor(c.Status), formatStatusLabel(c.Status))))
	}

	return sb.String()
}

// RenderClientReport renders the full single-business report as a block.
func RenderClientReport(r *analyzer.ClientReport) string {
	if r == nil {
		return "No scans found for this business.\n"
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Business: %s\n", r.Business))
	sb.WriteString(fmt.Sprintf("Status:   %s\n", colorize(statusColor(r.Status), formatStatusLabel(r.Status))))
	sb.WriteString(fmt.Sprintf("Scans:    %d on record\n", r.ScanCount))
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("Latest scan:   %s\n", formatSnapshot(r.Latest)))
	if r.Previous != nil {
		sb.WriteString(fmt.Sprintf("Previous scan: %s\n", formatSnapshot(*r.Previous)))
	}
	sb.WriteString(fmt.Sprintf("Change:        %s\n", formatDelta(r.AvgRankDelta)))

	if len(r.Wins) > 0 {
		sb.WriteString("\nKeyword wins:\n")
		for _, w := range r.Wins {
			sb.WriteString(fmt.Sprintf("  %-28s %4.1f → %-5.1f %s\n",
				truncate(w.Keyword, 28), w.From, w.To,
				colorize(colorGreen, fmt.Sprintf("↑ %.1f", w.ImprovedBy))))
		}
	}

	if len(r.Drops) > 0 {
		sb.WriteString("\nKeyword drops:\n")
		for _, d := range r.Drops {
			sb.WriteString(fmt.Sprintf("  %-28s %4.1f → %-5.1f %s\n",
				truncate(d.Keyword, 28), d.From, d.To,
				colorize(colorRed, fmt.Sprintf("↓ %.1f", d.DroppedBy))))
		}
	}

	if r.ViewURL != "" {
		sb.WriteString(fmt.Sprintf("\nView: %s\n", r.ViewURL))
	}

	return sb.String()
}

// formatSnapshot renders one scan's figures on a single line.
func formatSnapshot(s analyzer.ScanSnapshot) string {
	rank := "no average rank"
	if s.AvgRank != nil {
		rank = fmt.Sprintf("avg rank %.1f", *s.AvgRank)
	}
	return fmt.Sprintf("%s · %d keywords · %s", rank, s.Keywords, formatRelativeTime(s.CreatedAt))
}

// RenderPrioritiesReport renders the daily priority queue in three sections.
func RenderPrioritiesReport(p analyzer.DailyPriorities) string {
	var sb strings.Builder

	sb.WriteString(colorize(colorRed, "URGENT") + ": ranking dropped sharply\n")
	if len(p.Urgent) == 0 {
		sb.WriteString("  none\n")
	}
	for _, u := range p.Urgent {
		sb.WriteString(fmt.Sprintf("  %-24s %4.1f → %-5.1f dropped %.1f\n",
			truncate(u.Business, 24), u.PreviousRank, u.CurrentRank, u.DroppedBy))
	}

	sb.WriteString("\n")
	sb.WriteString(colorize(colorYellow, "IMPORTANT") + ": ranking beyond position 12\n")
	if len(p.Important) == 0 {
		sb.WriteString("  none\n")
	}
	for _, i := range p.Important {
		sb.WriteString(fmt.Sprintf("  %-24s avg rank %.1f\n",
			truncate(i.Business, 24), i.CurrentRank))
	}

	sb.WriteString("\n")
	sb.WriteString(colorize(colorGreen, "QUICK WINS") + ": keywords one push from page one\n")
	if len(p.QuickWins) == 0 {
		sb.WriteString("  none\n")
	}
	for _, q := range p.QuickWins {
		sb.WriteString(fmt.Sprintf("  %-24s %-28s %.1f\n",
			truncate(q.Business, 24), truncate(q.Keyword, 28), q.CurrentRank))
	}

	return sb.String()
}

// RenderQuickWinTable renders the portfolio-wide quick win list.
// Note: Does not sort - wins arrive pre-sorted by rank ascending.
func RenderQuickWinTable(wins []analyzer.QuickWin) string {
	if len(wins) == 0 {
		return "No quick win opportunities found.\n"
	}

	var sb strings.Builder

	// Header
	sb.WriteString(fmt.Sprintf("%-24s %-30s %-9s %s\n",
		"Business", "Keyword", "Avg Rank", "Opportunity"))
	sb.WriteString(strings.Repeat("─", 76))
	sb.WriteString("\n")

	// Rows
	for _, w := range wins {
		sb.WriteString(fmt.Sprintf("%-24s %-30s %-9.1f %s\n",
			truncate(w.Business, 24),
			truncate(w.Keyword, 30),
			w.CurrentRank,
			colorize(opportunityColor(w.Opportunity), w.Opportunity)))
	}

	return sb.String()
}

// RenderAtRiskReport renders at-risk businesses with their contributing
// factors, highest score first.
func RenderAtRiskReport(assessments []analyzer.RiskAssessment) string {
	if len(assessments) == 0 {
		return "No businesses at risk.\n"
	}

	var sb strings.Builder

	for i, a := range assessments {
		if i > 0 {
			sb.WriteString("\n")
		}

		score := colorize(riskColor(a.Score), fmt.Sprintf("risk %d", a.Score))
		sb.WriteString(fmt.Sprintf("%-24s %s · avg rank %s\n",
			truncate(a.Business, 24), score, formatRank(a.AvgRank)))

		for _, f := range a.Factors {
			sb.WriteString(fmt.Sprintf("  • %s\n", f))
		}
	}

	return sb.String()
}

// RenderScanTable renders a page of scan listings.
func RenderScanTable(scans []rankapi.Scan) string {
	if len(scans) == 0 {
		return "No scans found.\n"
	}

	var sb strings.Builder

	// Header
	sb.WriteString(fmt.Sprintf("%-10s %-24s %-9s %-9s %s\n",
		"Scan", "Business", "Avg Rank", "Keywords", "Created"))
	sb.WriteString(strings.Repeat("─", 68))
	sb.WriteString("\n")

	// Rows
	for _, s := range scans {
		sb.WriteString(fmt.Sprintf("%-10s %-24s %-9s %-9d %s\n",
			shortUUID(s.UUID),
			truncate(s.Business.Name, 24),
			formatRank(s.AvgRank),
			scanKeywordCount(s),
			formatRelativeTime(s.CreatedAt)))
	}

	return sb.String()
}

// RenderScanDetail renders one scan with its per-keyword results.
// viewURL may be empty when the scan carries no share token.
func RenderScanDetail(s *rankapi.Scan, viewURL string) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Scan:     %s\n", s.UUID))
	sb.WriteString(fmt.Sprintf("Business: %s\n", s.Business.Name))
	sb.WriteString(fmt.Sprintf("Created:  %s\n", formatRelativeTime(s.CreatedAt)))
	sb.WriteString(fmt.Sprintf("Avg Rank: %s\n", formatRank(s.AvgRank)))
	if viewURL != "" {
		sb.WriteString(fmt.Sprintf("View:     %s\n", viewURL))
	}

	if len(s.KeywordResults) == 0 {
		return sb.String()
	}

	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("%-30s %-9s %-6s %s\n",
		"Keyword", "Avg Rank", "Best", "Found"))
	sb.WriteString(strings.Repeat("─", 54))
	sb.WriteString("\n")

	for _, kr := range s.KeywordResults {
		sb.WriteString(fmt.Sprintf("%-30s %-9s %-6s %d\n",
			truncate(kr.Keyword, 30),
			formatRank(kr.AvgRank),
			formatRank(kr.BestRank),
			kr.FoundCount))
	}

	return sb.String()
}

// RenderBusinessTable renders the registered businesses, sorted by name.
func RenderBusinessTable(businesses []rankapi.Business) string {
	if len(businesses) == 0 {
		return "No businesses found.\n"
	}

	// Sort businesses by name for consistent output
	sorted := make([]rankapi.Business, len(businesses))
	copy(sorted, businesses)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})

	var sb strings.Builder

	// Header
	sb.WriteString(fmt.Sprintf("%-32s %s\n", "Business", "UUID"))
	sb.WriteString(strings.Repeat("─", 69))
	sb.WriteString("\n")

	// Rows
	for _, b := range sorted {
		sb.WriteString(fmt.Sprintf("%-32s %s\n", truncate(b.Name, 32), b.UUID))
	}

	return sb.String()
}

// RenderAuditTable renders the local audit ledger, newest first.
func RenderAuditTable(audits []*store.Audit) string {
	if len(audits) == 0 {
		return "No audits on record.\n"
	}

	var sb strings.Builder

	// Header
	sb.WriteString(fmt.Sprintf("%-13s %-32s %-7s %-14s %-14s %s\n",
		"ID", "URL", "Score", "Submitted", "Checked", "Status"))
	sb.WriteString(strings.Repeat("─", 94))
	sb.WriteString("\n")

	// Rows
	for _, a := range audits {
		checked := "—"
		if a.CheckedAt != nil {
			checked = formatRelativeTime(*a.CheckedAt)
		}

		sb.WriteString(fmt.Sprintf("%-13s %-32s %-7s %-14s %-14s %s\n",
			truncate(a.ID, 13),
			truncate(a.URL, 32),
			formatScore(a.Score),
			formatRelativeTime(a.SubmittedAt),
			checked,
			colorize(auditStatusColor(a.Status), formatAuditStatus(a.Status))))
	}

	return sb.String()
}

// RenderAuditDetail renders one audit with its findings.
func RenderAuditDetail(a *rankapi.Audit) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Audit:     %s\n", a.ID))
	sb.WriteString(fmt.Sprintf("URL:       %s\n", a.URL))
	sb.WriteString(fmt.Sprintf("Status:    %s\n", colorize(auditStatusColor(a.Status), formatAuditStatus(a.Status))))
	sb.WriteString(fmt.Sprintf("Score:     %s\n", formatScore(a.Score)))
	sb.WriteString(fmt.Sprintf("Submitted: %s\n", formatRelativeTime(a.CreatedAt)))

	if len(a.Issues) > 0 {
		sb.WriteString("\nIssues:\n")
		for _, issue := range a.Issues {
			severity := colorize(severityColor(issue.Severity), fmt.Sprintf("[%s]", issue.Severity))
			sb.WriteString(fmt.Sprintf("  %-10s %-34s %s\n",
				severity, truncate(issue.Title, 34), issue.Impact))
		}
	}

	return sb.String()
}

// RenderScanMarkTable renders the businesses the watch daemon is tracking.
func RenderScanMarkTable(marks []*store.ScanMark) string {
	if len(marks) == 0 {
		return "No businesses tracked yet.\n"
	}

	var sb strings.Builder

	// Header
	sb.WriteString(fmt.Sprintf("%-24s %-9s %-10s %s\n",
		"Business", "Avg Rank", "Scan", "Last Seen"))
	sb.WriteString(strings.Repeat("─", 60))
	sb.WriteString("\n")

	// Rows
	for _, m := range marks {
		sb.WriteString(fmt.Sprintf("%-24s %-9s %-10s %s\n",
			truncate(m.Business, 24),
			formatRank(m.AvgRank),
			shortUUID(m.ScanUUID),
			formatRelativeTime(m.SeenAt)))
	}

	return sb.String()
}

// RenderWarnings renders fetch warnings one per line with a leading marker.
// Returns an empty string when there are no warnings.
func RenderWarnings(warnings []string) string {
	if len(warnings) == 0 {
		return ""
	}

	var sb strings.Builder
	for _, w := range warnings {
		sb.WriteString(colorize(colorYellow, "⚠ "+w))
		sb.WriteString("\n")
	}
	return sb.String()
}

// formatRank formats a nullable average rank for display.
func formatRank(r *float64) string {
	if r == nil {
		return "—"
	}
	return fmt.Sprintf("%.1f", *r)
}

// formatDelta formats a nullable rank change with an explicit sign.
func formatDelta(d *float64) string {
	if d == nil {
		return "—"
	}
	return fmt.Sprintf("%+.1f", *d)
}

// formatScore formats a nullable audit score.
func formatScore(s *int) string {
	if s == nil {
		return "—"
	}
	return fmt.Sprintf("%d/100", *s)
}

// formatStatusLabel returns the display label for a trend status.
func formatStatusLabel(s analyzer.Status) string {
	switch s {
	case analyzer.StatusImproving:
		return "↑ improving"
	case analyzer.StatusDeclining:
		return "↓ declining"
	case analyzer.StatusStable:
		return "→ stable"
	case analyzer.StatusNew:
		return "· new"
	default:
		return string(s)
	}
}

// statusColor returns the ANSI color code for a trend status.
func statusColor(s analyzer.Status) string {
	switch s {
	case analyzer.StatusImproving:
		return colorGreen
	case analyzer.StatusDeclining:
		return colorRed
	case analyzer.StatusNew:
		return colorYellow
	default:
		return colorGray
	}
}

// formatAuditStatus returns the display label for an audit status.
func formatAuditStatus(status string) string {
	switch strings.ToLower(status) {
	case "complete":
		return "✓ complete"
	case "failed":
		return "✗ failed"
	default: // pending, queued, running
		return status
	}
}

// auditStatusColor returns the ANSI color code for an audit status.
func auditStatusColor(status string) string {
	switch strings.ToLower(status) {
	case "complete":
		return colorGreen
	case "failed":
		return colorRed
	default:
		return colorYellow
	}
}

// severityColor returns the ANSI color code for an audit issue severity.
func severityColor(severity string) string {
	switch strings.ToLower(severity) {
	case "critical":
		return colorRed
	case "warning":
		return colorYellow
	default:
		return colorGray
	}
}

// opportunityColor returns the ANSI color code for a quick win opportunity.
func opportunityColor(opportunity string) string {
	if strings.EqualFold(opportunity, "High") {
		return colorGreen
	}
	return colorYellow
}

// riskColor returns the ANSI color code for a risk score.
func riskColor(score int) string {
	switch {
	case score >= 5:
		return colorRed
	case score >= 3:
		return colorYellow
	default:
		return colorGray
	}
}

// scanKeywordCount returns the keyword count for a scan row, falling back
// to detailed results when the listing carried no keyword list.
func scanKeywordCount(s rankapi.Scan) int {
	if len(s.Keywords) > 0 {
		return len(s.Keywords)
	}
	return len(s.KeywordResults)
}

// formatRelativeTime converts a timestamp to relative time (e.g., "2 days ago").
func formatRelativeTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}

	now := time.Now()
	diff := now.Sub(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		mins := int(diff.Minutes())
		if mins == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", mins)
	case diff < 24*time.Hour:
		hours := int(diff.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	case diff < 7*24*time.Hour:
		days := int(diff.Hours() / 24)
		if days == 1 {
			return "1 day ago"
		}
		return fmt.Sprintf("%d days ago", days)
	case diff < 30*24*time.Hour:
		weeks := int(diff.Hours() / 24 / 7)
		if weeks == 1 {
			return "1 week ago"
		}
		return fmt.Sprintf("%d weeks ago", weeks)
	case diff < 365*24*time.Hour:
		months := int(diff.Hours() / 24 / 30)
		if months == 1 {
			return "1 month ago"
		}
		return fmt.Sprintf("%d months ago", months)
	default:
		years := int(diff.Hours() / 24 / 365)
		if years == 1 {
			return "1 year ago"
		}
		return fmt.Sprintf("%d years ago", years)
	}
}

// truncate truncates a string to maxLen, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// shortUUID returns the first block of a UUID for compact table display.
func shortUUID(uuid string) string {
	if i := strings.IndexByte(uuid, '-'); i > 0 {
		return uuid[:i]
	}
	return truncate(uuid, 8)
}
