package analyzer

import "time"

// Status classifies a business's trajectory between its two most recent scans.
type Status string

const (
	StatusImproving Status = "improving"
	StatusDeclining Status = "declining"
	StatusStable    Status = "stable"
	StatusNew       Status = "new"
)

// Trend holds the movement derived from a business's two most recent scans.
// AvgRankDelta is previous minus latest, so positive means the business moved
// toward position 1. It is nil when fewer than two scans exist or either
// scan has no average rank.
type Trend struct {
	Status       Status
	AvgRankDelta *float64
	Wins         []KeywordWin
	Drops        []KeywordDrop
}

// KeywordWin is a keyword whose average rank improved between the previous
// and latest scan.
type KeywordWin struct {
	Keyword    string  `json:"keyword"`
	From       float64 `json:"from"`
	To         float64 `json:"to"`
	ImprovedBy float64 `json:"improved_by"`
}

// KeywordDrop is a keyword whose average rank worsened between the previous
// and latest scan. DroppedBy is reported as a positive magnitude.
type KeywordDrop struct {
	Keyword   string  `json:"keyword"`
	From      float64 `json:"from"`
	To        float64 `json:"to"`
	DroppedBy float64 `json:"dropped_by"`
}

// RiskAssessment is the additive risk result for one business.
type RiskAssessment struct {
	Business string   `json:"business"`
	Score    int      `json:"risk_score"`
	Factors  []string `json:"risk_factors"`
	AvgRank  *float64 `json:"avg_rank"`
}

// UrgentItem flags a business whose average rank dropped sharply.
type UrgentItem struct {
	Business     string  `json:"business"`
	PreviousRank float64 `json:"previous_rank"`
	CurrentRank  float64 `json:"current_rank"`
	DroppedBy    float64 `json:"dropped_by"`
}

// ImportantItem flags a business ranking too deep to ignore.
type ImportantItem struct {
	Business    string  `json:"business"`
	CurrentRank float64 `json:"current_rank"`
}

// QuickWinItem is the first near-page-one keyword found for a business.
type QuickWinItem struct {
	Business    string  `json:"business"`
	Keyword     string  `json:"keyword"`
	CurrentRank float64 `json:"current_rank"`
}

// DailyPriorities is the prioritized-today queue: three disjoint buckets,
// each capped at MaxDailyItems.
type DailyPriorities struct {
	Urgent    []UrgentItem    `json:"urgent"`
	Important []ImportantItem `json:"important"`
	QuickWins []QuickWinItem  `json:"quick_wins"`
}

// QuickWin is one keyword opportunity from the portfolio-wide finder.
type QuickWin struct {
	Business    string  `json:"business"`
	Keyword     string  `json:"keyword"`
	CurrentRank float64 `json:"current_rank"`
	Opportunity string  `json:"opportunity"` // "High" or "Medium"
}

// ClientSummary is one row of the portfolio summary.
type ClientSummary struct {
	Business     string    `json:"business"`
	Status       Status    `json:"status"`
	AvgRank      *float64  `json:"avg_rank"`
	AvgRankDelta *float64  `json:"avg_rank_delta"`
	LastScanAt   time.Time `json:"last_scan_at"`
	Keywords     int       `json:"keywords"`
	ViewURL      string    `json:"view_url,omitempty"`
}

// PortfolioSummary is the roll-up across every business with scan history.
// AvgRank is nil when no business has a latest average rank.
type PortfolioSummary struct {
	GeneratedAt     time.Time       `json:"generated_at"`
	TotalBusinesses int             `json:"total_businesses"`
	AvgRank         *float64        `json:"portfolio_avg_rank"`
	Clients         []ClientSummary `json:"clients"`
}

// ScanSnapshot carries the figures of a single scan into a client report.
type ScanSnapshot struct {
	UUID      string    `json:"uuid"`
	AvgRank   *float64  `json:"avg_rank"`
	CreatedAt time.Time `json:"created_at"`
	Keywords  int       `json:"keywords"`
}

// ClientReport is the full single-business report. Numeric fields stay
// explicit null in JSON when no value is available.
type ClientReport struct {
	Business     string        `json:"business"`
	Status       Status        `json:"status"`
	ScanCount    int           `json:"scan_count"`
	Latest       ScanSnapshot  `json:"latest"`
	Previous     *ScanSnapshot `json:"previous,omitempty"`
	AvgRankDelta *float64      `json:"avg_rank_delta"`
	Wins         []KeywordWin  `json:"wins"`
	Drops        []KeywordDrop `json:"drops"`
	ViewURL      string        `json:"view_url,omitempty"`
}
