package rankapi

import "time"

// Business represents a client business registered with the scan service.
type Business struct {
	UUID string `json:"uuid"`
	Name string `json:"name"`
}

// Scan represents one ranking scan for a business. Listing endpoints return
// scans without KeywordResults; GetScan fills them in.
type Scan struct {
	UUID           string          `json:"uuid"`
	Business       Business        `json:"business"`
	AvgRank        *float64        `json:"avg_rank"`
	CreatedAt      time.Time       `json:"created_at"`
	Keywords       []string        `json:"keywords,omitempty"`
	ShareToken     string          `json:"share_token,omitempty"`
	KeywordResults []KeywordResult `json:"keyword_results,omitempty"`
}

// KeywordResult holds per-keyword figures from one scan. AvgRank and BestRank
// are nil when the keyword was not found anywhere on the grid.
type KeywordResult struct {
	Keyword    string   `json:"keyword"`
	AvgRank    *float64 `json:"avg_rank"`
	BestRank   *float64 `json:"best_rank"`
	FoundCount int      `json:"found_count"`
}

// Audit represents a website audit job. Score and Issues are populated once
// Status is "complete".
type Audit struct {
	ID        string       `json:"id"`
	URL       string       `json:"url"`
	Status    string       `json:"status"` // "pending", "running", "complete", "failed"
	Score     *int         `json:"score,omitempty"`
	Issues    []AuditIssue `json:"issues,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}

// AuditIssue is a single finding from a completed audit.
type AuditIssue struct {
	Title    string `json:"title"`
	Severity string `json:"severity"` // "critical", "warning", "info"
	Impact   string `json:"impact"`
}

// PageMeta carries pagination state from listing endpoints.
type PageMeta struct {
	Total   int  `json:"total"`
	Page    int  `json:"page"`
	PerPage int  `json:"per_page"`
	HasMore bool `json:"has_more"`
}

// ScanPage is one page of scan listings.
type ScanPage struct {
	Scans []Scan
	Meta  PageMeta
}
