package analyzer

import (
	"sort"
	"time"

	"github.com/blackwell-systems/rankwatch/internal/rankapi"
)

// statusOrder ranks statuses for the portfolio summary: attention first.
var statusOrder = map[Status]int{
	StatusDeclining: 0,
	StatusImproving: 1,
	StatusStable:    2,
	StatusNew:       3,
}

// ShareURLFunc builds a public view URL from a scan share token. A nil func
// or an empty result omits the URL from composed reports.
type ShareURLFunc func(token string) string

// ComposePortfolio builds the portfolio summary. The portfolio average is
// the mean of latest average ranks across businesses that have one, rounded
// to a tenth; it stays nil when none do. Clients are ordered
// declining, improving, stable, new, preserving grouping order within a
// status.
func ComposePortfolio(g *Grouping, shareURL ShareURLFunc) PortfolioSummary {
	summary := PortfolioSummary{
		GeneratedAt:     time.Now().UTC(),
		TotalBusinesses: g.Len(),
		Clients:         []ClientSummary{},
	}

	var total float64
	var ranked int
	for _, name := range g.Names() {
		scans := g.Scans(name)
		latest := scans[0]
		trend := AnalyzeTrend(scans)

		client := ClientSummary{
			Business:   name,
			Status:     trend.Status,
			AvgRank:    latest.AvgRank,
			LastScanAt: latest.CreatedAt,
			Keywords:   keywordCount(latest),
		}
		if trend.AvgRankDelta != nil {
			d := RoundTenth(*trend.AvgRankDelta)
			client.AvgRankDelta = &d
		}
		if shareURL != nil && latest.ShareToken != "" {
			client.ViewURL = shareURL(latest.ShareToken)
		}
		if latest.AvgRank != nil {
			total += *latest.AvgRank
			ranked++
		}
		summary.Clients = append(summary.Clients, client)
	}

	if ranked > 0 {
		avg := RoundTenth(total / float64(ranked))
		summary.AvgRank = &avg
	}

	sort.SliceStable(summary.Clients, func(i, j int) bool {
		return statusOrder[summary.Clients[i].Status] < statusOrder[summary.Clients[j].Status]
	})
	return summary
}

// ComposeClient builds the single-business report from its scans, newest
// first. Returns nil when the business has no scans.
func ComposeClient(name string, scans []rankapi.Scan, shareURL ShareURLFunc) *ClientReport {
	if len(scans) == 0 {
		return nil
	}

	trend := AnalyzeTrend(scans)
	latest := scans[0]

	report := &ClientReport{
		Business:  name,
		Status:    trend.Status,
		ScanCount: len(scans),
		Latest:    snapshot(latest),
		Wins:      trend.Wins,
		Drops:     trend.Drops,
	}
	if len(scans) >= 2 {
		prev := snapshot(scans[1])
		report.Previous = &prev
	}
	if trend.AvgRankDelta != nil {
		d := RoundTenth(*trend.AvgRankDelta)
		report.AvgRankDelta = &d
	}
	if shareURL != nil && latest.ShareToken != "" {
		report.ViewURL = shareURL(latest.ShareToken)
	}
	return report
}

func snapshot(s rankapi.Scan) ScanSnapshot {
	return ScanSnapshot{
		UUID:      s.UUID,
		AvgRank:   s.AvgRank,
		CreatedAt: s.CreatedAt,
		Keywords:  keywordCount(s),
	}
}

// keywordCount prefers the summary keyword list and falls back to detail
// results, which listing responses omit.
func keywordCount(s rankapi.Scan) int {
	if len(s.Keywords) > 0 {
		return len(s.Keywords)
	}
	return len(s.KeywordResults)
}
