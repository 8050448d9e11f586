package analyzer

import (
	"math"

	"github.com/blackwell-systems/rankwatch/internal/rankapi"
)

// Movement thresholds for status classification. Deltas are previous minus
// latest average rank, so positive movement is toward position 1. A delta
// inside the band is reported as stable.
const (
	// ImprovingDelta is the minimum improvement before a business is
	// classified as improving.
	ImprovingDelta = 0.5

	// DecliningDelta is the drop beyond which a business is classified as
	// declining.
	DecliningDelta = -0.5
)

// AnalyzeTrend derives the trend for one business from its scans, newest
// first. With fewer than two scans the status is "new" and no delta exists.
// A missing average rank on either scan leaves the delta nil; it never
// becomes zero.
func AnalyzeTrend(scans []rankapi.Scan) Trend {
	t := Trend{
		Status: StatusStable,
		Wins:   []KeywordWin{},
		Drops:  []KeywordDrop{},
	}
	if len(scans) < 2 {
		t.Status = StatusNew
		return t
	}

	latest, previous := scans[0], scans[1]
	t.AvgRankDelta = rankDelta(previous.AvgRank, latest.AvgRank)
	if t.AvgRankDelta != nil {
		switch {
		case *t.AvgRankDelta > ImprovingDelta:
			t.Status = StatusImproving
		case *t.AvgRankDelta < DecliningDelta:
			t.Status = StatusDeclining
		}
	}

	// Keyword movement only exists for keywords ranked in both scans.
	prevRanks := make(map[string]float64, len(previous.KeywordResults))
	for _, kr := range previous.KeywordResults {
		if kr.AvgRank != nil {
			prevRanks[kr.Keyword] = *kr.AvgRank
		}
	}
	for _, kr := range latest.KeywordResults {
		if kr.AvgRank == nil {
			continue
		}
		from, ok := prevRanks[kr.Keyword]
		if !ok {
			continue
		}
		to := *kr.AvgRank
		delta := from - to
		if delta > 0 {
			t.Wins = append(t.Wins, KeywordWin{
				Keyword:    kr.Keyword,
				From:       from,
				To:         to,
				ImprovedBy: RoundTenth(delta),
			})
		} else if delta < 0 {
			t.Drops = append(t.Drops, KeywordDrop{
				Keyword:   kr.Keyword,
				From:      from,
				To:        to,
				DroppedBy: RoundTenth(-delta),
			})
		}
	}
	return t
}

// rankDelta returns previous minus latest, or nil when either side is
// missing.
func rankDelta(previous, latest *float64) *float64 {
	if previous == nil || latest == nil {
		return nil
	}
	d := *previous - *latest
	return &d
}

// RoundTenth rounds to one decimal place, halves away from zero.
func RoundTenth(x float64) float64 {
	return math.Round(x*10) / 10
}
