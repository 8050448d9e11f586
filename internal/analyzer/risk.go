package analyzer

import (
	"fmt"
	"sort"

	"github.com/blackwell-systems/rankwatch/internal/rankapi"
)

// Risk factors are additive. Each factor that triggers contributes its
// weight and a human-readable string; a business with no factors scores 0
// and never appears in the at-risk list.
const (
	// RiskDropDelta is the rank delta below which a business counts as
	// having a significant ranking drop.
	RiskDropDelta = -2.0

	// PoorVisibilityRank is the average rank beyond which a business is
	// effectively invisible in results.
	PoorVisibilityRank = 15.0

	// WeightRankingDrop scores a significant drop since the previous scan.
	WeightRankingDrop = 3

	// WeightPoorVisibility scores a latest average rank past
	// PoorVisibilityRank.
	WeightPoorVisibility = 2

	// WeightLowEngagement scores a business with exactly one scan on
	// record.
	WeightLowEngagement = 1
)

// ScoreRisk evaluates one business's scans, newest first.
func ScoreRisk(name string, scans []rankapi.Scan) RiskAssessment {
	r := RiskAssessment{Business: name, Factors: []string{}}
	if len(scans) == 0 {
		return r
	}
	latest := scans[0]
	r.AvgRank = latest.AvgRank

	if len(scans) >= 2 {
		if delta := rankDelta(scans[1].AvgRank, latest.AvgRank); delta != nil && *delta < RiskDropDelta {
			r.Score += WeightRankingDrop
			r.Factors = append(r.Factors, fmt.Sprintf("ranking dropped %.1f positions since previous scan", -*delta))
		}
	}
	if latest.AvgRank != nil && *latest.AvgRank > PoorVisibilityRank {
		r.Score += WeightPoorVisibility
		r.Factors = append(r.Factors, fmt.Sprintf("poor visibility: average rank %.1f", *latest.AvgRank))
	}
	if len(scans) == 1 {
		r.Score += WeightLowEngagement
		r.Factors = append(r.Factors, "only one scan on record")
	}
	return r
}

// AtRisk scores every business and returns those with a non-zero score,
// highest first. Equal scores keep grouping order.
func AtRisk(g *Grouping) []RiskAssessment {
	var out []RiskAssessment
	for _, name := range g.Names() {
		r := ScoreRisk(name, g.Scans(name))
		if r.Score > 0 {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}
