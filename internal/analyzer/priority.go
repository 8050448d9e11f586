package analyzer

import "sort"

// Classification windows and caps for the action lists. Rank windows are
// inclusive on both ends.
const (
	// UrgentDrop is the business-level drop, in positions, beyond which a
	// business needs attention today.
	UrgentDrop = 3.0

	// ImportantRank is the latest average rank beyond which a business is
	// flagged important.
	ImportantRank = 12.0

	// QuickWinMinRank and QuickWinMaxRank bound the daily quick-win check
	// on a business's latest keyword results.
	QuickWinMinRank = 11.0
	QuickWinMaxRank = 15.0

	// QuickWinWideMaxRank widens the window for the portfolio-wide finder.
	QuickWinWideMaxRank = 20.0

	// HighOpportunityRank splits finder results into High and Medium
	// opportunity.
	HighOpportunityRank = 15.0

	// MaxDailyItems caps each daily priority bucket.
	MaxDailyItems = 5

	// MaxQuickWins caps the portfolio-wide quick-win list.
	MaxQuickWins = 20
)

// Prioritize classifies each business into at most one daily bucket:
// urgent beats important beats quick win. Buckets fill in grouping order
// and are capped only after every business has been classified.
func Prioritize(g *Grouping) DailyPriorities {
	p := DailyPriorities{
		Urgent:    []UrgentItem{},
		Important: []ImportantItem{},
		QuickWins: []QuickWinItem{},
	}
	for _, name := range g.Names() {
		scans := g.Scans(name)
		latest := scans[0]

		var delta *float64
		if len(scans) >= 2 {
			delta = rankDelta(scans[1].AvgRank, latest.AvgRank)
		}

		switch {
		case delta != nil && *delta < -UrgentDrop:
			p.Urgent = append(p.Urgent, UrgentItem{
				Business:     name,
				PreviousRank: *scans[1].AvgRank,
				CurrentRank:  *latest.AvgRank,
				DroppedBy:    RoundTenth(-*delta),
			})
		case latest.AvgRank != nil && *latest.AvgRank > ImportantRank:
			p.Important = append(p.Important, ImportantItem{
				Business:    name,
				CurrentRank: *latest.AvgRank,
			})
		default:
			// First keyword inside the window only.
			for _, kr := range latest.KeywordResults {
				if kr.AvgRank == nil {
					continue
				}
				if *kr.AvgRank >= QuickWinMinRank && *kr.AvgRank <= QuickWinMaxRank {
					p.QuickWins = append(p.QuickWins, QuickWinItem{
						Business:    name,
						Keyword:     kr.Keyword,
						CurrentRank: *kr.AvgRank,
					})
					break
				}
			}
		}
	}

	if len(p.Urgent) > MaxDailyItems {
		p.Urgent = p.Urgent[:MaxDailyItems]
	}
	if len(p.Important) > MaxDailyItems {
		p.Important = p.Important[:MaxDailyItems]
	}
	if len(p.QuickWins) > MaxDailyItems {
		p.QuickWins = p.QuickWins[:MaxDailyItems]
	}
	return p
}

// FindQuickWins collects every keyword across latest scans ranked inside
// the wide window, sorted closest-to-page-one first, then capped.
func FindQuickWins(g *Grouping) []QuickWin {
	var wins []QuickWin
	for _, name := range g.Names() {
		latest := g.Scans(name)[0]
		for _, kr := range latest.KeywordResults {
			if kr.AvgRank == nil {
				continue
			}
			rank := *kr.AvgRank
			if rank < QuickWinMinRank || rank > QuickWinWideMaxRank {
				continue
			}
			opportunity := "Medium"
			if rank <= HighOpportunityRank {
				opportunity = "High"
			}
			wins = append(wins, QuickWin{
				Business:    name,
				Keyword:     kr.Keyword,
				CurrentRank: rank,
				Opportunity: opportunity,
			})
		}
	}
	sort.SliceStable(wins, func(i, j int) bool {
		return wins[i].CurrentRank < wins[j].CurrentRank
	})
	if len(wins) > MaxQuickWins {
		wins = wins[:MaxQuickWins]
	}
	return wins
}
