package analyzer

import (
	"sort"

	"github.com/blackwell-systems/rankwatch/internal/rankapi"
)

// Grouping holds scans grouped by business name. Iteration order is the
// order each business first appeared in the input; within a business, scans
// are newest first. A business is only present when it has at least one scan.
type Grouping struct {
	names []string
	scans map[string][]rankapi.Scan
}

// GroupScans groups a flat scan slice by exact business name. The input
// order is not trusted: each group is sorted newest-first by CreatedAt, with
// ties keeping their input order.
func GroupScans(scans []rankapi.Scan) *Grouping {
	g := &Grouping{scans: make(map[string][]rankapi.Scan)}
	for _, s := range scans {
		name := s.Business.Name
		if _, seen := g.scans[name]; !seen {
			g.names = append(g.names, name)
		}
		g.scans[name] = append(g.scans[name], s)
	}
	for _, name := range g.names {
		group := g.scans[name]
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].CreatedAt.After(group[j].CreatedAt)
		})
	}
	return g
}

// Len returns the number of businesses in the grouping.
func (g *Grouping) Len() int {
	return len(g.names)
}

// Names returns business names in first-appearance order.
func (g *Grouping) Names() []string {
	return g.names
}

// Scans returns a business's scans, newest first. Nil when the business is
// not in the grouping.
func (g *Grouping) Scans(name string) []rankapi.Scan {
	return g.scans[name]
}

// Latest returns a business's most recent scan, or nil.
func (g *Grouping) Latest(name string) *rankapi.Scan {
	group := g.scans[name]
	if len(group) == 0 {
		return nil
	}
	return &group[0]
}

// Latests returns each business's most recent scan in iteration order.
func (g *Grouping) Latests() []rankapi.Scan {
	out := make([]rankapi.Scan, 0, len(g.names))
	for _, name := range g.names {
		out = append(out, g.scans[name][0])
	}
	return out
}

// Replace swaps in a fuller version of a scan already in the grouping,
// matched by UUID within its business group. Reports whether a match was
// found. Used to merge detail fetches into the grouped summaries.
func (g *Grouping) Replace(scan rankapi.Scan) bool {
	group, ok := g.scans[scan.Business.Name]
	if !ok {
		return false
	}
	for i := range group {
		if group[i].UUID == scan.UUID {
			group[i] = scan
			return true
		}
	}
	return false
}
