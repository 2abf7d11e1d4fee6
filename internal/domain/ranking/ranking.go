// Package ranking computes tie-aware competition ranks over aggregated
// period totals and locates each player's immediate competitive neighbors.
package ranking

import (
	"sort"

	"github.com/maplehall/guildstats/internal/domain/aggregate"
	"github.com/maplehall/guildstats/internal/domain/model"
)

// Rank assigns a competition rank per player for one category: rank 1 for
// the largest total, equal totals share the same rank, and the next
// distinct total gets the next rank with no gap. Two players tied for 2nd
// both get rank 2 and the next value gets rank 3, not 4. Ranks are
// category-local.
func Rank(stats map[string]aggregate.PeriodStats, c model.Category) map[string]int {
	distinct := make(map[int]struct{}, len(stats))
	for _, s := range stats {
		distinct[s.Total(c)] = struct{}{}
	}
	totals := make([]int, 0, len(distinct))
	for t := range distinct {
		totals = append(totals, t)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(totals)))

	rankByTotal := make(map[int]int, len(totals))
	for i, t := range totals {
		rankByTotal[t] = i + 1
	}

	ranks := make(map[string]int, len(stats))
	for id, s := range stats {
		ranks[id] = rankByTotal[s.Total(c)]
	}
	return ranks
}

// Order returns the stats sorted descending by the category total. Ties
// are broken by player id ascending; the source data had no designed
// secondary key, so the tiebreak is pinned here to keep neighbor lookups
// deterministic across recomputations.
func Order(stats map[string]aggregate.PeriodStats, c model.Category) []aggregate.PeriodStats {
	out := make([]aggregate.PeriodStats, 0, len(stats))
	for _, s := range stats {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		ti, tj := out[i].Total(c), out[j].Total(c)
		if ti != tj {
			return ti > tj
		}
		return out[i].PlayerID < out[j].PlayerID
	})
	return out
}
