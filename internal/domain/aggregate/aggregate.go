// Package aggregate reduces weekly records to per-player period totals.
package aggregate

import (
	"time"

	"github.com/maplehall/guildstats/internal/domain/model"
)

// PeriodStats holds one player's totals over the active period. It is
// ephemeral: recomputed from scratch on every query, never stored.
type PeriodStats struct {
	PlayerID    string `json:"player_id"`
	Job         string `json:"job"` // first occurrence in input order, display only
	FlagTotal   int    `json:"flag_total"`
	WaterTotal  int    `json:"water_total"`
	CastleTotal int    `json:"castle_total"`
	// WeekCount is the number of distinct weeks the player appears in,
	// not the row count, so that duplicate (player, week) rows cannot
	// inflate averages.
	WeekCount int `json:"week_count"`
}

// Total returns the summed value for the given category.
func (s PeriodStats) Total(c model.Category) int {
	switch c {
	case model.CategoryFlag:
		return s.FlagTotal
	case model.CategoryWater:
		return s.WaterTotal
	case model.CategoryCastle:
		return s.CastleTotal
	}
	return 0
}

// Aggregate groups the records by player and sums the three score
// categories. Players with zero rows in scope are absent from the result;
// callers must treat a missing key as "no data", not as a zero-score
// player.
func Aggregate(records []model.WeeklyRecord) map[string]PeriodStats {
	stats := make(map[string]PeriodStats)
	weeks := make(map[string]map[time.Time]struct{})

	for _, rec := range records {
		s, ok := stats[rec.PlayerID]
		if !ok {
			s = PeriodStats{PlayerID: rec.PlayerID, Job: rec.Job}
			weeks[rec.PlayerID] = make(map[time.Time]struct{})
		}
		s.FlagTotal += rec.FlagScore
		s.WaterTotal += rec.WaterScore
		s.CastleTotal += rec.CastleScore

		wk := rec.Week.Truncate(24 * time.Hour)
		if _, seen := weeks[rec.PlayerID][wk]; !seen {
			weeks[rec.PlayerID][wk] = struct{}{}
			s.WeekCount++
		}
		stats[rec.PlayerID] = s
	}
	return stats
}
