// Package period selects the subset of weekly records inside an inclusive
// date range. Comparison happens at day granularity so that a range picked
// from a date widget matches rows carrying a midnight week timestamp.
package period

import (
	"time"

	"github.com/maplehall/guildstats/internal/domain/model"
)

// Range is an inclusive [Start, End] query window.
type Range struct {
	Start time.Time
	End   time.Time
}

// Validate reports whether the range is well formed. The filter itself
// never fails on a reversed range; callers surface ErrInvalidRange and
// must not auto-correct by swapping the bounds.
func (r Range) Validate() error {
	if truncate(r.Start).After(truncate(r.End)) {
		return ErrInvalidRange
	}
	return nil
}

// Contains reports whether t falls inside the range, inclusive on both
// ends, compared at day granularity.
func (r Range) Contains(t time.Time) bool {
	d := truncate(t)
	return !d.Before(truncate(r.Start)) && !d.After(truncate(r.End))
}

// Filter returns the records whose week falls inside the range. The input
// order is preserved. A reversed range yields an empty result rather than
// an error; no side effects.
func Filter(records []model.WeeklyRecord, r Range) []model.WeeklyRecord {
	out := make([]model.WeeklyRecord, 0, len(records))
	for _, rec := range records {
		if r.Contains(rec.Week) {
			out = append(out, rec)
		}
	}
	return out
}

// ForPlayer returns the records for a single player, preserving order.
func ForPlayer(records []model.WeeklyRecord, playerID string) []model.WeeklyRecord {
	out := make([]model.WeeklyRecord, 0, 8)
	for _, rec := range records {
		if rec.PlayerID == playerID {
			out = append(out, rec)
		}
	}
	return out
}

func truncate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
