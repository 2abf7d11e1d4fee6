// Package changelog derives a player's promotion/demotion event log from
// the per-week rank-change flag.
package changelog

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/maplehall/guildstats/internal/domain/model"
)

// Entry is one promotion or demotion event with a synthesized summary of
// that week's category contributions.
type Entry struct {
	Week   time.Time          `json:"week"`
	Status model.ChangeStatus `json:"-"`
	Change string             `json:"change"` // "promoted" or "demoted"
	Note   string             `json:"note"`
}

// noActivityNote is emitted when no category was positive that week.
const noActivityNote = "no activity in period"

// attendanceNote replaces the numeric value for the attendance-style
// category, whose weekly score is binary.
const attendanceNote = "attendance completed"

// Derive filters the player's rows to promotion/demotion events, newest
// week first. Rows carrying the no-change or not-applicable sentinel are
// excluded; a first observed week can never appear since it has no prior
// state. Unrecognized flags are excluded too rather than guessed at.
func Derive(records []model.WeeklyRecord) []Entry {
	out := make([]Entry, 0, len(records))
	for _, rec := range records {
		if rec.ChangeStatus != model.ChangeStatusPromoted && rec.ChangeStatus != model.ChangeStatusDemoted {
			continue
		}
		out = append(out, Entry{
			Week:   rec.Week,
			Status: rec.ChangeStatus,
			Change: rec.ChangeStatus.String(),
			Note:   note(rec),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Week.After(out[j].Week)
	})
	return out
}

// note lists each positive category for the week in fixed order, e.g.
// "flag 10 / attendance completed".
func note(rec model.WeeklyRecord) string {
	parts := make([]string, 0, 3)
	for _, c := range model.Categories() {
		v := rec.Score(c)
		if v <= 0 {
			continue
		}
		if c == model.CategoryCastle {
			parts = append(parts, attendanceNote)
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %d", c, v))
	}
	if len(parts) == 0 {
		return noActivityNote
	}
	return strings.Join(parts, " / ")
}
