package ranking

import (
	"math"

	"github.com/maplehall/guildstats/internal/domain/aggregate"
	"github.com/maplehall/guildstats/internal/domain/model"
)

// Mode selects how a neighbor's total is contextualized.
type Mode string

const (
	// ModeAverage reports total / week_count as a floor-divided integer.
	// Used for the raw score categories.
	ModeAverage Mode = "average"
	// ModePercentage reports total / week_count * 100 truncated to two
	// decimals. Used for the attendance-style category, where the total
	// counts weeks completed out of weeks observed.
	ModePercentage Mode = "percentage"
)

// ParseMode validates a query-supplied display mode.
func ParseMode(s string) (Mode, bool) {
	switch Mode(s) {
	case ModeAverage:
		return ModeAverage, true
	case ModePercentage:
		return ModePercentage, true
	}
	return "", false
}

// DefaultMode returns the display mode conventionally used for a category.
func DefaultMode(c model.Category) Mode {
	if c == model.CategoryCastle {
		return ModePercentage
	}
	return ModeAverage
}

// Neighbor describes the entry immediately adjacent to the target player
// in the descending category ordering. It is a plain serializable value;
// icon and color selection belong to the presentation layer.
type Neighbor struct {
	// InFirstPlace marks the "currently in first place" sentinel on the
	// previous side: there is no one ahead, and the remaining fields are
	// zero.
	InFirstPlace bool `json:"in_first_place,omitempty"`
	// InLastPlace is the symmetric sentinel on the next side.
	InLastPlace bool `json:"in_last_place,omitempty"`

	PlayerID string `json:"player_id,omitempty"`
	// Rank is the neighbor's competition rank, not its position index;
	// the two diverge under ties.
	Rank  int  `json:"rank,omitempty"`
	Total int  `json:"total,omitempty"`
	Tied  bool `json:"tied,omitempty"` // neighbor's total equals the target's

	Mode Mode `json:"mode,omitempty"`
	// Average is set in ModeAverage, Percentage in ModePercentage.
	Average    int     `json:"average,omitempty"`
	Percentage float64 `json:"percentage,omitempty"`
}

// Neighbors locates the entries directly above and below the target in
// the Order ordering for the category. Returns ErrPlayerNotFound when the
// target has no stats in the period, so callers can render "no data for
// this selection" instead of a zero-filled row.
func Neighbors(stats map[string]aggregate.PeriodStats, playerID string, c model.Category, mode Mode) (prev, next Neighbor, err error) {
	target, ok := stats[playerID]
	if !ok {
		return Neighbor{}, Neighbor{}, ErrPlayerNotFound
	}

	ordered := Order(stats, c)
	ranks := Rank(stats, c)

	idx := 0
	for i, s := range ordered {
		if s.PlayerID == playerID {
			idx = i
			break
		}
	}

	if idx == 0 {
		prev = Neighbor{InFirstPlace: true}
	} else {
		prev = describe(ordered[idx-1], target, c, mode, ranks)
	}
	if idx == len(ordered)-1 {
		next = Neighbor{InLastPlace: true}
	} else {
		next = describe(ordered[idx+1], target, c, mode, ranks)
	}
	return prev, next, nil
}

func describe(n, target aggregate.PeriodStats, c model.Category, mode Mode, ranks map[string]int) Neighbor {
	total := n.Total(c)
	out := Neighbor{
		PlayerID: n.PlayerID,
		Rank:     ranks[n.PlayerID],
		Total:    total,
		Tied:     total == target.Total(c),
		Mode:     mode,
	}
	if n.WeekCount > 0 {
		switch mode {
		case ModePercentage:
			out.Percentage = TruncPercent(total, n.WeekCount)
		default:
			out.Average = total / n.WeekCount
		}
	}
	return out
}

// TruncPercent converts a completion count over observed weeks to a
// percentage truncated (not rounded) to two decimal places, matching the
// report display.
func TruncPercent(total, weeks int) float64 {
	return math.Trunc(float64(total)/float64(weeks)*10000) / 100
}
