// Package model contains domain models passed between layers.
package model

import (
	"strings"
	"time"
)

// WeeklyStatus is the closed vocabulary for the per-week achievement flag.
// Unknown input maps to WeeklyStatusUnrecognized so that counting code can
// never silently absorb a new spreadsheet value.
type WeeklyStatus int

const (
	WeeklyStatusUnrecognized WeeklyStatus = iota
	WeeklyStatusAchieved
	WeeklyStatusNotAchieved
	WeeklyStatusNotApplicable
)

// ParseWeeklyStatus maps a trimmed source string to a WeeklyStatus.
func ParseWeeklyStatus(s string) WeeklyStatus {
	switch strings.TrimSpace(s) {
	case "achieved", "達成":
		return WeeklyStatusAchieved
	case "not achieved", "未達成":
		return WeeklyStatusNotAchieved
	case "NA", "N/A", "n/a":
		return WeeklyStatusNotApplicable
	default:
		return WeeklyStatusUnrecognized
	}
}

func (s WeeklyStatus) String() string {
	switch s {
	case WeeklyStatusAchieved:
		return "achieved"
	case WeeklyStatusNotAchieved:
		return "not achieved"
	case WeeklyStatusNotApplicable:
		return "n/a"
	default:
		return "unrecognized"
	}
}

// ChangeStatus is the closed vocabulary for the week-over-week rank-change
// flag. A player's first observed week carries ChangeStatusNotApplicable
// because there is no prior state to compare against.
type ChangeStatus int

const (
	ChangeStatusUnrecognized ChangeStatus = iota
	ChangeStatusPromoted
	ChangeStatusDemoted
	ChangeStatusNoChange
	ChangeStatusNotApplicable
)

// ParseChangeStatus maps a trimmed source string to a ChangeStatus.
func ParseChangeStatus(s string) ChangeStatus {
	switch strings.TrimSpace(s) {
	case "promoted", "晉升":
		return ChangeStatusPromoted
	case "demoted", "降級":
		return ChangeStatusDemoted
	case "no change", "-", "持平":
		return ChangeStatusNoChange
	case "NA", "N/A", "n/a", "":
		return ChangeStatusNotApplicable
	default:
		return ChangeStatusUnrecognized
	}
}

func (s ChangeStatus) String() string {
	switch s {
	case ChangeStatusPromoted:
		return "promoted"
	case ChangeStatusDemoted:
		return "demoted"
	case ChangeStatusNoChange:
		return "no change"
	case ChangeStatusNotApplicable:
		return "n/a"
	default:
		return "unrecognized"
	}
}

// Category identifies one of the three tracked weekly activities.
type Category string

const (
	// CategoryFlag is the weekly flag race score.
	CategoryFlag Category = "flag"
	// CategoryWater is the weekly culvert (underground waterway) score.
	CategoryWater Category = "water"
	// CategoryCastle is the attendance-style guild castle completion count.
	// Its per-week value is binary, so a period total reads as
	// "completions out of weeks observed".
	CategoryCastle Category = "castle"
)

// ParseCategory validates a query-supplied category name.
func ParseCategory(s string) (Category, bool) {
	switch Category(strings.TrimSpace(strings.ToLower(s))) {
	case CategoryFlag:
		return CategoryFlag, true
	case CategoryWater:
		return CategoryWater, true
	case CategoryCastle:
		return CategoryCastle, true
	}
	return "", false
}

// Categories lists all categories in the fixed display order used for
// ranking tabs and change-log notes.
func Categories() []Category {
	return []Category{CategoryFlag, CategoryWater, CategoryCastle}
}

// WeeklyRecord is one player's row for one reporting week. Rows are
// immutable once ingested; all derived views are recomputed from scratch.
type WeeklyRecord struct {
	Week         time.Time    // truncated to the reporting week, group key
	PlayerID     string       // stable identifier, never empty after ingestion
	Job          string       // free-text class label, display only
	FlagScore    int          // non-negative, coerced to 0 on bad input
	WaterScore   int          // non-negative, coerced to 0 on bad input
	CastleScore  int          // 0 or 1 per week in practice
	WeeklyStatus WeeklyStatus
	ChangeStatus ChangeStatus
	Level        int    // optional display attribute, 0 when unknown
	ImageRef     string // optional portrait URL, empty when unknown
}

// Score returns the record's value for the given category.
func (r WeeklyRecord) Score(c Category) int {
	switch c {
	case CategoryFlag:
		return r.FlagScore
	case CategoryWater:
		return r.WaterScore
	case CategoryCastle:
		return r.CastleScore
	}
	return 0
}
