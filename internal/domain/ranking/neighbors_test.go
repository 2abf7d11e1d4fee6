package ranking_test

import (
	"testing"

	"github.com/maplehall/guildstats/internal/domain/aggregate"
	"github.com/maplehall/guildstats/internal/domain/model"
	"github.com/maplehall/guildstats/internal/domain/ranking"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNeighbors(t *testing.T) {
	Convey("Given three players with distinct flag totals", t, func() {
		stats := map[string]aggregate.PeriodStats{
			"top": {PlayerID: "top", FlagTotal: 300, WeekCount: 3},
			"mid": {PlayerID: "mid", FlagTotal: 150, WeekCount: 3},
			"low": {PlayerID: "low", FlagTotal: 31, WeekCount: 2},
		}

		Convey("When locating neighbors for the leader", func() {
			prev, next, err := ranking.Neighbors(stats, "top", model.CategoryFlag, ranking.ModeAverage)
			So(err, ShouldBeNil)

			Convey("Then the previous side is the first-place sentinel", func() {
				So(prev.InFirstPlace, ShouldBeTrue)
				So(prev.PlayerID, ShouldBeEmpty)
			})

			Convey("Then the next side reports rank 2 and its total", func() {
				So(next.PlayerID, ShouldEqual, "mid")
				So(next.Rank, ShouldEqual, 2)
				So(next.Total, ShouldEqual, 150)
				So(next.Tied, ShouldBeFalse)
			})
		})

		Convey("When locating neighbors for the last player", func() {
			prev, next, err := ranking.Neighbors(stats, "low", model.CategoryFlag, ranking.ModeAverage)
			So(err, ShouldBeNil)

			So(next.InLastPlace, ShouldBeTrue)
			So(prev.PlayerID, ShouldEqual, "mid")

			Convey("Then the average is floor-divided", func() {
				So(prev.Average, ShouldEqual, 50) // 150 / 3
			})
		})

		Convey("When locating neighbors for the middle player", func() {
			prev, next, err := ranking.Neighbors(stats, "mid", model.CategoryFlag, ranking.ModeAverage)
			So(err, ShouldBeNil)
			So(prev.PlayerID, ShouldEqual, "top")
			So(next.PlayerID, ShouldEqual, "low")

			Convey("Then a non-divisible average truncates toward zero", func() {
				So(next.Average, ShouldEqual, 15) // 31 / 2
			})
		})

		Convey("When the player has no stats in the period", func() {
			_, _, err := ranking.Neighbors(stats, "ghost", model.CategoryFlag, ranking.ModeAverage)

			Convey("Then the no-data sentinel error surfaces", func() {
				So(err, ShouldEqual, ranking.ErrPlayerNotFound)
			})
		})

		Convey("Then next/previous are inverse-consistent across the board", func() {
			for id := range stats {
				_, next, err := ranking.Neighbors(stats, id, model.CategoryFlag, ranking.ModeAverage)
				So(err, ShouldBeNil)
				if next.InLastPlace {
					continue
				}
				prevOfNext, _, err := ranking.Neighbors(stats, next.PlayerID, model.CategoryFlag, ranking.ModeAverage)
				So(err, ShouldBeNil)
				So(prevOfNext.PlayerID, ShouldEqual, id)
			}
		})
	})

	Convey("Given tied totals", t, func() {
		stats := map[string]aggregate.PeriodStats{
			"amber": {PlayerID: "amber", FlagTotal: 100, WeekCount: 1},
			"blair": {PlayerID: "blair", FlagTotal: 100, WeekCount: 1},
			"cress": {PlayerID: "cress", FlagTotal: 40, WeekCount: 1},
		}

		Convey("When locating neighbors inside the tie", func() {
			prev, next, err := ranking.Neighbors(stats, "blair", model.CategoryFlag, ranking.ModeAverage)
			So(err, ShouldBeNil)

			Convey("Then the tied neighbor is annotated and carries its shared rank", func() {
				So(prev.PlayerID, ShouldEqual, "amber")
				So(prev.Tied, ShouldBeTrue)
				So(prev.Rank, ShouldEqual, 1)
			})

			Convey("Then the lower entry carries the post-tie rank with no gap", func() {
				So(next.PlayerID, ShouldEqual, "cress")
				So(next.Rank, ShouldEqual, 2)
			})
		})
	})

	Convey("Given an attendance-style category", t, func() {
		stats := map[string]aggregate.PeriodStats{
			"steady": {PlayerID: "steady", CastleTotal: 3, WeekCount: 4},
			"always": {PlayerID: "always", CastleTotal: 4, WeekCount: 4},
		}

		Convey("When describing in percentage mode", func() {
			prev, _, err := ranking.Neighbors(stats, "steady", model.CategoryCastle, ranking.ModePercentage)
			So(err, ShouldBeNil)

			Convey("Then the neighbor reports a truncated two-decimal percentage", func() {
				So(prev.PlayerID, ShouldEqual, "always")
				So(prev.Mode, ShouldEqual, ranking.ModePercentage)
				So(prev.Percentage, ShouldEqual, 100.0)
			})
		})
	})
}

func TestTruncPercent(t *testing.T) {
	Convey("Given completion counts over observed weeks", t, func() {
		Convey("Then 3 of 4 reads 75.00", func() {
			So(ranking.TruncPercent(3, 4), ShouldEqual, 75.0)
		})
		Convey("Then 1 of 3 truncates to 33.33 rather than rounding", func() {
			So(ranking.TruncPercent(1, 3), ShouldEqual, 33.33)
		})
		Convey("Then 2 of 3 truncates to 66.66", func() {
			So(ranking.TruncPercent(2, 3), ShouldEqual, 66.66)
		})
	})
}

func TestDefaultMode(t *testing.T) {
	Convey("Given the three categories", t, func() {
		Convey("Then raw score categories default to average mode", func() {
			So(ranking.DefaultMode(model.CategoryFlag), ShouldEqual, ranking.ModeAverage)
			So(ranking.DefaultMode(model.CategoryWater), ShouldEqual, ranking.ModeAverage)
		})
		Convey("Then the attendance category defaults to percentage mode", func() {
			So(ranking.DefaultMode(model.CategoryCastle), ShouldEqual, ranking.ModePercentage)
		})
	})
}
