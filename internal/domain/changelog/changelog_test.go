package changelog_test

import (
	"testing"
	"time"

	"github.com/maplehall/guildstats/internal/domain/changelog"
	"github.com/maplehall/guildstats/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func week(day string) time.Time {
	t, err := time.Parse("2006-01-02", day)
	if err != nil {
		panic(err)
	}
	return t
}

func TestDerive(t *testing.T) {
	Convey("Given a player's weekly history with mixed change flags", t, func() {
		records := []model.WeeklyRecord{
			{Week: week("2025-01-05"), PlayerID: "rella", ChangeStatus: model.ChangeStatusNoChange, FlagScore: 5},
			{Week: week("2025-01-12"), PlayerID: "rella", ChangeStatus: model.ChangeStatusPromoted, FlagScore: 10, CastleScore: 1},
			{Week: week("2025-01-19"), PlayerID: "rella", ChangeStatus: model.ChangeStatusNotApplicable, WaterScore: 7},
			{Week: week("2025-01-26"), PlayerID: "rella", ChangeStatus: model.ChangeStatusDemoted},
		}

		Convey("When the change log is derived", func() {
			entries := changelog.Derive(records)

			Convey("Then only promotion and demotion weeks survive", func() {
				So(entries, ShouldHaveLength, 2)
			})

			Convey("Then entries come newest week first", func() {
				So(entries[0].Week, ShouldEqual, week("2025-01-26"))
				So(entries[1].Week, ShouldEqual, week("2025-01-12"))
			})

			Convey("Then the promotion note joins positive categories in fixed order", func() {
				So(entries[1].Change, ShouldEqual, "promoted")
				So(entries[1].Note, ShouldEqual, "flag 10 / attendance completed")
			})

			Convey("Then a week with no positive category gets the idle note", func() {
				So(entries[0].Change, ShouldEqual, "demoted")
				So(entries[0].Note, ShouldEqual, "no activity in period")
			})
		})
	})

	Convey("Given a history with no promotions or demotions", t, func() {
		records := []model.WeeklyRecord{
			{Week: week("2025-02-02"), PlayerID: "quill", ChangeStatus: model.ChangeStatusNoChange, FlagScore: 3},
			{Week: week("2025-02-09"), PlayerID: "quill", ChangeStatus: model.ChangeStatusUnrecognized, FlagScore: 3},
		}

		Convey("When the change log is derived", func() {
			entries := changelog.Derive(records)

			Convey("Then it is empty rather than nil-surprising", func() {
				So(entries, ShouldNotBeNil)
				So(entries, ShouldBeEmpty)
			})
		})
	})

	Convey("Given all three categories positive in a promotion week", t, func() {
		records := []model.WeeklyRecord{
			{
				Week:         week("2025-03-02"),
				PlayerID:     "vance",
				ChangeStatus: model.ChangeStatusPromoted,
				FlagScore:    12,
				WaterScore:   40,
				CastleScore:  1,
			},
		}

		Convey("When the change log is derived", func() {
			entries := changelog.Derive(records)

			Convey("Then the note lists flag, water, then attendance", func() {
				So(entries, ShouldHaveLength, 1)
				So(entries[0].Note, ShouldEqual, "flag 12 / water 40 / attendance completed")
			})
		})
	})
}
