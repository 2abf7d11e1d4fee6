package repository_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/maplehall/guildstats/internal/adapters/repository"
	"github.com/maplehall/guildstats/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestSQLiteStore(t *testing.T) {
	Convey("Given a fresh database file", t, func() {
		path := filepath.Join(t.TempDir(), "guild.db")
		store, err := repository.OpenSQLite(path)
		So(err, ShouldBeNil)
		defer store.Close()
		ctx := context.Background()

		Convey("When nothing has been imported", func() {
			Convey("Then the revision reports the no-data sentinel", func() {
				_, err := store.Revision(ctx)
				So(err, ShouldEqual, repository.ErrNoData)
			})

			Convey("Then reading all records yields nothing", func() {
				records, err := store.All(ctx)
				So(err, ShouldBeNil)
				So(records, ShouldBeEmpty)
			})
		})

		Convey("When a snapshot is imported", func() {
			records := []model.WeeklyRecord{
				{
					Week:         day("2025-01-12"),
					PlayerID:     "rella",
					Job:          "Bishop",
					FlagScore:    120,
					WaterScore:   300,
					CastleScore:  1,
					WeeklyStatus: model.WeeklyStatusAchieved,
					ChangeStatus: model.ChangeStatusPromoted,
					Level:        281,
					ImageRef:     "https://img.example/rella",
				},
				{
					Week:         day("2025-01-05"),
					PlayerID:     "quill",
					Job:          "Hero",
					CastleScore:  1,
					WeeklyStatus: model.WeeklyStatusNotAchieved,
					ChangeStatus: model.ChangeStatusNotApplicable,
					Level:        260,
				},
			}
			So(store.ReplaceAll(ctx, records, "rev-1"), ShouldBeNil)

			Convey("Then the revision is the stamped one", func() {
				rev, err := store.Revision(ctx)
				So(err, ShouldBeNil)
				So(rev, ShouldEqual, "rev-1")
			})

			Convey("Then records round-trip ordered by week then player", func() {
				got, err := store.All(ctx)
				So(err, ShouldBeNil)
				So(got, ShouldHaveLength, 2)
				So(got[0].PlayerID, ShouldEqual, "quill")
				So(got[0].WeeklyStatus, ShouldEqual, model.WeeklyStatusNotAchieved)
				So(got[0].ChangeStatus, ShouldEqual, model.ChangeStatusNotApplicable)
				So(got[1].PlayerID, ShouldEqual, "rella")
				So(got[1].Week, ShouldEqual, day("2025-01-12"))
				So(got[1].FlagScore, ShouldEqual, 120)
				So(got[1].ImageRef, ShouldEqual, "https://img.example/rella")
			})

			Convey("When a second snapshot replaces the first", func() {
				So(store.ReplaceAll(ctx, records[:1], "rev-2"), ShouldBeNil)

				Convey("Then old rows are gone and the revision moves", func() {
					got, err := store.All(ctx)
					So(err, ShouldBeNil)
					So(got, ShouldHaveLength, 1)
					So(got[0].PlayerID, ShouldEqual, "rella")

					rev, err := store.Revision(ctx)
					So(err, ShouldBeNil)
					So(rev, ShouldEqual, "rev-2")
				})
			})
		})
	})
}
