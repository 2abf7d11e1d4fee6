package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"github.com/maplehall/guildstats/internal/adapters/http/api"
	"github.com/maplehall/guildstats/internal/adapters/lookup"
	service "github.com/maplehall/guildstats/internal/app"
	"github.com/maplehall/guildstats/internal/domain/model"
	"github.com/maplehall/guildstats/internal/domain/ranking"
	. "github.com/smartystreets/goconvey/convey"
)

// fakeDeps is a canned Dependencies implementation that records the last
// params each operation received.
type fakeDeps struct {
	lastQuery       service.QueryParams
	lastLeaderboard service.LeaderboardParams

	report          *service.PlayerReport
	reportErr       error
	leaderboardRows []service.LeaderboardRow
	leaderboardErr  error
	players         []string
	character       lookup.Result
}

func (f *fakeDeps) Recompute(_ context.Context, params service.QueryParams) (*service.PlayerReport, error) {
	f.lastQuery = params
	if err := params.Range.Validate(); err != nil {
		return nil, err
	}
	if f.reportErr != nil {
		return nil, f.reportErr
	}
	return f.report, nil
}

func (f *fakeDeps) Leaderboard(_ context.Context, params service.LeaderboardParams) ([]service.LeaderboardRow, error) {
	f.lastLeaderboard = params
	if f.leaderboardErr != nil {
		return nil, f.leaderboardErr
	}
	return f.leaderboardRows, nil
}

func (f *fakeDeps) Players(_ context.Context) []string {
	return f.players
}

func (f *fakeDeps) Character(_ context.Context, name string) lookup.Result {
	return f.character
}

type fakeStats struct{}

func (fakeStats) GetStats() map[string]interface{} {
	return map[string]interface{}{"started": true, "records": 6}
}

func newTestServer(deps *fakeDeps, gate *api.Gate) *mux.Router {
	r := mux.NewRouter()
	api.NewServer(deps, fakeStats{}, gate, 50).Register(context.Background(), r)
	return r
}

func get(router *mux.Router, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRoutes(t *testing.T) {
	Convey("Given a server with an open gate and canned data", t, func() {
		deps := &fakeDeps{
			report: &service.PlayerReport{
				PlayerID:  "rella",
				Job:       "Bishop",
				WeekCount: 2,
				Summary:   map[model.Category]*service.CategorySummary{},
				ChangeLog: nil,
			},
			leaderboardRows: []service.LeaderboardRow{
				{Rank: 1, PlayerID: "vance", Total: 200},
				{Rank: 2, PlayerID: "rella", Total: 150},
			},
			players:   []string{"quill", "rella", "vance"},
			character: lookup.Result{Status: lookup.StatusDisabled, Reason: "no api key configured"},
		}
		router := newTestServer(deps, api.NewGate(nil, time.Hour))

		Convey("When fetching the leaderboard with valid params", func() {
			rec := get(router, "/api/leaderboard?category=flag&start=2025-01-01&end=2025-01-31&limit=10", nil)

			Convey("Then rows come back as JSON", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var rows []service.LeaderboardRow
				So(json.Unmarshal(rec.Body.Bytes(), &rows), ShouldBeNil)
				So(rows, ShouldHaveLength, 2)
				So(rows[0].PlayerID, ShouldEqual, "vance")
			})

			Convey("Then the parsed params reach the service", func() {
				So(deps.lastLeaderboard.Category, ShouldEqual, model.CategoryFlag)
				So(deps.lastLeaderboard.Limit, ShouldEqual, 10)
				So(deps.lastLeaderboard.Range.Start.Format("2006-01-02"), ShouldEqual, "2025-01-01")
			})
		})

		Convey("When the leaderboard limit exceeds the server maximum", func() {
			rec := get(router, "/api/leaderboard?category=flag&start=2025-01-01&end=2025-01-31&limit=9999", nil)
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(deps.lastLeaderboard.Limit, ShouldEqual, 50)
		})

		Convey("When leaderboard params are missing or malformed", func() {
			for _, path := range []string{
				"/api/leaderboard?category=flag",
				"/api/leaderboard?category=banner&start=2025-01-01&end=2025-01-31",
				"/api/leaderboard?category=flag&start=2025-01-01&end=2025-01-31&limit=zero",
				"/api/leaderboard?category=flag&start=01/01/2025&end=2025-01-31",
			} {
				rec := get(router, path, nil)
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
			}
		})

		Convey("When fetching a player report", func() {
			rec := get(router, "/api/players/rella/report?start=2025-01-01&end=2025-01-31", nil)

			So(rec.Code, ShouldEqual, http.StatusOK)
			So(deps.lastQuery.PlayerID, ShouldEqual, "rella")

			var report service.PlayerReport
			So(json.Unmarshal(rec.Body.Bytes(), &report), ShouldBeNil)
			So(report.Job, ShouldEqual, "Bishop")
		})

		Convey("When the report carries a category mode override", func() {
			rec := get(router, "/api/players/rella/report?start=2025-01-01&end=2025-01-31&category=castle&mode=average", nil)
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(deps.lastQuery.Category, ShouldEqual, model.CategoryCastle)
			So(deps.lastQuery.Mode, ShouldEqual, ranking.ModeAverage)
		})

		Convey("When the range is reversed", func() {
			rec := get(router, "/api/players/rella/report?start=2025-01-31&end=2025-01-01", nil)

			Convey("Then the core invalid-range error maps to 400", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
				So(rec.Body.String(), ShouldContainSubstring, "invalid_range")
			})
		})

		Convey("When the player has no data in the period", func() {
			deps.reportErr = fmt.Errorf("player %q: %w", "ghost", ranking.ErrPlayerNotFound)
			rec := get(router, "/api/players/ghost/report?start=2025-01-01&end=2025-01-31", nil)

			Convey("Then it maps to 404 no_data", func() {
				So(rec.Code, ShouldEqual, http.StatusNotFound)
				So(rec.Body.String(), ShouldContainSubstring, "no_data")
			})
		})

		Convey("When fetching a change log", func() {
			rec := get(router, "/api/players/rella/changelog?start=2025-01-01&end=2025-01-31", nil)
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(deps.lastQuery.PlayerID, ShouldEqual, "rella")
		})

		Convey("When listing players", func() {
			rec := get(router, "/api/players", nil)
			So(rec.Code, ShouldEqual, http.StatusOK)
			var players []string
			So(json.Unmarshal(rec.Body.Bytes(), &players), ShouldBeNil)
			So(players, ShouldResemble, []string{"quill", "rella", "vance"})
		})

		Convey("When looking up a character with the feature disabled", func() {
			rec := get(router, "/api/character/Rella", nil)

			Convey("Then the response is 200 with an explicit status", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var res lookup.Result
				So(json.Unmarshal(rec.Body.Bytes(), &res), ShouldBeNil)
				So(res.Status, ShouldEqual, lookup.StatusDisabled)
			})
		})

		Convey("When fetching service stats", func() {
			rec := get(router, "/stats", nil)
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldContainSubstring, "records")
		})
	})
}

func TestGatedRoutes(t *testing.T) {
	Convey("Given a server behind a locked gate", t, func() {
		gate := api.NewGate([]string{hashPassword(t, "guild-pass")}, time.Hour)
		deps := &fakeDeps{players: []string{"rella"}}
		router := newTestServer(deps, gate)

		Convey("When hitting a gated route without a session", func() {
			rec := get(router, "/api/players", nil)
			So(rec.Code, ShouldEqual, http.StatusUnauthorized)
		})

		Convey("When hitting it with a live session token", func() {
			token, _, ok := gate.Unlock("guild-pass")
			So(ok, ShouldBeTrue)
			rec := get(router, "/api/players", map[string]string{"X-Session-Token": token})
			So(rec.Code, ShouldEqual, http.StatusOK)
		})

		Convey("When hitting the ungated routes", func() {
			So(get(router, "/healthz", nil).Code, ShouldEqual, http.StatusOK)
			So(get(router, "/stats", nil).Code, ShouldEqual, http.StatusOK)
		})
	})
}
