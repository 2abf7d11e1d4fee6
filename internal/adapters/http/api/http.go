// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/maplehall/guildstats/internal/adapters/lookup"
	service "github.com/maplehall/guildstats/internal/app"
	"github.com/maplehall/guildstats/internal/domain/period"
	"github.com/maplehall/guildstats/internal/domain/ranking"
	"github.com/maplehall/guildstats/internal/adapters/repository"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	Recompute(ctx context.Context, params service.QueryParams) (*service.PlayerReport, error)
	Leaderboard(ctx context.Context, params service.LeaderboardParams) ([]service.LeaderboardRow, error)
	Players(ctx context.Context) []string
	Character(ctx context.Context, name string) lookup.Result
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	sessionHandler     *SessionHandler
	leaderboardHandler *LeaderboardHandler
	reportHandler      *ReportHandler
	changelogHandler   *ChangeLogHandler
	playersHandler     *PlayersHandler
	characterHandler   *CharacterHandler

	gate *Gate
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, gate *Gate, maxLeaderboardLimit int) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		sessionHandler:     NewSessionHandler(gate),
		leaderboardHandler: NewLeaderboardHandler(deps, maxLeaderboardLimit),
		reportHandler:      NewReportHandler(deps),
		changelogHandler:   NewChangeLogHandler(deps),
		playersHandler:     NewPlayersHandler(deps),
		characterHandler:   NewCharacterHandler(deps),
		gate:               gate,
	}
}

// Register attaches all HTTP routes to the router. Gated routes require a
// session token when the gate has passwords configured.
func (s *Server) Register(ctx context.Context, r *mux.Router) {
	r.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz")).Methods(http.MethodGet)
	r.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats")).Methods(http.MethodGet)
	r.HandleFunc("/api/session", MetricsMiddleware(s.sessionHandler.HandleCreateSession, "session")).Methods(http.MethodPost)

	gated := func(h http.HandlerFunc, endpoint string) http.HandlerFunc {
		return MetricsMiddleware(s.gate.Middleware(h), endpoint)
	}
	r.HandleFunc("/api/leaderboard", gated(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard")).Methods(http.MethodGet)
	r.HandleFunc("/api/players", gated(s.playersHandler.HandleListPlayers, "players")).Methods(http.MethodGet)
	r.HandleFunc("/api/players/{id}/report", gated(s.reportHandler.HandleGetReport, "report")).Methods(http.MethodGet)
	r.HandleFunc("/api/players/{id}/changelog", gated(s.changelogHandler.HandleGetChangeLog, "changelog")).Methods(http.MethodGet)
	r.HandleFunc("/api/character/{name}", gated(s.characterHandler.HandleGetCharacter, "character")).Methods(http.MethodGet)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeDomainError translates core sentinels to their HTTP shape: an
// invalid range is the caller's fault, an absent player or empty period is
// an explicit no-data result, anything else is a server error.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, period.ErrInvalidRange):
		writeError(w, http.StatusBadRequest, "invalid_range", err)
	case errors.Is(err, ranking.ErrPlayerNotFound):
		writeError(w, http.StatusNotFound, "no_data", err)
	case errors.Is(err, repository.ErrNoData):
		writeError(w, http.StatusNotFound, "no_data", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
