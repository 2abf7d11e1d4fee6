// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"

	"github.com/gorilla/mux"

	service "github.com/maplehall/guildstats/internal/app"
)

// ChangeLogHandler handles promotion/demotion log requests.
type ChangeLogHandler struct {
	deps ReportDependencies
}

// NewChangeLogHandler creates a new change-log handler.
func NewChangeLogHandler(deps ReportDependencies) *ChangeLogHandler {
	return &ChangeLogHandler{deps: deps}
}

// HandleGetChangeLog handles
// GET /api/players/{id}/changelog?start=&end= requests. The log is the
// change-log slice of the full report; recomputation is cheap at guild
// scale, so there is no separate derivation path to keep consistent.
func (h *ChangeLogHandler) HandleGetChangeLog(w http.ResponseWriter, r *http.Request) {
	playerID := mux.Vars(r)["id"]
	if playerID == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	rng, err := parseRange(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	report, err := h.deps.Recompute(r.Context(), service.QueryParams{Range: rng, PlayerID: playerID})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report.ChangeLog)
}
