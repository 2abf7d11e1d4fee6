// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	service "github.com/maplehall/guildstats/internal/app"
)

// ReportDependencies defines the interface for player report operations.
type ReportDependencies interface {
	Recompute(ctx context.Context, params service.QueryParams) (*service.PlayerReport, error)
}

// ReportHandler handles per-player report requests.
type ReportHandler struct {
	deps ReportDependencies
}

// NewReportHandler creates a new report handler.
func NewReportHandler(deps ReportDependencies) *ReportHandler {
	return &ReportHandler{deps: deps}
}

// HandleGetReport handles
// GET /api/players/{id}/report?start=&end=&category=&mode= requests.
// Category and mode are optional; when present they override the display
// mode for that one category.
func (h *ReportHandler) HandleGetReport(w http.ResponseWriter, r *http.Request) {
	playerID := mux.Vars(r)["id"]
	if playerID == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	q := r.URL.Query()

	rng, err := parseRange(q)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	params := service.QueryParams{Range: rng, PlayerID: playerID}
	if q.Get(paramCategory) != "" {
		params.Category, err = parseCategory(q)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", err)
			return
		}
		params.Mode, err = parseMode(q)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", err)
			return
		}
	}

	report, err := h.deps.Recompute(r.Context(), params)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
