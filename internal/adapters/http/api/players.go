// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
)

// PlayersDependencies defines the interface for player listing.
type PlayersDependencies interface {
	Players(ctx context.Context) []string
}

// PlayersHandler serves the distinct player ids used to populate
// selection widgets.
type PlayersHandler struct {
	deps PlayersDependencies
}

// NewPlayersHandler creates a new players handler.
func NewPlayersHandler(deps PlayersDependencies) *PlayersHandler {
	return &PlayersHandler{deps: deps}
}

// HandleListPlayers handles GET /api/players requests.
func (h *PlayersHandler) HandleListPlayers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Players(r.Context()))
}
