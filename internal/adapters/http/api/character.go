// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/maplehall/guildstats/internal/adapters/lookup"
)

// CharacterDependencies defines the interface for character lookups.
type CharacterDependencies interface {
	Character(ctx context.Context, name string) lookup.Result
}

// CharacterHandler proxies best-effort character lookups.
type CharacterHandler struct {
	deps CharacterDependencies
}

// NewCharacterHandler creates a new character handler.
func NewCharacterHandler(deps CharacterDependencies) *CharacterHandler {
	return &CharacterHandler{deps: deps}
}

// HandleGetCharacter handles GET /api/character/{name} requests. The
// response is always 200 with an explicit status so the dashboard can
// render "no data" without treating the lookup as an error path.
func (h *CharacterHandler) HandleGetCharacter(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	if name == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Character(r.Context(), name))
}
