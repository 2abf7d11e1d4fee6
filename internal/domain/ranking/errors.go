package ranking

import "errors"

// Sentinel kinds for ranking lookups.
var (
	// ErrPlayerNotFound marks a player with no rows in the active period.
	ErrPlayerNotFound = errors.New("player not found in period")
)
