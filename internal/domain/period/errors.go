package period

import "errors"

// Sentinel kinds for period validation.
var (
	// ErrInvalidRange marks a query whose start date is after its end date.
	ErrInvalidRange = errors.New("start date after end date")
)
