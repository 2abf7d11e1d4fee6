package service

import "errors"

// Sentinel kinds for service wiring.
var (
	// ErrNoStore marks a service started without a record source.
	ErrNoStore = errors.New("no record store configured")
)
