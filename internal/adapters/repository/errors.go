package repository

import "errors"

// Sentinel kinds for record-store errors.
var (
	// ErrNoData marks an empty source: a readable store with zero rows.
	ErrNoData = errors.New("no records in store")
	// ErrOpenStore marks a source that could not be opened at all.
	ErrOpenStore = errors.New("open record store failed")
)
