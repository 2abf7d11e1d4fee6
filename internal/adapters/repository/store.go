// Package repository supplies ordered, type-coerced weekly records from a
// durable source. The analytics core treats the record set as an immutable
// snapshot; the store's revision keys the snapshot cache.
package repository

import (
	"context"

	"github.com/maplehall/guildstats/internal/domain/model"
)

// Store provides read access to the ingested record set.
type Store interface {
	// All returns every weekly record in stable source order (week
	// ascending, then player id). Rows are already coerced: numeric
	// fields default to 0, text fields are trimmed, rows with an empty
	// job or an unparseable week never surface.
	All(ctx context.Context) ([]model.WeeklyRecord, error)

	// Revision identifies the current state of the source. Two equal
	// revisions guarantee an identical record set.
	Revision(ctx context.Context) (string, error)
}
