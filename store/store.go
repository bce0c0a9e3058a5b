// Package store implements the durable inverted index a FingerprintStore
// needs: landmark hash to (track_id, anchor_frame), plus freeform track
// metadata. Two backends are provided behind the same Store interface —
// SQLiteStore (the canonical choice) and MongoStore (an alternate durable
// backend). The command handlers open SQLiteStore; no config key selects
// MongoStore.
package store

import "context"

// HashRow is one landmark hash row: the hash, the track it belongs to,
// and the anchor peak's STFT frame index.
type HashRow struct {
	Hash32  uint32
	TrackID string
	TFrame  int
}

// Store is the persistence contract every FingerprintStore backend
// satisfies.
type Store interface {
	// Init creates the backing schema if it doesn't already exist.
	Init(ctx context.Context) error

	// UpsertTrack inserts or replaces a track's metadata.
	UpsertTrack(ctx context.Context, trackID string, meta map[string]any) error

	// ReplaceHashes atomically deletes all rows for trackID and inserts
	// rows in their place. A QueryHashes call concurrent with a failed or
	// in-flight replace must observe either the prior or the new set, never
	// a mixture.
	ReplaceHashes(ctx context.Context, trackID string, rows []HashRow) error

	// AllTracksMeta returns every track's metadata, keyed by track_id.
	AllTracksMeta(ctx context.Context) (map[string]map[string]any, error)

	// QueryHashes returns every row whose Hash32 is in values, duplicates
	// preserved, no ordering guaranteed. Empty input yields empty output.
	QueryHashes(ctx context.Context, values []uint32) ([]HashRow, error)

	// Close releases any held connections/handles.
	Close() error
}
