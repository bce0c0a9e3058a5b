package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s.Init(context.Background()))
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteUpsertAndListTracks(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLiteStore(t)

	meta := map[string]any{"title": "Song A", "artist": "Artist A"}
	require.NoError(t, s.UpsertTrack(ctx, "trk_a", meta))

	all, err := s.AllTracksMeta(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Song A", all["trk_a"]["title"])

	// upsert overwrites, never duplicates
	require.NoError(t, s.UpsertTrack(ctx, "trk_a", map[string]any{"title": "Renamed"}))
	all, err = s.AllTracksMeta(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
	assert.Equal(t, "Renamed", all["trk_a"]["title"])
}

func TestSQLiteReplaceHashesReplacesNotAppends(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLiteStore(t)
	require.NoError(t, s.UpsertTrack(ctx, "trk_a", map[string]any{}))

	require.NoError(t, s.ReplaceHashes(ctx, "trk_a", []HashRow{
		{Hash32: 1, TrackID: "trk_a", TFrame: 0},
		{Hash32: 2, TrackID: "trk_a", TFrame: 1},
	}))

	rows, err := s.QueryHashes(ctx, []uint32{1, 2})
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	require.NoError(t, s.ReplaceHashes(ctx, "trk_a", []HashRow{
		{Hash32: 3, TrackID: "trk_a", TFrame: 2},
	}))

	rows, err = s.QueryHashes(ctx, []uint32{1, 2, 3})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, uint32(3), rows[0].Hash32)
}

func TestSQLiteQueryHashesEmptyInput(t *testing.T) {
	s := newTestSQLiteStore(t)
	rows, err := s.QueryHashes(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, rows)
}

func TestSQLiteQueryHashesAcrossTracks(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLiteStore(t)

	require.NoError(t, s.UpsertTrack(ctx, "trk_a", map[string]any{}))
	require.NoError(t, s.UpsertTrack(ctx, "trk_b", map[string]any{}))
	require.NoError(t, s.ReplaceHashes(ctx, "trk_a", []HashRow{{Hash32: 99, TrackID: "trk_a", TFrame: 0}}))
	require.NoError(t, s.ReplaceHashes(ctx, "trk_b", []HashRow{{Hash32: 99, TrackID: "trk_b", TFrame: 5}}))

	rows, err := s.QueryHashes(ctx, []uint32{99})
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}
