package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"lyricsync/internal/apperr"
)

// SQLiteStore is the canonical FingerprintStore backend: a relational
// store with a two-table schema, tracks and hashes.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if absent) the sqlite file at path. Callers
// still need to call Init before first use.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, apperr.Storage("opening sqlite store", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Init(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS tracks (
			track_id TEXT PRIMARY KEY,
			meta_json TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS hashes (
			hash32 INTEGER NOT NULL,
			track_id TEXT NOT NULL,
			t_frame INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_hash32 ON hashes(hash32)`,
		`CREATE INDEX IF NOT EXISTS idx_hash32_track ON hashes(hash32, track_id)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return apperr.Storage("initializing schema", err)
		}
	}
	return nil
}

func (s *SQLiteStore) UpsertTrack(ctx context.Context, trackID string, meta map[string]any) error {
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return apperr.Storage("marshaling track metadata", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO tracks(track_id, meta_json) VALUES(?, ?)
		ON CONFLICT(track_id) DO UPDATE SET meta_json=excluded.meta_json
	`, trackID, string(metaJSON))
	if err != nil {
		return apperr.Storage("upserting track", err)
	}
	return nil
}

// ReplaceHashes deletes trackID's rows and inserts rows inside a single
// transaction so a crash mid-replace leaves either the old or the new set
// observable, never a mixture.
func (s *SQLiteStore) ReplaceHashes(ctx context.Context, trackID string, rows []HashRow) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperr.Storage("beginning replace transaction", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM hashes WHERE track_id = ?`, trackID); err != nil {
		return apperr.Storage("deleting old hashes", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO hashes(hash32, track_id, t_frame) VALUES(?, ?, ?)`)
	if err != nil {
		return apperr.Storage("preparing hash insert", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, r.Hash32, trackID, r.TFrame); err != nil {
			return apperr.Storage("inserting hash row", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return apperr.Storage("committing replace transaction", err)
	}
	return nil
}

func (s *SQLiteStore) AllTracksMeta(ctx context.Context) (map[string]map[string]any, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT track_id, meta_json FROM tracks`)
	if err != nil {
		return nil, apperr.Storage("listing tracks", err)
	}
	defer rows.Close()

	out := make(map[string]map[string]any)
	for rows.Next() {
		var trackID, metaJSON string
		if err := rows.Scan(&trackID, &metaJSON); err != nil {
			return nil, apperr.Storage("scanning track row", err)
		}
		var meta map[string]any
		if err := json.Unmarshal([]byte(metaJSON), &meta); err != nil {
			return nil, apperr.Storage("unmarshaling track metadata", err)
		}
		out[trackID] = meta
	}
	return out, rows.Err()
}

func (s *SQLiteStore) QueryHashes(ctx context.Context, values []uint32) ([]HashRow, error) {
	if len(values) == 0 {
		return nil, nil
	}

	placeholders := make([]byte, 0, len(values)*2)
	args := make([]any, len(values))
	for i, v := range values {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
		args[i] = v
	}

	query := fmt.Sprintf(`SELECT hash32, track_id, t_frame FROM hashes WHERE hash32 IN (%s)`, placeholders)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperr.Storage("querying hashes", err)
	}
	defer rows.Close()

	var out []HashRow
	for rows.Next() {
		var r HashRow
		if err := rows.Scan(&r.Hash32, &r.TrackID, &r.TFrame); err != nil {
			return nil, apperr.Storage("scanning hash row", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
