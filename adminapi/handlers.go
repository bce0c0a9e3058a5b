// Package adminapi is the HTTP surface for track registration and for
// polling a running live-matching session.
package adminapi

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/buger/jsonparser"
	"github.com/tidwall/gjson"

	"lyricsync/capture"
	"lyricsync/liveaudio"
	"lyricsync/shazam"
	"lyricsync/store"
	"lyricsync/trackid"
)

const maxBodySize = 10 << 20 // 10 MB, JSON bodies only — audio upload isn't part of this surface

// API holds the collaborators every handler needs.
type API struct {
	Store       store.Store
	Decoder     shazam.FileDecoder
	Cfg         shazam.Config
	CaptureSrc  capture.Source
	SessionCfg  liveaudio.Params

	session *liveaudio.LiveSession
}

// Mux builds the routed handler, wrapped in the same logging/CORS
// middleware the original server used.
func (a *API) Mux() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/tracks", a.handleTracks)
	mux.HandleFunc("/api/session", a.handleSession)
	mux.HandleFunc("/api/session/start", a.handleSessionStart)
	mux.HandleFunc("/api/session/stop", a.handleSessionStop)
	return requestLogger(corsMiddleware(mux))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	log.Printf("[adminapi] error %d: %s", status, msg)
	writeJSON(w, status, map[string]string{"error": msg})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: 200}
		next.ServeHTTP(rec, r)
		log.Printf("[http] %s %s -> %d (%s)", r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// handleTracks serves POST (register a track from a JSON body naming an
// on-disk audio file) and GET (list registered tracks' metadata).
func (a *API) handleTracks(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		a.registerTrack(w, r)
	case http.MethodGet:
		a.listTracks(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (a *API) registerTrack(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read request body")
		return
	}

	audioPath, err := jsonparser.GetString(body, "audio_file")
	if err != nil || audioPath == "" {
		writeError(w, http.StatusBadRequest, "audio_file is required")
		return
	}

	doc := gjson.ParseBytes(body)
	title := doc.Get("title").String()
	artist := doc.Get("artist").String()
	album := doc.Get("album").String()
	lrcFile := doc.Get("lrc_file").String()

	if title == "" {
		title = strings.TrimSuffix(audioPath, lastExt(audioPath))
	}
	if artist == "" {
		artist = "unknown"
	}

	id := trackid.From(audioPath)
	meta := map[string]any{
		"title":      title,
		"artist":     artist,
		"album":      album,
		"audio_file": audioPath,
		"lrc_file":   lrcFile,
	}

	ctx := r.Context()
	if err := a.Store.UpsertTrack(ctx, id, meta); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to register track: %v", err))
		return
	}

	hashes, err := shazam.FingerprintFile(a.Decoder, audioPath, a.Cfg)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to fingerprint: %v", err))
		return
	}

	rows := make([]store.HashRow, len(hashes))
	for i, h := range hashes {
		rows[i] = store.HashRow{Hash32: h.Value, TrackID: id, TFrame: h.TFrame}
	}
	if err := a.Store.ReplaceHashes(ctx, id, rows); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to store fingerprints: %v", err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"track_id":     id,
		"title":        title,
		"artist":       artist,
		"fingerprints": len(hashes),
	})
}

func (a *API) listTracks(w http.ResponseWriter, r *http.Request) {
	meta, err := a.Store.AllTracksMeta(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to list tracks: %v", err))
		return
	}
	writeJSON(w, http.StatusOK, meta)
}

// handleSession serves the observer poll.
func (a *API) handleSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if a.session == nil {
		writeJSON(w, http.StatusOK, map[string]any{"running": false})
		return
	}

	snap := a.session.Snapshot()
	writeJSON(w, http.StatusOK, map[string]any{
		"running":        true,
		"track_id":       snap.TrackID,
		"confidence":      snap.Confidence,
		"meta":           snap.Meta,
		"track_time":     snap.TrackTime,
		"has_track_time": snap.HasTrackTime,
		"lyrics_current": snap.LyricsCurrent,
		"lyrics_next":    snap.LyricsNext,
		"capture_failed": snap.CaptureFailed,
	})
}

func (a *API) handleSessionStart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	session, err := liveaudio.NewLiveSession(r.Context(), a.Store, a.CaptureSrc, a.Cfg, a.SessionCfg)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to build session: %v", err))
		return
	}
	if err := session.Start(); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to start capture: %v", err))
		return
	}

	a.session = session
	writeJSON(w, http.StatusOK, map[string]string{"status": "started"})
}

func (a *API) handleSessionStop(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if a.session != nil {
		a.session.Stop()
		a.session = nil
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "stopped"})
}

func lastExt(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '.' {
			return path[i:]
		}
		if path[i] == '/' {
			break
		}
	}
	return ""
}
