// Package scanlib walks a music library root and registers each track it
// finds into a FingerprintStore, concurrently, through a small worker pool
// where each worker registers one track at a time.
package scanlib

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"lyricsync/shazam"
	"lyricsync/store"
	"lyricsync/trackid"
	"lyricsync/wav"
)

const fpCacheExt = ".fp.cache"

var audioExts = map[string]bool{".mp3": true, ".wav": true, ".m4a": true, ".flac": true, ".ogg": true}
var imageExts = []string{".png", ".jpg", ".jpeg"}

// TrackInfo is one discovered track, ready to be registered and (if a
// fingerprint cache is absent) fingerprinted.
type TrackInfo struct {
	TrackID    string
	Folder     string
	AudioPath  string
	LRCPath    string
	BGType     string
	BGPath     string
	Title      string
	Artist     string
	Album      string
	CachePath  string
}

// ScanRoot walks root's immediate subdirectories, one track folder per
// subdirectory: the first recognized audio file, the first .lrc, and a
// background image or video if present.
func ScanRoot(root string) ([]TrackInfo, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", root)
	}

	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var tracks []TrackInfo
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		songDir := filepath.Join(abs, e.Name())

		audio := firstMatch(songDir, func(ext string) bool { return audioExts[ext] })
		if audio == "" {
			continue
		}
		lrc := firstMatch(songDir, func(ext string) bool { return ext == ".lrc" })

		bgType, bgPath := "", ""
		if mp4 := firstMatch(songDir, func(ext string) bool { return ext == ".mp4" }); mp4 != "" {
			bgType, bgPath = "video", mp4
		} else if img := firstMatch(songDir, func(ext string) bool {
			for _, e := range imageExts {
				if e == ext {
					return true
				}
			}
			return false
		}); img != "" {
			bgType, bgPath = "image", img
		}

		meta, _ := wav.GetMetadata(audio)
		title := meta.Title
		if title == "" {
			title = strings.TrimSuffix(filepath.Base(audio), filepath.Ext(audio))
		}
		artist := meta.Artist
		if artist == "" {
			artist = "unknown"
		}

		id := trackid.From(audio)
		tracks = append(tracks, TrackInfo{
			TrackID:   id,
			Folder:    songDir,
			AudioPath: audio,
			LRCPath:   lrc,
			BGType:    bgType,
			BGPath:    bgPath,
			Title:     title,
			Artist:    artist,
			Album:     meta.Album,
			CachePath: filepath.Join(songDir, strings.TrimSuffix(filepath.Base(audio), filepath.Ext(audio))+fpCacheExt),
		})
	}
	return tracks, nil
}

func firstMatch(dir string, accept func(ext string) bool) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	var matches []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if accept(strings.ToLower(filepath.Ext(e.Name()))) {
			matches = append(matches, filepath.Join(dir, e.Name()))
		}
	}
	if len(matches) == 0 {
		return ""
	}
	sort.Strings(matches)
	return matches[0]
}

// RegisterAll fingerprints and stores every track in tracks, force
// re-fingerprinting already-indexed tracks when force is true. Workers:
// half the CPUs, at least one and at most len(tracks), each taking tracks
// from a shared queue.
func RegisterAll(ctx context.Context, s store.Store, decoder shazam.FileDecoder, cfg shazam.Config, tracks []TrackInfo, force bool) (indexed, failed int) {
	numTracks := len(tracks)
	if numTracks == 0 {
		return 0, 0
	}

	maxWorkers := runtime.NumCPU() / 2
	if maxWorkers > numTracks {
		maxWorkers = numTracks
	}
	if maxWorkers < 1 {
		maxWorkers = 1
	}

	jobs := make(chan TrackInfo, numTracks)
	results := make(chan error, numTracks)

	for w := 0; w < maxWorkers; w++ {
		go func() {
			for t := range jobs {
				results <- registerOne(ctx, s, decoder, cfg, t, force)
			}
		}()
	}
	for _, t := range tracks {
		jobs <- t
	}
	close(jobs)

	for i := 0; i < numTracks; i++ {
		if err := <-results; err != nil {
			failed++
		} else {
			indexed++
		}
	}
	return indexed, failed
}

// normalizeToWAV converts t's audio file to WAV in place when it isn't
// already one, so later decodes of this track's file take the fast native
// WAV path instead of re-invoking ffmpeg each time. ConvertToWAV removes
// the original non-WAV file.
func normalizeToWAV(t *TrackInfo) error {
	if strings.EqualFold(filepath.Ext(t.AudioPath), ".wav") {
		return nil
	}
	wavPath, err := wav.ConvertToWAV(t.AudioPath)
	if err != nil {
		return fmt.Errorf("normalize %s to wav: %w", t.AudioPath, err)
	}
	t.AudioPath = wavPath
	return nil
}

func registerOne(ctx context.Context, s store.Store, decoder shazam.FileDecoder, cfg shazam.Config, t TrackInfo, force bool) error {
	if err := normalizeToWAV(&t); err != nil {
		return err
	}

	meta := map[string]any{
		"title":      t.Title,
		"artist":     t.Artist,
		"album":      t.Album,
		"audio_file": t.AudioPath,
		"lrc_file":   t.LRCPath,
		"background": map[string]any{"type": t.BGType, "path": t.BGPath},
	}
	if duration, err := wav.GetAudioDuration(t.AudioPath); err == nil {
		meta["duration_sec"] = duration
	}
	if err := s.UpsertTrack(ctx, t.TrackID, meta); err != nil {
		return err
	}

	hashes, fromCache, err := fingerprintTrack(decoder, cfg, t, force)
	if err != nil {
		return err
	}

	rows := make([]store.HashRow, len(hashes))
	for i, h := range hashes {
		rows[i] = store.HashRow{Hash32: h.Value, TrackID: t.TrackID, TFrame: h.TFrame}
	}
	if err := s.ReplaceHashes(ctx, t.TrackID, rows); err != nil {
		return err
	}

	if !fromCache {
		_ = saveTrackCache(t.CachePath, hashes)
	}
	return nil
}
