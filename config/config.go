// Package config loads the nested YAML configuration describing audio
// capture parameters, fingerprinting tunables, and the tracks a library
// scan registered.
package config

import (
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v3"

	"lyricsync/internal/apperr"
	"lyricsync/shazam"
)

// Background names the visual asset paired with a track, carried through
// from the library scan even though core audio matching never reads it.
type Background struct {
	Type string `yaml:"type"`
	Path string `yaml:"path"`
}

// Track is one registered track entry.
type Track struct {
	ID               string     `yaml:"id"`
	Title            string     `yaml:"title"`
	Artist           string     `yaml:"artist"`
	Album            string     `yaml:"album"`
	AudioFile        string     `yaml:"audio_file"`
	LRCFile          string     `yaml:"lrc_file"`
	FingerprintCache string     `yaml:"fingerprint_cache"`
	Background       Background `yaml:"background"`
}

// rawAudio's Device field exists because audio.device is int | string |
// null; yaml.v3 decodes it straight into an `any` and resolveDevice sorts
// out the type at load time.
type rawAudio struct {
	SampleRate        int    `yaml:"sample_rate"`
	Channels          int    `yaml:"channels"`
	BlockSeconds      float64 `yaml:"block_seconds"`
	ListenSeconds     float64 `yaml:"listen_seconds"`
	MatchEverySeconds float64 `yaml:"match_every_seconds"`
	MinConfidence     int    `yaml:"min_confidence"`
	Device            any    `yaml:"device"`
}

type rawFingerprinting struct {
	FFTSize          int   `yaml:"fft_size"`
	HopSize          int   `yaml:"hop_size"`
	PeakNeighborhood []int `yaml:"peak_neighborhood"`
	MaxPeaksPerFrame int   `yaml:"max_peaks_per_frame"`
	Fanout           int   `yaml:"fanout"`
	MinDT            int   `yaml:"min_dt"`
	MaxDT            int   `yaml:"max_dt"`
}

type rawDocument struct {
	Version     int               `yaml:"version"`
	MusicRoot   string            `yaml:"music_root"`
	Database    map[string]any    `yaml:"database"`
	Audio       rawAudio          `yaml:"audio"`
	Fingerprint rawFingerprinting `yaml:"fingerprinting"`
	Tracks      []Track           `yaml:"tracks"`
}

// Audio holds the resolved audio.* block. Device is nil for "use the
// default input device"; a non-nil value is either an int device index
// or a string name substring, resolved by the Capture implementation.
type Audio struct {
	SampleRate        int
	Channels          int
	BlockSeconds      float64
	ListenSeconds     float64
	MatchEverySeconds float64
	MinConfidence     int
	Device            any
}

// Config is the fully loaded, validated configuration.
type Config struct {
	MusicRoot  string
	DBPath     string
	Audio      Audio
	Fingerprint shazam.Config
	Tracks     []Track
}

// Load reads and validates the YAML document at path. Required keys
// missing or holding the wrong type produce an apperr.Config error;
// unrecognized top-level keys are logged, not rejected.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, apperr.Config("reading config file", err)
	}

	var doc rawDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Config{}, apperr.Config("parsing config yaml", err)
	}

	warnUnknownKeys(data)

	if doc.MusicRoot == "" {
		return Config{}, apperr.Config("validating config", fmt.Errorf("music_root is required"))
	}

	dbPath, _ := doc.Database["path"].(string)
	if dbPath == "" {
		return Config{}, apperr.Config("validating config", fmt.Errorf("database.path is required"))
	}

	device, err := resolveDevice(doc.Audio.Device)
	if err != nil {
		return Config{}, apperr.Config("resolving audio.device", err)
	}

	audio := Audio{
		SampleRate:        orInt(doc.Audio.SampleRate, 22050),
		Channels:          orInt(doc.Audio.Channels, 1),
		BlockSeconds:      orFloat(doc.Audio.BlockSeconds, 1.0),
		ListenSeconds:     orFloat(doc.Audio.ListenSeconds, 12),
		MatchEverySeconds: orFloat(doc.Audio.MatchEverySeconds, 1.0),
		MinConfidence:     orInt(doc.Audio.MinConfidence, 20),
		Device:            device,
	}

	fp := shazam.DefaultConfig()
	fp.SampleRate = audio.SampleRate
	if doc.Fingerprint.FFTSize != 0 {
		fp.FFTSize = doc.Fingerprint.FFTSize
	}
	if doc.Fingerprint.HopSize != 0 {
		fp.HopSize = doc.Fingerprint.HopSize
	}
	if len(doc.Fingerprint.PeakNeighborhood) == 2 {
		fp.PeakNeighborHeight = doc.Fingerprint.PeakNeighborhood[0]
		fp.PeakNeighborWidth = doc.Fingerprint.PeakNeighborhood[1]
	}
	if doc.Fingerprint.MaxPeaksPerFrame != 0 {
		fp.MaxPeaksPerFrame = doc.Fingerprint.MaxPeaksPerFrame
	}
	if doc.Fingerprint.Fanout != 0 {
		fp.Fanout = doc.Fingerprint.Fanout
	}
	if doc.Fingerprint.MinDT != 0 {
		fp.MinDT = doc.Fingerprint.MinDT
	}
	if doc.Fingerprint.MaxDT != 0 {
		fp.MaxDT = doc.Fingerprint.MaxDT
	}

	return Config{
		MusicRoot:   doc.MusicRoot,
		DBPath:      dbPath,
		Audio:       audio,
		Fingerprint: fp,
		Tracks:      doc.Tracks,
	}, nil
}

// resolveDevice sorts audio.device's three accepted shapes. Name
// resolution against the actual device list happens in the capture
// package, which is where an "int | string-substring | null" selector
// meets real hardware.
func resolveDevice(v any) (any, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case int:
		return t, nil
	case string:
		return t, nil
	default:
		return nil, fmt.Errorf("audio.device must be int, string, or null, got %T", v)
	}
}

func orInt(v, fallback int) int {
	if v == 0 {
		return fallback
	}
	return v
}

func orFloat(v, fallback float64) float64 {
	if v == 0 {
		return fallback
	}
	return v
}

// warnUnknownKeys logs top-level keys the schema doesn't recognize; it
// never rejects them.
func warnUnknownKeys(data []byte) {
	var generic map[string]any
	if err := yaml.Unmarshal(data, &generic); err != nil {
		return
	}
	known := map[string]bool{
		"version": true, "music_root": true, "database": true,
		"audio": true, "fingerprinting": true, "display": true, "tracks": true,
	}
	for k := range generic {
		if !known[k] {
			log.Printf("[config] unrecognized top-level key %q, ignoring", k)
		}
	}
}

// NewListenParams extracts the liveaudio tuning knobs from a loaded
// Config, for callers that only need the session parameters.
func (c Config) NewListenParams() (blockSeconds, listenSeconds, matchEvery float64, minConfidence int) {
	return c.Audio.BlockSeconds, c.Audio.ListenSeconds, c.Audio.MatchEverySeconds, c.Audio.MinConfidence
}
