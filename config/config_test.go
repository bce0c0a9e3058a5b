package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
music_root: /music
database:
  path: /data/lyricsync.db
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.MusicRoot != "/music" {
		t.Errorf("MusicRoot = %q, want /music", cfg.MusicRoot)
	}
	if cfg.DBPath != "/data/lyricsync.db" {
		t.Errorf("DBPath = %q, want /data/lyricsync.db", cfg.DBPath)
	}
	if cfg.Audio.SampleRate != 22050 {
		t.Errorf("Audio.SampleRate = %d, want default 22050", cfg.Audio.SampleRate)
	}
	if cfg.Audio.ListenSeconds != 12 {
		t.Errorf("Audio.ListenSeconds = %v, want default 12", cfg.Audio.ListenSeconds)
	}
	if cfg.Audio.Device != nil {
		t.Errorf("Audio.Device = %v, want nil (platform default)", cfg.Audio.Device)
	}
	if cfg.Fingerprint.SampleRate != cfg.Audio.SampleRate {
		t.Errorf("Fingerprint.SampleRate = %d, want to mirror Audio.SampleRate (%d)", cfg.Fingerprint.SampleRate, cfg.Audio.SampleRate)
	}
}

func TestLoadMissingMusicRoot(t *testing.T) {
	path := writeConfig(t, `
database:
  path: /data/lyricsync.db
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected an error when music_root is missing")
	}
}

func TestLoadMissingDatabasePath(t *testing.T) {
	path := writeConfig(t, `
music_root: /music
database: {}
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected an error when database.path is missing")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}

func TestLoadDeviceIntSelector(t *testing.T) {
	path := writeConfig(t, `
music_root: /music
database:
  path: /data/lyricsync.db
audio:
  device: 2
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Audio.Device != 2 {
		t.Errorf("Audio.Device = %v, want 2", cfg.Audio.Device)
	}
}

func TestLoadDeviceStringSelector(t *testing.T) {
	path := writeConfig(t, `
music_root: /music
database:
  path: /data/lyricsync.db
audio:
  device: "USB Microphone"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Audio.Device != "USB Microphone" {
		t.Errorf("Audio.Device = %v, want %q", cfg.Audio.Device, "USB Microphone")
	}
}

func TestLoadFingerprintOverrides(t *testing.T) {
	path := writeConfig(t, `
music_root: /music
database:
  path: /data/lyricsync.db
fingerprinting:
  fft_size: 2048
  hop_size: 256
  peak_neighborhood: [5, 10]
  fanout: 4
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Fingerprint.FFTSize != 2048 {
		t.Errorf("FFTSize = %d, want 2048", cfg.Fingerprint.FFTSize)
	}
	if cfg.Fingerprint.HopSize != 256 {
		t.Errorf("HopSize = %d, want 256", cfg.Fingerprint.HopSize)
	}
	if cfg.Fingerprint.PeakNeighborHeight != 5 || cfg.Fingerprint.PeakNeighborWidth != 10 {
		t.Errorf("peak neighborhood = (%d, %d), want (5, 10)", cfg.Fingerprint.PeakNeighborHeight, cfg.Fingerprint.PeakNeighborWidth)
	}
	if cfg.Fingerprint.Fanout != 4 {
		t.Errorf("Fanout = %d, want 4", cfg.Fingerprint.Fanout)
	}
	// untouched defaults survive alongside the overrides
	if cfg.Fingerprint.MinDT != 1 || cfg.Fingerprint.MaxDT != 60 {
		t.Errorf("dt window = (%d, %d), want untouched defaults (1, 60)", cfg.Fingerprint.MinDT, cfg.Fingerprint.MaxDT)
	}
}

func TestLoadTracksParsed(t *testing.T) {
	path := writeConfig(t, `
music_root: /music
database:
  path: /data/lyricsync.db
tracks:
  - id: trk_abc123
    title: Song One
    artist: Artist One
    audio_file: /music/song1/track.mp3
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Tracks) != 1 {
		t.Fatalf("len(Tracks) = %d, want 1", len(cfg.Tracks))
	}
	if cfg.Tracks[0].Title != "Song One" {
		t.Errorf("Tracks[0].Title = %q, want %q", cfg.Tracks[0].Title, "Song One")
	}
}
