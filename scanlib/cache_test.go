package scanlib

import (
	"path/filepath"
	"testing"

	"lyricsync/shazam"
	"lyricsync/store"
)

type stubDecoder struct {
	channels   [][]float64
	sampleRate int
}

func (d stubDecoder) Decode(path string) ([][]float64, int, error) {
	return d.channels, d.sampleRate, nil
}

func TestFingerprintTrackUsesCacheWhenPresent(t *testing.T) {
	cfg := shazam.DefaultConfig()
	cachePath := filepath.Join(t.TempDir(), "track.fp.cache")
	if err := store.SaveCache(cachePath, []uint32{1, 2, 3}, []int32{0, 10, 20}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tr := TrackInfo{CachePath: cachePath, AudioPath: "unused.wav"}
	hashes, fromCache, err := fingerprintTrack(stubDecoder{}, cfg, tr, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !fromCache {
		t.Error("expected fromCache = true when a valid cache file exists")
	}
	if len(hashes) != 3 {
		t.Fatalf("len(hashes) = %d, want 3", len(hashes))
	}
	if hashes[1].Value != 2 || hashes[1].TFrame != 10 {
		t.Errorf("hashes[1] = %+v, want {Value:2 TFrame:10}", hashes[1])
	}
}

func TestFingerprintTrackForceSkipsCache(t *testing.T) {
	cfg := shazam.DefaultConfig()
	cfg.FFTSize = 64
	cfg.HopSize = 32
	cachePath := filepath.Join(t.TempDir(), "track.fp.cache")
	if err := store.SaveCache(cachePath, []uint32{1}, []int32{0}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tr := TrackInfo{CachePath: cachePath, AudioPath: "unused.wav"}
	silence := make([][]float64, 1)
	silence[0] = make([]float64, cfg.FFTSize*4)

	_, fromCache, err := fingerprintTrack(stubDecoder{channels: silence, sampleRate: cfg.SampleRate}, cfg, tr, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fromCache {
		t.Error("expected fromCache = false when force is true")
	}
}

func TestFingerprintTrackNoCacheFallsBackToDecode(t *testing.T) {
	cfg := shazam.DefaultConfig()
	cfg.FFTSize = 64
	cfg.HopSize = 32

	tr := TrackInfo{CachePath: filepath.Join(t.TempDir(), "missing.fp.cache"), AudioPath: "unused.wav"}
	silence := make([][]float64, 1)
	silence[0] = make([]float64, cfg.FFTSize*4)

	hashes, fromCache, err := fingerprintTrack(stubDecoder{channels: silence, sampleRate: cfg.SampleRate}, cfg, tr, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fromCache {
		t.Error("expected fromCache = false when no cache file exists")
	}
	want := shazam.FingerprintSamples(silence[0], cfg)
	if len(hashes) != len(want) {
		t.Errorf("len(hashes) = %d, want %d (the decoded audio's own fingerprint)", len(hashes), len(want))
	}
}

func TestSaveTrackCacheRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.fp.cache")
	hashes := []shazam.Hash{{Value: 5, TFrame: 1}, {Value: 6, TFrame: 2}}

	if err := saveTrackCache(path, hashes); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	h, tf, err := store.LoadCache(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(h) != 2 || h[0] != 5 || h[1] != 6 {
		t.Errorf("loaded hashes = %v, want [5 6]", h)
	}
	if len(tf) != 2 || tf[0] != 1 || tf[1] != 2 {
		t.Errorf("loaded t_frames = %v, want [1 2]", tf)
	}
}
