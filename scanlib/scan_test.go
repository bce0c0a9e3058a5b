package scanlib

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestScanRootFindsTrackFolders(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "song-one", "track.mp3"), "fake-audio")
	writeFile(t, filepath.Join(root, "song-one", "lyrics.lrc"), "[00:00.00]hi")
	writeFile(t, filepath.Join(root, "song-one", "cover.jpg"), "fake-image")
	writeFile(t, filepath.Join(root, "not-a-track-empty-dir", ".keep"), "")

	tracks, err := ScanRoot(root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tracks) != 1 {
		t.Fatalf("len(tracks) = %d, want 1", len(tracks))
	}

	tr := tracks[0]
	if filepath.Base(tr.AudioPath) != "track.mp3" {
		t.Errorf("AudioPath = %q, want track.mp3", tr.AudioPath)
	}
	if filepath.Base(tr.LRCPath) != "lyrics.lrc" {
		t.Errorf("LRCPath = %q, want lyrics.lrc", tr.LRCPath)
	}
	if tr.BGType != "image" || filepath.Base(tr.BGPath) != "cover.jpg" {
		t.Errorf("background = (%q, %q), want (image, cover.jpg)", tr.BGType, tr.BGPath)
	}
	if tr.TrackID == "" {
		t.Error("expected a non-empty derived TrackID")
	}
}

func TestScanRootSkipsFoldersWithoutAudio(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "no-audio", "notes.txt"), "just text")

	tracks, err := ScanRoot(root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tracks) != 0 {
		t.Errorf("len(tracks) = %d, want 0 for a folder with no recognized audio file", len(tracks))
	}
}

func TestScanRootNotADirectory(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "plain.txt")
	writeFile(t, file, "content")

	if _, err := ScanRoot(file); err == nil {
		t.Fatal("expected an error scanning a non-directory path")
	}
}

func TestScanRootVideoBackgroundPreferredOverImage(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "song", "track.wav"), "fake-audio")
	writeFile(t, filepath.Join(root, "song", "cover.jpg"), "fake-image")
	writeFile(t, filepath.Join(root, "song", "bg.mp4"), "fake-video")

	tracks, err := ScanRoot(root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tracks) != 1 {
		t.Fatalf("len(tracks) = %d, want 1", len(tracks))
	}
	if tracks[0].BGType != "video" {
		t.Errorf("BGType = %q, want video when both an mp4 and an image are present", tracks[0].BGType)
	}
}
