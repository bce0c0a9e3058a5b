package wav

import (
	"os/exec"
	"path/filepath"
	"testing"
)

func TestConvertToWAVMissingInput(t *testing.T) {
	_, err := ConvertToWAV(filepath.Join(t.TempDir(), "missing.mp3"))
	if err == nil {
		t.Fatal("expected an error converting a nonexistent input file")
	}
}

func TestGetAudioDurationRequiresFfprobe(t *testing.T) {
	if _, err := exec.LookPath("ffprobe"); err != nil {
		t.Skip("ffprobe not available in this environment")
	}
	if _, err := GetAudioDuration(filepath.Join(t.TempDir(), "missing.mp3")); err == nil {
		t.Error("expected an error probing a nonexistent file")
	}
}

func TestExtractChunkAsWAVRequiresFfmpeg(t *testing.T) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not available in this environment")
	}
	if _, err := ExtractChunkAsWAV(filepath.Join(t.TempDir(), "missing.mp3"), 0, 1); err == nil {
		t.Error("expected an error extracting a chunk from a nonexistent file")
	}
}
