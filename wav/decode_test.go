package wav

import (
	"os"
	"path/filepath"
	"testing"

	goaudio "github.com/go-audio/audio"
	goaudiowav "github.com/go-audio/wav"
)

func writeTestWAV(t *testing.T, path string, sampleRate, numChans int, samples []int) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	enc := goaudiowav.NewEncoder(f, sampleRate, 16, numChans, 1)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: numChans, SampleRate: sampleRate},
		Data:           samples,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatal(err)
	}
	if err := enc.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestDecodeMonoWAVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mono.wav")
	writeTestWAV(t, path, 8000, 1, []int{0, 16384, -16384, 0})

	channels, sampleRate, err := Decoder{}.Decode(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sampleRate != 8000 {
		t.Errorf("sampleRate = %d, want 8000", sampleRate)
	}
	if len(channels) != 1 {
		t.Fatalf("len(channels) = %d, want 1", len(channels))
	}
	if len(channels[0]) != 4 {
		t.Fatalf("len(channels[0]) = %d, want 4", len(channels[0]))
	}
	if channels[0][1] <= 0 {
		t.Errorf("channels[0][1] = %v, want a positive value for a positive PCM sample", channels[0][1])
	}
}

func TestDecodeStereoWAVFileSeparatesChannels(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stereo.wav")
	// interleaved L,R,L,R
	writeTestWAV(t, path, 8000, 2, []int{100, -100, 200, -200})

	channels, _, err := Decoder{}.Decode(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(channels) != 2 {
		t.Fatalf("len(channels) = %d, want 2", len(channels))
	}
	if channels[0][0] <= 0 || channels[1][0] >= 0 {
		t.Errorf("left/right channels not separated correctly: left=%v right=%v", channels[0][0], channels[1][0])
	}
}

func TestDecodeMissingFile(t *testing.T) {
	_, _, err := Decoder{}.Decode(filepath.Join(t.TempDir(), "missing.wav"))
	if err == nil {
		t.Fatal("expected an error decoding a nonexistent file")
	}
}

func TestDecodeNotAValidWAVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bogus.wav")
	if err := os.WriteFile(path, []byte("not a wav file"), 0644); err != nil {
		t.Fatal(err)
	}

	_, _, err := Decoder{}.Decode(path)
	if err == nil {
		t.Fatal("expected an error decoding a non-WAV file with a .wav extension")
	}
}
