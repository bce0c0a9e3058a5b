package wav

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	goaudio "github.com/go-audio/wav"
)

// Decoder turns an arbitrary audio file into per-channel float64 samples in
// [-1, 1] plus its native sample rate, satisfying shazam's decoder
// interface. Any format ffmpeg understands is accepted: non-WAV input is
// first transcoded to a temporary mono 44100 Hz PCM WAV via
// ExtractChunkAsWAV.
type Decoder struct{}

// Decode reads path, converting through ffmpeg first if it isn't already a
// WAV file, and returns one float64 slice per channel.
func (Decoder) Decode(path string) ([][]float64, int, error) {
	wavPath := path
	if !strings.EqualFold(filepath.Ext(path), ".wav") {
		converted, err := convertToWAVCopy(path)
		if err != nil {
			return nil, 0, fmt.Errorf("decode: %v", err)
		}
		defer os.Remove(converted)
		wavPath = converted
	}

	f, err := os.Open(wavPath)
	if err != nil {
		return nil, 0, fmt.Errorf("decode: opening %s: %v", wavPath, err)
	}
	defer f.Close()

	dec := goaudio.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, 0, fmt.Errorf("decode: %s is not a valid WAV file", wavPath)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("decode: reading PCM buffer: %v", err)
	}
	if buf == nil || len(buf.Data) == 0 {
		return nil, 0, fmt.Errorf("decode: %s has no audio data", wavPath)
	}

	numChannels := buf.Format.NumChannels
	if numChannels < 1 {
		numChannels = 1
	}

	maxVal := float64(int(1) << (buf.SourceBitDepth - 1))
	if buf.SourceBitDepth == 0 {
		maxVal = 1 << 15
	}

	channels := make([][]float64, numChannels)
	frames := len(buf.Data) / numChannels
	for c := range channels {
		channels[c] = make([]float64, frames)
	}
	for i, v := range buf.Data {
		c := i % numChannels
		frame := i / numChannels
		if frame >= frames {
			break
		}
		channels[c][frame] = float64(v) / maxVal
	}

	return channels, buf.Format.SampleRate, nil
}

// convertToWAVCopy transcodes any ffmpeg-readable file to a throwaway WAV
// file without mutating/removing the caller's original, unlike
// ConvertToWAV (which is the indexing pipeline's in-place conversion).
// ExtractChunkAsWAV already creates its own tmp/ folder.
func convertToWAVCopy(inputPath string) (string, error) {
	return ExtractChunkAsWAV(inputPath, 0, wholeFileSentinelDuration)
}

// wholeFileSentinelDuration is passed to ffmpeg's -t flag as a duration far
// longer than any real track; ffmpeg clamps the extraction to the source's
// actual length rather than erroring or padding with silence.
const wholeFileSentinelDuration = 24 * 60 * 60
