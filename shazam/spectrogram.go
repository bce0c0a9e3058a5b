package shazam

import (
	"math"
	"math/cmplx"
)

// Spectrogram computes the magnitude matrix S[t][f] of a windowed,
// overlapping STFT over mono samples: one row per time frame, one column
// per frequency bin. Frame t's samples run
// [t*HopSize, t*HopSize+FFTSize); a trailing partial frame that doesn't
// fill the window is dropped, so live and offline frame indices stay
// aligned.
func Spectrogram(samples []float64, cfg Config) [][]float64 {
	window := hannWindow(cfg.FFTSize)

	numFrames := 0
	if len(samples) >= cfg.FFTSize {
		numFrames = (len(samples)-cfg.FFTSize)/cfg.HopSize + 1
	}

	spec := make([][]float64, 0, numFrames)
	frame := make([]float64, cfg.FFTSize)

	for start := 0; start+cfg.FFTSize <= len(samples); start += cfg.HopSize {
		copy(frame, samples[start:start+cfg.FFTSize])
		for i, w := range window {
			frame[i] *= w
		}

		spectrum := fft(frame)

		half := cfg.FFTSize/2 + 1
		mag := make([]float64, half)
		for i := 0; i < half; i++ {
			mag[i] = cmplx.Abs(spectrum[i])
		}
		spec = append(spec, mag)
	}

	return spec
}

// hannWindow returns a symmetric Hann window of length n.
func hannWindow(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		theta := 2 * math.Pi * float64(i) / float64(n-1)
		w[i] = 0.5 - 0.5*math.Cos(theta)
	}
	return w
}
