package shazam

import (
	"math"
	"sort"
)

const peakLogEps = 1e-10

// Peak is a single (t, f) constellation point, indices into the
// spectrogram's time/frequency axes.
type Peak struct {
	T int
	F int
}

// PickPeaks finds local-maximum peaks in the log-magnitude spectrogram,
// thresholds them at the 75th percentile of local-max cells, and caps the
// survivors per frame.
func PickPeaks(spec [][]float64, cfg Config) []Peak {
	if len(spec) == 0 {
		return nil
	}

	numFrames := len(spec)
	numBins := len(spec[0])

	logS := make([][]float64, numFrames)
	for t := range spec {
		logS[t] = make([]float64, numBins)
		for f, v := range spec[t] {
			logS[t][f] = math.Log(v + peakLogEps)
		}
	}

	hf := cfg.PeakNeighborHeight
	ht := cfg.PeakNeighborWidth

	isLocalMax := make([][]bool, numFrames)
	for t := range isLocalMax {
		isLocalMax[t] = make([]bool, numBins)
	}

	var localMaxVals []float64

	for t := 0; t < numFrames; t++ {
		for f := 0; f < numBins; f++ {
			v := logS[t][f]
			if localMaximum(logS, t, f, ht, hf) {
				isLocalMax[t][f] = true
				localMaxVals = append(localMaxVals, v)
			}
		}
	}

	var threshold float64
	if len(localMaxVals) > 0 {
		threshold = percentile75(localMaxVals)
	} else {
		threshold = maxOf(logS)
	}

	type framePeak struct {
		f   int
		mag float64
	}
	byFrame := make(map[int][]framePeak)

	for t := 0; t < numFrames; t++ {
		for f := 0; f < numBins; f++ {
			if isLocalMax[t][f] && logS[t][f] >= threshold {
				byFrame[t] = append(byFrame[t], framePeak{f, logS[t][f]})
			}
		}
	}

	var peaks []Peak
	for t := 0; t < numFrames; t++ {
		frame, ok := byFrame[t]
		if !ok {
			continue
		}
		if len(frame) > cfg.MaxPeaksPerFrame {
			sort.Slice(frame, func(i, j int) bool {
				if frame[i].mag != frame[j].mag {
					return frame[i].mag > frame[j].mag
				}
				return frame[i].f < frame[j].f
			})
			frame = frame[:cfg.MaxPeaksPerFrame]
		}
		sort.Slice(frame, func(i, j int) bool { return frame[i].f < frame[j].f })
		for _, p := range frame {
			peaks = append(peaks, Peak{T: t, F: p.f})
		}
	}

	return peaks
}

// localMaximum reports whether logS[t][f] equals the max over the ht x hf
// window around (t, f): time offsets -ht/2 .. ht-ht/2-1 and frequency
// offsets -hf/2 .. hf-hf/2-1, the placement a 2-D maximum filter of that
// size uses, with cells outside the spectrogram skipped. It is a maximum
// filter comparison, not a strict-greater-than comparison, so plateaus of
// equal magnitude all count as peaks.
func localMaximum(logS [][]float64, t, f, ht, hf int) bool {
	v := logS[t][f]
	numFrames := len(logS)
	numBins := len(logS[0])

	for dt := -(ht / 2); dt < ht-ht/2; dt++ {
		tt := t + dt
		if tt < 0 || tt >= numFrames {
			continue
		}
		for df := -(hf / 2); df < hf-hf/2; df++ {
			ff := f + df
			if ff < 0 || ff >= numBins {
				continue
			}
			if logS[tt][ff] > v {
				return false
			}
		}
	}
	return true
}

func percentile75(vals []float64) float64 {
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	if len(sorted) == 1 {
		return sorted[0]
	}
	rank := 0.75 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

func maxOf(logS [][]float64) float64 {
	m := math.Inf(-1)
	for _, row := range logS {
		for _, v := range row {
			if v > m {
				m = v
			}
		}
	}
	return m
}
