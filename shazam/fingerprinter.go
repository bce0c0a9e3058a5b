package shazam

// minPeaksForFingerprint is the survival floor below which a segment is
// considered too quiet/noisy to fingerprint reliably.
const minPeaksForFingerprint = 10

// decoder is the narrow collaborator FingerprintFile uses to turn a file on
// disk into per-channel float samples at the file's native rate.
// wav.Decoder satisfies this; kept as an interface so FingerprintFile's
// resample step can be tested without shelling out to ffmpeg.
type decoder interface {
	Decode(path string) (samples [][]float64, sampleRate int, err error)
}

// FileDecoder is the exported name for decoder, for callers outside this
// package (scanlib) that need to pass a concrete wav.Decoder through to
// FingerprintFile without importing an unexported type.
type FileDecoder = decoder

// Fingerprint turns already-mono-or-multi-channel samples into a landmark
// hash list. Multiple channels are averaged down to mono, the DC
// offset is removed, and fewer than minPeaksForFingerprint surviving peaks
// yields an empty result.
func Fingerprint(channels [][]float64, cfg Config) []Hash {
	mono := downmix(channels)
	mono = removeDC(mono)

	spec := Spectrogram(mono, cfg)
	peaks := PickPeaks(spec, cfg)
	if len(peaks) < minPeaksForFingerprint {
		return nil
	}

	return Pairs(peaks, cfg)
}

// FingerprintSamples is a convenience entry point for already-mono audio
// (the live-matching path never has more than one channel).
func FingerprintSamples(mono []float64, cfg Config) []Hash {
	return Fingerprint([][]float64{mono}, cfg)
}

// FingerprintFile decodes path, resamples it to cfg.SampleRate if needed,
// and fingerprints the result.
func FingerprintFile(d decoder, path string, cfg Config) ([]Hash, error) {
	channels, sourceRate, err := d.Decode(path)
	if err != nil {
		return nil, err
	}

	mono := downmix(channels)
	if sourceRate != cfg.SampleRate {
		mono = Resample(mono, sourceRate, cfg.SampleRate)
	}

	return FingerprintSamples(mono, cfg), nil
}

func downmix(channels [][]float64) []float64 {
	if len(channels) == 0 {
		return nil
	}
	if len(channels) == 1 {
		return channels[0]
	}

	n := len(channels[0])
	out := make([]float64, n)
	for _, ch := range channels {
		for i := 0; i < n && i < len(ch); i++ {
			out[i] += ch[i]
		}
	}
	inv := 1.0 / float64(len(channels))
	for i := range out {
		out[i] *= inv
	}
	return out
}

func removeDC(samples []float64) []float64 {
	if len(samples) == 0 {
		return samples
	}
	var sum float64
	for _, s := range samples {
		sum += s
	}
	mean := sum / float64(len(samples))

	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = s - mean
	}
	return out
}

// Resample linearly interpolates samples from sourceRate to targetRate
// using endpoint-exclusive normalized time.
func Resample(samples []float64, sourceRate, targetRate int) []float64 {
	if sourceRate == targetRate || len(samples) == 0 {
		return samples
	}

	oldN := len(samples)
	newN := int(float64(oldN) * float64(targetRate) / float64(sourceRate))
	if newN <= 0 {
		return nil
	}

	out := make([]float64, newN)
	for i := 0; i < newN; i++ {
		// endpoint-exclusive normalized time in [0, 1)
		tq := float64(i) / float64(newN)
		srcPos := tq * float64(oldN)

		lo := int(srcPos)
		if lo >= oldN-1 {
			out[i] = samples[oldN-1]
			continue
		}
		frac := srcPos - float64(lo)
		out[i] = samples[lo]*(1-frac) + samples[lo+1]*frac
	}
	return out
}
