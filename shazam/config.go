package shazam

// Config controls every tunable parameter in the spectrogram, peak
// extraction, and fingerprint generation pipeline.
type Config struct {
	SampleRate         int     // samples/sec the pipeline operates at (audio.sample_rate)
	FFTSize            int     // FFT window size in samples, power of 2
	HopSize            int     // samples between successive STFT frames
	PeakNeighborHeight int     // H_f: local-max neighborhood, frequency axis
	PeakNeighborWidth  int     // H_t: local-max neighborhood, time axis
	MaxPeaksPerFrame   int     // cap on retained peaks per STFT frame
	Fanout             int     // peaks paired with each anchor
	MinDT              int     // minimum frame delta kept in a pair
	MaxDT              int     // maximum frame delta kept in a pair
}

// DefaultConfig returns the standard tuning: 22050 Hz, 4096-sample FFT
// windows hopping by 512 samples, a 12x20 peak neighborhood, up to 6
// peaks per frame, 8-way fanout, and a 1-60 frame delta window.
func DefaultConfig() Config {
	return Config{
		SampleRate:         22050,
		FFTSize:            4096,
		HopSize:            512,
		PeakNeighborHeight: 12,
		PeakNeighborWidth:  20,
		MaxPeaksPerFrame:   6,
		Fanout:             8,
		MinDT:              1,
		MaxDT:              60,
	}
}
