package liveaudio

// DriftModel is an online ordinary-least-squares fit of track_time as a
// function of wall_time, so playback position tracking survives small
// clock/resampling drift between the capture device and the indexed
// track.
type DriftModel struct {
	alpha float64
	beta  float64

	n     int
	sumT  float64
	sumX  float64
	sumTT float64
	sumTX float64
}

// Reset seeds the model at a new anchor: alpha starts at initialTrackTime,
// beta at 1.0 (no drift assumed yet), then folds in one observation at
// (initialWallTime, initialTrackTime) so Predict is sane before the first
// real Update arrives.
func (d *DriftModel) Reset(initialTrackTime, initialWallTime float64) {
	d.alpha = initialTrackTime
	d.beta = 1.0
	d.n = 0
	d.sumT = 0
	d.sumX = 0
	d.sumTT = 0
	d.sumTX = 0
	d.Update(initialWallTime, initialTrackTime)
}

// Update folds in one more (wallTime, trackTime) observation and refits
// the regression. beta is clamped to [0.90, 1.10] to reject spurious
// matches from swinging the slope into nonsense; alpha is NOT re-derived
// after the clamp, so a clamped beta leaves alpha as the least-squares fit
// produced before clamping.
func (d *DriftModel) Update(wallTime, trackTime float64) {
	d.n++
	d.sumT += wallTime
	d.sumX += trackTime
	d.sumTT += wallTime * wallTime
	d.sumTX += wallTime * trackTime

	if d.n < 2 {
		return
	}

	denom := float64(d.n)*d.sumTT - d.sumT*d.sumT
	if denom < -1e-9 || denom > 1e-9 {
		beta := (float64(d.n)*d.sumTX - d.sumT*d.sumX) / denom
		alpha := (d.sumX - beta*d.sumT) / float64(d.n)
		d.beta = beta
		d.alpha = alpha
		if d.beta < 0.90 {
			d.beta = 0.90
		}
		if d.beta > 1.10 {
			d.beta = 1.10
		}
	}
}

// Predict returns the estimated track_time at wallTime.
func (d *DriftModel) Predict(wallTime float64) float64 {
	return d.alpha + d.beta*wallTime
}
