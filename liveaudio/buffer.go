package liveaudio

import "sync"

// RollingBuffer is a fixed-capacity ring of the most recent n samples,
// written by the capture context and read by the match context.
//
// The mutex here is distinct from LiveSession's state lock — capture must
// never block on session state — it only ever guards the ring's own
// head/slice, and Append/Ordered calls are each O(n) at worst, never
// blocking on storage or fingerprinting.
type RollingBuffer struct {
	mu  sync.Mutex
	buf []float64
	pos int
}

// NewRollingBuffer allocates a buffer holding exactly n samples, zero-filled.
func NewRollingBuffer(n int) *RollingBuffer {
	return &RollingBuffer{buf: make([]float64, n)}
}

// Append writes x into the ring. If x is at least as long as the ring's
// capacity, the ring is replaced wholesale by its tail and the write
// cursor resets to 0.
func (r *RollingBuffer) Append(x []float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := len(x)
	bufN := len(r.buf)
	if bufN == 0 {
		return
	}
	if n >= bufN {
		copy(r.buf, x[n-bufN:])
		r.pos = 0
		return
	}

	end := r.pos + n
	if end <= bufN {
		copy(r.buf[r.pos:end], x)
	} else {
		k := bufN - r.pos
		copy(r.buf[r.pos:], x[:k])
		copy(r.buf[:end-bufN], x[k:])
	}
	r.pos = (r.pos + n) % bufN
}

// Ordered returns a copy of the ring's contents in chronological order
// (oldest sample first), suitable for handing to the fingerprinter.
func (r *RollingBuffer) Ordered() []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]float64, len(r.buf))
	k := copy(out, r.buf[r.pos:])
	copy(out[k:], r.buf[:r.pos])
	return out
}
