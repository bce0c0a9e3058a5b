package liveaudio

import (
	"context"
	"log"
	"sync"
	"time"

	"lyricsync/capture"
	"lyricsync/lyrics"
	"lyricsync/shazam"
	"lyricsync/store"
)

// Snapshot is the observer-facing view of a running session. Consumers
// poll it; no events are pushed.
type Snapshot struct {
	TrackID        string
	Confidence     int
	Meta           map[string]any
	TrackTime      float64
	HasTrackTime   bool
	LyricsCurrent  string
	LyricsNext     string
	CaptureFailed  bool
	CaptureErr     error
}

// Params bundles LiveSession's capture and matching tunables.
type Params struct {
	SampleRate        int
	Channels          int
	BlockSeconds      float64
	ListenSeconds     float64
	MatchEverySeconds float64
	MinConfidence     int
	Device            any
}

// LiveSession is the live matching state machine. The capture context
// (the portaudio callback) only ever calls buf.Append, never touches
// mu/current*, and never blocks. The match context (run's tick loop) owns
// mu, may block on storage and fingerprinting, and is the only writer of
// current state.
type LiveSession struct {
	params Params
	cfg    shazam.Config
	store  store.Store
	src    capture.Source
	matcher *Matcher

	buf *RollingBuffer

	mu             sync.Mutex
	running        bool
	currentTrackID string
	currentConf    int
	wallT0         *time.Time
	drift          DriftModel
	lrc            lyrics.LRC
	metaByID       map[string]map[string]any
	captureFailed  bool
	captureErr     error

	stream capture.Stream
	stopCh chan struct{}
	doneCh chan struct{}
}

// NewLiveSession constructs a session against store s using src for audio
// capture. s.AllTracksMeta is read once at construction; tracks
// registered afterward aren't recognized until the session restarts.
func NewLiveSession(ctx context.Context, s store.Store, src capture.Source, cfg shazam.Config, params Params) (*LiveSession, error) {
	meta, err := s.AllTracksMeta(ctx)
	if err != nil {
		return nil, err
	}

	bufN := int(params.ListenSeconds * float64(params.SampleRate))
	ls := &LiveSession{
		params:   params,
		cfg:      cfg,
		store:    s,
		src:      src,
		buf:      NewRollingBuffer(bufN),
		metaByID: meta,
	}
	ls.matcher = &Matcher{Store: s, Cfg: cfg, ListenSeconds: params.ListenSeconds}
	return ls, nil
}

// Start opens the capture stream and begins the match-context tick loop.
// Calling Start twice is a no-op.
func (ls *LiveSession) Start() error {
	ls.mu.Lock()
	if ls.running {
		ls.mu.Unlock()
		return nil
	}
	ls.running = true
	ls.mu.Unlock()

	blockN := int(ls.params.BlockSeconds * float64(ls.params.SampleRate))
	stream, err := ls.src.Open(ls.params.SampleRate, blockN, ls.params.Device, ls.onCaptureBlock)
	if err != nil {
		ls.mu.Lock()
		ls.running = false
		ls.captureFailed = true
		ls.captureErr = err
		ls.mu.Unlock()
		return err
	}

	ls.stream = stream
	ls.stopCh = make(chan struct{})
	ls.doneCh = make(chan struct{})
	go ls.run()
	return nil
}

// Stop flips running false and waits up to 2 seconds for the tick loop to
// exit before abandoning it.
func (ls *LiveSession) Stop() {
	ls.mu.Lock()
	if !ls.running {
		ls.mu.Unlock()
		return
	}
	ls.running = false
	ls.mu.Unlock()

	close(ls.stopCh)
	select {
	case <-ls.doneCh:
	case <-time.After(2 * time.Second):
		log.Printf("[liveaudio] session stop timed out, abandoning tick loop")
	}

	if ls.stream != nil {
		if err := ls.stream.Stop(); err != nil {
			log.Printf("[liveaudio] error closing capture stream: %v", err)
		}
	}
}

// onCaptureBlock is the capture context: it only ever appends to buf, and
// never acquires mu, so a slow or blocked match tick can never stall
// capture.
func (ls *LiveSession) onCaptureBlock(block []float32) {
	x := make([]float64, len(block))
	for i, s := range block {
		x[i] = float64(s)
	}
	ls.buf.Append(x)
}

// Snapshot returns the current observer-facing state.
func (ls *LiveSession) Snapshot() Snapshot {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	snap := Snapshot{
		TrackID:       ls.currentTrackID,
		Confidence:    ls.currentConf,
		CaptureFailed: ls.captureFailed,
		CaptureErr:    ls.captureErr,
	}
	if ls.currentTrackID != "" {
		snap.Meta = ls.metaByID[ls.currentTrackID]
	}
	if ls.wallT0 != nil {
		wallRel := time.Since(*ls.wallT0).Seconds()
		tt := ls.drift.Predict(wallRel)
		if tt < 0 {
			tt = 0
		}
		snap.TrackTime = tt
		snap.HasTrackTime = true
		snap.LyricsCurrent, snap.LyricsNext = ls.lrc.CurrentLine(tt)
	}
	return snap
}

// run is the match context's tick loop: it fingerprints the rolling
// buffer every match_every_seconds, and on a confident match either opens
// a new track (a staged handoff, resolving lyrics before taking mu so
// observers never see a new track_id alongside stale lyrics) or updates
// the drift model for the current one.
func (ls *LiveSession) run() {
	defer close(ls.doneCh)

	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()

	lastMatch := time.Now().Add(-time.Duration(ls.params.MatchEverySeconds * float64(time.Second)))
	matchEvery := time.Duration(ls.params.MatchEverySeconds * float64(time.Second))

	for {
		select {
		case <-ls.stopCh:
			return
		case now := <-ticker.C:
			if now.Sub(lastMatch) < matchEvery {
				continue
			}
			lastMatch = now
			ls.tick()
		}
	}
}

func (ls *LiveSession) tick() {
	segment := ls.buf.Ordered()

	res, ok, err := ls.matcher.Match(context.Background(), segment)
	if err != nil {
		log.Printf("[liveaudio] match query failed, skipping this tick: %v", err)
		return
	}
	if !ok || res.Confidence < ls.params.MinConfidence {
		return
	}

	ls.mu.Lock()
	sameTrack := ls.currentTrackID == res.TrackID
	ls.mu.Unlock()

	if sameTrack {
		ls.mu.Lock()
		ls.currentConf = res.Confidence
		ls.updateDriftLocked(max0(res.OffsetSec))
		ls.mu.Unlock()
		return
	}

	ls.switchTrack(res.TrackID, res.OffsetSec, res.Confidence)
}

// switchTrack resolves the new track's metadata and lyrics file outside
// the lock (lyrics.Load does file I/O), then takes the lock only to swap
// track_id/wall_t0/drift/lyrics together, so no observer ever sees a new
// track_id paired with the outgoing track's lyrics.
func (ls *LiveSession) switchTrack(trackID string, offsetSec float64, confidence int) {
	ls.mu.Lock()
	meta, known := ls.metaByID[trackID]
	ls.mu.Unlock()
	if !known {
		return
	}

	var lrcFile string
	if v, ok := meta["lrc_file"].(string); ok {
		lrcFile = v
	}

	var parsed lyrics.LRC
	if lrcFile != "" {
		var err error
		parsed, err = lyrics.Load(lrcFile)
		if err != nil {
			log.Printf("[liveaudio] failed to load lyrics for %s: %v", trackID, err)
		}
	}

	wallNow := time.Now()

	ls.mu.Lock()
	defer ls.mu.Unlock()
	ls.wallT0 = &wallNow
	ls.drift.Reset(max0(offsetSec), 0.0)
	ls.lrc = parsed
	ls.currentTrackID = trackID
	ls.currentConf = confidence
}

func (ls *LiveSession) updateDriftLocked(observedTrackTime float64) {
	if ls.wallT0 == nil {
		return
	}
	wallRel := time.Since(*ls.wallT0).Seconds()
	ls.drift.Update(wallRel, observedTrackTime)
}

func max0(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
