package liveaudio

import (
	"context"
	"sort"

	"lyricsync/shazam"
	"lyricsync/store"
)

// MatchResult is the outcome of fingerprinting and voting on one listen
// window: the best-scoring track, its vote count, and its estimated
// track_time at the end of the window.
type MatchResult struct {
	TrackID    string
	Confidence int
	OffsetSec  float64
}

// Matcher fingerprints a live audio segment, looks up its hashes against
// a FingerprintStore, and returns the best-voted (track_id, offset) pair
// by an offset-histogram vote.
type Matcher struct {
	Store         store.Store
	Cfg           shazam.Config
	ListenSeconds float64
}

// Match fingerprints segment and votes across every hash the store knows
// about. It returns ok=false when the segment fingerprints to nothing
// (too quiet/short) or when none of its hashes are present in the store —
// no match is not an error, just a negative result.
func (m *Matcher) Match(ctx context.Context, segment []float64) (MatchResult, bool, error) {
	hashes := shazam.FingerprintSamples(segment, m.Cfg)
	if len(hashes) == 0 {
		return MatchResult{}, false, nil
	}

	values := make([]uint32, len(hashes))
	liveTByHash := make(map[uint32][]int, len(hashes))
	for i, h := range hashes {
		values[i] = h.Value
		liveTByHash[h.Value] = append(liveTByHash[h.Value], h.TFrame)
	}

	rows, err := m.Store.QueryHashes(ctx, values)
	if err != nil {
		return MatchResult{}, false, err
	}
	if len(rows) == 0 {
		return MatchResult{}, false, nil
	}

	// votes[track_id][offset] = count
	votes := make(map[string]map[int]int)
	for _, row := range rows {
		for _, liveT := range liveTByHash[row.Hash32] {
			off := row.TFrame - liveT
			d := votes[row.TrackID]
			if d == nil {
				d = make(map[int]int)
				votes[row.TrackID] = d
			}
			d[off]++
		}
	}

	trackIDs := make([]string, 0, len(votes))
	for trackID := range votes {
		trackIDs = append(trackIDs, trackID)
	}
	sort.Strings(trackIDs)

	var bestTrack string
	var bestConf, bestOff int
	haveBest := false
	for _, trackID := range trackIDs {
		off, conf := bestOffset(votes[trackID])
		if !haveBest || conf > bestConf {
			haveBest = true
			bestConf = conf
			bestTrack = trackID
			bestOff = off
		}
	}
	if !haveBest {
		return MatchResult{}, false, nil
	}

	offSec := float64(bestOff*m.Cfg.HopSize) / float64(m.Cfg.SampleRate)
	// offSec locates the start of segment; the window itself spans
	// ListenSeconds, so "now" is the window's far edge.
	nowSec := offSec + m.ListenSeconds

	return MatchResult{
		TrackID:    bestTrack,
		Confidence: bestConf,
		OffsetSec:  nowSec,
	}, true, nil
}

// bestOffset picks the offset with the highest vote count, ties broken by
// the smaller absolute offset.
func bestOffset(offs map[int]int) (off, conf int) {
	offKeys := make([]int, 0, len(offs))
	for o := range offs {
		offKeys = append(offKeys, o)
	}
	sort.Slice(offKeys, func(i, j int) bool {
		ai, aj := abs(offKeys[i]), abs(offKeys[j])
		if ai != aj {
			return ai < aj
		}
		return offKeys[i] < offKeys[j]
	})

	haveBest := false
	for _, o := range offKeys {
		c := offs[o]
		if !haveBest || c > conf {
			haveBest = true
			conf = c
			off = o
		}
	}
	return
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
