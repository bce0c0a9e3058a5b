package scanlib

import (
	"os"

	"lyricsync/shazam"
	"lyricsync/store"
)

// fingerprintTrack loads t's cached hashes if present, otherwise decodes
// and fingerprints the audio file directly. fromCache reports which path
// was taken, so callers only re-save the cache when it was actually
// recomputed.
func fingerprintTrack(decoder shazam.FileDecoder, cfg shazam.Config, t TrackInfo, force bool) (hashes []shazam.Hash, fromCache bool, err error) {
	if !force {
		if _, statErr := os.Stat(t.CachePath); statErr == nil {
			h, tf, loadErr := store.LoadCache(t.CachePath)
			if loadErr == nil {
				hashes = make([]shazam.Hash, len(h))
				for i := range h {
					hashes[i] = shazam.Hash{Value: h[i], TFrame: int(tf[i])}
				}
				return hashes, true, nil
			}
		}
	}

	hashes, err = shazam.FingerprintFile(decoder, t.AudioPath, cfg)
	if err != nil {
		return nil, false, err
	}
	return hashes, false, nil
}

func saveTrackCache(path string, hashes []shazam.Hash) error {
	h := make([]uint32, len(hashes))
	tf := make([]int32, len(hashes))
	for i, hash := range hashes {
		h[i] = hash.Value
		tf[i] = int32(hash.TFrame)
	}
	return store.SaveCache(path, h, tf)
}
