package store

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"

	"lyricsync/internal/apperr"
)

// SaveCache and LoadCache persist a raw fingerprint pair — hash32 values
// alongside their matching t_frame offsets — to a side file keyed by
// track path rather than going through a Store backend. A quick way to
// re-index a library without re-running STFT+peak-picking on every
// track, at the cost of the two arrays going stale if the fingerprinting
// config changes.
//
// File layout: 4-byte count N, then N uint32 hash values, then N int32
// t_frame values, all little-endian.

func SaveCache(path string, hashes []uint32, tframes []int32) error {
	if len(hashes) != len(tframes) {
		return apperr.Storage("saving fingerprint cache", errMismatchedLengths)
	}

	f, err := os.Create(path)
	if err != nil {
		return apperr.Storage("creating cache file", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := binary.Write(w, binary.LittleEndian, uint32(len(hashes))); err != nil {
		return apperr.Storage("writing cache count", err)
	}
	if err := binary.Write(w, binary.LittleEndian, hashes); err != nil {
		return apperr.Storage("writing cache hashes", err)
	}
	if err := binary.Write(w, binary.LittleEndian, tframes); err != nil {
		return apperr.Storage("writing cache t_frames", err)
	}
	return w.Flush()
}

func LoadCache(path string) (hashes []uint32, tframes []int32, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, apperr.Storage("opening cache file", err)
	}
	defer f.Close()

	r := bufio.NewReader(f)
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, nil, apperr.Storage("reading cache count", err)
	}

	hashes = make([]uint32, n)
	if err := binary.Read(r, binary.LittleEndian, hashes); err != nil && err != io.EOF {
		return nil, nil, apperr.Storage("reading cache hashes", err)
	}

	tframes = make([]int32, n)
	if err := binary.Read(r, binary.LittleEndian, tframes); err != nil && err != io.EOF {
		return nil, nil, apperr.Storage("reading cache t_frames", err)
	}

	return hashes, tframes, nil
}

type cacheLengthError struct{}

func (cacheLengthError) Error() string { return "hashes and t_frames must be equal length" }

var errMismatchedLengths = cacheLengthError{}
