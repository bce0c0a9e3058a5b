// Package trackid derives stable track identifiers from a track's audio
// file path.
package trackid

import (
	"crypto/sha1"
	"encoding/hex"
)

// From returns "trk_" followed by the first 12 hex characters of the
// SHA-1 digest of audioPath's UTF-8 bytes. Identical paths always derive
// the same id; a renamed or moved file derives a different one.
func From(audioPath string) string {
	sum := sha1.Sum([]byte(audioPath))
	return "trk_" + hex.EncodeToString(sum[:])[:12]
}
