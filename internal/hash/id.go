// Package hash provides the digests used to fingerprint containers and sections.
package hash

import (
	"encoding/hex"

	"github.com/cespare/xxhash/v2"
	"github.com/zeebo/blake3"
)

// Section computes the xxHash64 of a section's bytes. It is used to compare
// sections across a decode/encode round trip.
func Section(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// Source computes the hex-encoded BLAKE3-256 digest of a whole container.
func Source(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}
