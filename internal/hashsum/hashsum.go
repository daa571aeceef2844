// Package hashsum computes the content hash used as the sole
// change-detection signal for incremental indexing: no mtimes, no
// file-size heuristics, just a digest of the bytes.
package hashsum

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash returns the 16-hex-character prefix of the SHA-256 digest of src.
func Hash(src []byte) string {
	sum := sha256.Sum256(src)
	return hex.EncodeToString(sum[:])[:16]
}
