package trace

import (
	"crypto/sha256"
	"encoding/hex"
)

// Digest returns the hex-encoded sha256 of b. Empty input yields "".
func Digest(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
