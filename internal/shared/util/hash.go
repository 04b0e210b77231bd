package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashClientKey returns an opaque identifier for a client address so raw IPs are never stored.
func HashClientKey(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
