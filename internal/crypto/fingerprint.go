package crypto

import (
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint returns a short identifier for a public key: the first
// 10 bytes of its SHA-256, hex encoded. For out-of-band comparison by
// humans, never as key material.
func Fingerprint(pub []byte) string {
	sum := sha256.Sum256(pub)
	return hex.EncodeToString(sum[:10])
}
