package webextract

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
)

// Fingerprint identifies a (content, instruction) pair. It is the cache key
// for extraction results.
type Fingerprint string

// NewFingerprint returns the fingerprint of content and instruction.
// Both inputs are length-prefixed so that moving bytes between them always
// changes the digest.
func NewFingerprint(content, instruction string) Fingerprint {
	h := sha256.New()
	var n [8]byte
	binary.BigEndian.PutUint64(n[:], uint64(len(content)))
	h.Write(n[:])
	h.Write([]byte(content))
	binary.BigEndian.PutUint64(n[:], uint64(len(instruction)))
	h.Write(n[:])
	h.Write([]byte(instruction))
	return Fingerprint(hex.EncodeToString(h.Sum(nil)))
}

// Short returns an abbreviated fingerprint for log output.
func (f Fingerprint) Short() string {
	if len(f) <= 8 {
		return string(f)
	}
	return string(f[:8])
}
