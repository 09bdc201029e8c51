package domain

import (
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint is a deterministic content hash of a document's raw bytes,
// rendered as lowercase hex. Byte-identical documents produce identical
// fingerprints regardless of filename or upload time; the fingerprint is
// the sole deduplication key.
type Fingerprint string

// NewFingerprint hashes raw document bytes.
func NewFingerprint(raw []byte) Fingerprint {
	sum := sha256.Sum256(raw)
	return Fingerprint(hex.EncodeToString(sum[:]))
}

func (f Fingerprint) String() string { return string(f) }
