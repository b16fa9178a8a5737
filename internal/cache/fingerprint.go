package cache

import (
	"encoding/hex"
	"fmt"
	"time"

	"golang.org/x/crypto/blake2b"
)

// qaPrefixLength is how much document text feeds the Q&A fingerprint.
const qaPrefixLength = 512

// Fingerprint derives a cache key from content-identifying file metadata.
// The key is deliberately based on name, size, and modification time rather
// than file contents: a file whose bytes change without touching its
// metadata will produce a stale hit. This is an accepted limitation traded
// for not re-reading large files on every request.
func Fingerprint(name string, size int64, modTime time.Time) string {
	return hashKey(fmt.Sprintf("%s|%d|%d", name, size, modTime.UnixNano()))
}

// QAFingerprint derives a cache key for question-answering context reuse
// from the company name and a prefix of the normalized text.
func QAFingerprint(company, text string) string {
	if len(text) > qaPrefixLength {
		text = text[:qaPrefixLength]
	}
	return hashKey(company + "|" + text)
}

// hashKey hashes an identity string into a fixed-length hex key.
func hashKey(identity string) string {
	sum := blake2b.Sum256([]byte(identity))
	return hex.EncodeToString(sum[:])
}
