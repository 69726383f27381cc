package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// hashKey builds a cache key of the form "prefix:hexdigest" from the
// JSON encoding of parts. The full SHA-256 digest is kept; truncating it
// would trade key length for collision risk across unrelated documents.
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return prefix + ":" + Hash(data)
}

// Hash returns the SHA-256 digest of data as a 64-character hex string.
// It is the content hash used for models, layouts, and artifacts.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
