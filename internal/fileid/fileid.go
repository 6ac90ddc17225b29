// Package fileid derives stable document IDs from file paths, so re-ingesting
// a watched file overwrites its previous chunks instead of duplicating them.
package fileid

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
)

const prefix = "file:"

// DocID returns a deterministic document ID for a file path. The path is
// cleaned first so trivially different spellings of the same location map to
// one ID.
func DocID(path string) string {
	sum := sha256.Sum256([]byte(filepath.Clean(path)))
	return prefix + hex.EncodeToString(sum[:])
}

// IsFileID reports whether id was produced by DocID.
func IsFileID(id string) bool {
	return len(id) > len(prefix) && id[:len(prefix)] == prefix
}
