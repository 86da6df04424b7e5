package store

import (
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// normalizePath makes equivalent spellings of a path share one index entry.
// macOS file systems hand out NFD names, so paths are compared in NFC.
func normalizePath(p string) string {
	return norm.NFC.String(filepath.Clean(p))
}

// normalizeName folds library names for case-insensitive lookup.
func normalizeName(name string) string {
	return strings.ToLower(norm.NFC.String(strings.TrimSpace(name)))
}
