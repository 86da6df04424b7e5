// Package id generates the prefixed identifiers minted on this device.
package id

import (
	"fmt"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Prefixes for each kind of id. Local items use "local" so that
// media.LibraryItem.IsLocal recognizes them.
const (
	PrefixLocalItem = "local"
	PrefixLocalFile = "file"
	PrefixLibrary   = "lib"
	PrefixFolder    = "fol"
)

// Generate creates a prefixed unique ID using NanoID.
// Format: prefix-nanoid (e.g., "lib-V1StGXR8_Z5jdHi6B-myT").
//
// Returns an error if the system has insufficient entropy for secure random generation.
func Generate(prefix string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// MustGenerate is like Generate but panics if ID generation fails.
func MustGenerate(prefix string) string {
	id, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return id
}

// LocalItem returns a new id for an item that exists only on this device.
func LocalItem() (string, error) { return Generate(PrefixLocalItem) }

// LocalFile returns a new id for a file discovered on this device.
func LocalFile() (string, error) { return Generate(PrefixLocalFile) }

// Library returns a new library id.
func Library() (string, error) { return Generate(PrefixLibrary) }

// Folder returns a new folder id.
func Folder() (string, error) { return Generate(PrefixFolder) }

// HasPrefix reports whether id was generated with prefix.
func HasPrefix(id, prefix string) bool {
	rest, ok := strings.CutPrefix(id, prefix+"-")
	return ok && len(rest) == 21
}
