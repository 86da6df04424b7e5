// Package store persists library items and libraries in a Badger database.
package store

import (
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
	"github.com/listenupapp/listenup-shelf/internal/media"
)

// Key prefixes.
const (
	itemPrefix    = "item:"
	libraryPrefix = "library:"
)

// Store wraps a Badger database instance.
type Store struct {
	db     *badger.DB
	logger *slog.Logger

	Items     *Entity[media.LibraryItem]
	Libraries *Entity[media.Library]
}

// New opens (or creates) the database at path.
func New(path string, logger *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil            // Disable Badger's internal logging
	opts.SyncWrites = true       // Ensure writes are synced to disk to prevent corruption on crashes
	opts.CompactL0OnClose = true // Compact L0 tables on close for faster startup

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := &Store{db: db, logger: logger}
	s.initItems()
	s.initLibraries()

	logger.Debug("badger database opened", "path", path)
	return s, nil
}

// Close gracefully closes the database connection.
func (s *Store) Close() error {
	s.logger.Debug("closing database")
	return s.db.Close()
}

// initItems stores items in their wire encoding so that a stored item decodes
// exactly like an imported one. Path is unique among items that have one.
func (s *Store) initItems() {
	s.Items = NewEntity[media.LibraryItem](s, itemPrefix).
		WithCodec(Codec[media.LibraryItem]{
			Marshal:   media.Encode,
			Unmarshal: media.Decode,
		}).
		WithIndexTransform("path", func(li *media.LibraryItem) []string {
			if li.Path == "" {
				return nil
			}
			return []string{normalizePath(li.Path)}
		}, normalizePath)
}

// initLibraries indexes libraries by case-insensitive name.
func (s *Store) initLibraries() {
	s.Libraries = NewEntity[media.Library](s, libraryPrefix).
		WithCodec(Codec[media.Library]{
			Marshal: JSONCodec[media.Library]().Marshal,
			Unmarshal: func(data []byte) (*media.Library, error) {
				return media.DecodeLibrary(data)
			},
		}).
		WithIndexTransform("name", func(l *media.Library) []string {
			if l.Name == "" {
				return nil
			}
			return []string{normalizeName(l.Name)}
		}, normalizeName)
}
