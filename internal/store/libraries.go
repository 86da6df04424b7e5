package store

import (
	"context"

	"github.com/listenupapp/listenup-shelf/internal/media"
)

// SaveLibrary creates or replaces a library. Names are unique ignoring case.
func (s *Store) SaveLibrary(ctx context.Context, lib *media.Library) (bool, error) {
	return s.Libraries.Save(ctx, lib.ID, lib)
}

// GetLibrary returns the library with the given id.
func (s *Store) GetLibrary(ctx context.Context, id string) (*media.Library, error) {
	return s.Libraries.Get(ctx, id)
}

// GetLibraryByName returns the library with the given name, ignoring case.
func (s *Store) GetLibraryByName(ctx context.Context, name string) (*media.Library, error) {
	return s.Libraries.GetByIndex(ctx, "name", name)
}

// DeleteLibrary removes the library record. Its items are left in place.
func (s *Store) DeleteLibrary(ctx context.Context, id string) error {
	return s.Libraries.Delete(ctx, id)
}

// ListLibraries returns every library in id order.
func (s *Store) ListLibraries(ctx context.Context) ([]*media.Library, error) {
	var libs []*media.Library
	for lib, err := range s.Libraries.List(ctx) {
		if err != nil {
			return nil, err
		}
		libs = append(libs, lib)
	}
	return libs, nil
}
