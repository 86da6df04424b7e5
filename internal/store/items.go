package store

import (
	"context"
	"iter"

	"github.com/listenupapp/listenup-shelf/internal/media"
)

// SaveItem creates or replaces an item and reports whether it was new.
// Fails with ErrAlreadyExists when another item already has the same path.
func (s *Store) SaveItem(ctx context.Context, item *media.LibraryItem) (bool, error) {
	return s.Items.Save(ctx, item.ID, item)
}

// GetItem returns the item with the given id.
func (s *Store) GetItem(ctx context.Context, id string) (*media.LibraryItem, error) {
	return s.Items.Get(ctx, id)
}

// GetItemByPath returns the item stored at path.
func (s *Store) GetItemByPath(ctx context.Context, path string) (*media.LibraryItem, error) {
	return s.Items.GetByIndex(ctx, "path", path)
}

// DeleteItem removes the item. Deleting a missing item is not an error.
func (s *Store) DeleteItem(ctx context.Context, id string) error {
	return s.Items.Delete(ctx, id)
}

// ListItems iterates over every item in id order.
func (s *Store) ListItems(ctx context.Context) iter.Seq2[*media.LibraryItem, error] {
	return s.Items.List(ctx)
}

// ListItemsInLibrary returns the items of one library, in id order.
func (s *Store) ListItemsInLibrary(ctx context.Context, libraryID string) ([]*media.LibraryItem, error) {
	var items []*media.LibraryItem
	for item, err := range s.Items.List(ctx) {
		if err != nil {
			return nil, err
		}
		if item.LibraryID == libraryID {
			items = append(items, item)
		}
	}
	return items, nil
}

// PageItems returns one page of items.
func (s *Store) PageItems(ctx context.Context, params PaginationParams) (*PaginatedResult[*media.LibraryItem], error) {
	return s.Items.Page(ctx, params)
}

// CountItems returns the number of stored items.
func (s *Store) CountItems(ctx context.Context) (int, error) {
	return s.Items.Count(ctx)
}
