package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/listenupapp/listenup-shelf/internal/media"
	"github.com/listenupapp/listenup-shelf/internal/search"
	"github.com/listenupapp/listenup-shelf/internal/store"
)

// SearchService bridges the search index with the store. It implements
// Indexer so LibraryService can keep documents current.
type SearchService struct {
	index  *search.SearchIndex
	store  *store.Store
	logger *slog.Logger
}

// NewSearchService creates a new search service.
func NewSearchService(index *search.SearchIndex, store *store.Store, logger *slog.Logger) *SearchService {
	return &SearchService{
		index:  index,
		store:  store,
		logger: orDiscard(logger),
	}
}

// Search runs a query against the index.
func (s *SearchService) Search(ctx context.Context, params search.SearchParams) (*search.SearchResult, error) {
	return s.index.Search(ctx, params)
}

// IndexItem replaces the documents of one item.
func (s *SearchService) IndexItem(_ context.Context, item *media.LibraryItem) error {
	if err := s.index.IndexItem(item); err != nil {
		return fmt.Errorf("index item %s: %w", item.ID, err)
	}
	s.logger.Debug("indexed item", "item_id", item.ID, "title", item.Title())
	return nil
}

// DeleteItem removes the documents of one item.
func (s *SearchService) DeleteItem(_ context.Context, itemID string) error {
	if err := s.index.DeleteItem(itemID); err != nil {
		return fmt.Errorf("unindex item %s: %w", itemID, err)
	}
	return nil
}

// DocumentCount returns the number of indexed documents.
func (s *SearchService) DocumentCount() (uint64, error) {
	return s.index.DocumentCount()
}

// ReindexAll rebuilds the entire search index from the store.
func (s *SearchService) ReindexAll(ctx context.Context) error {
	s.logger.Info("starting full reindex")

	if err := s.index.Rebuild(); err != nil {
		return fmt.Errorf("rebuild index: %w", err)
	}

	var docs []*search.SearchDocument
	items := 0
	for item, err := range s.store.ListItems(ctx) {
		if err != nil {
			return storeError(err, "list items")
		}
		docs = append(docs, search.ItemDocuments(item)...)
		items++
	}

	if len(docs) > 0 {
		if err := s.index.IndexDocuments(docs); err != nil {
			return fmt.Errorf("index items: %w", err)
		}
	}

	s.logger.Info("full reindex complete", "items", items, "documents", len(docs))
	return nil
}

// ReindexIfNeeded repopulates an empty index when the store already holds
// items, as after a mapping change. Reports whether a reindex ran.
func (s *SearchService) ReindexIfNeeded(ctx context.Context) (bool, error) {
	count, err := s.index.DocumentCount()
	if err != nil {
		return false, fmt.Errorf("count documents: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	items, err := s.store.CountItems(ctx)
	if err != nil {
		return false, storeError(err, "count items")
	}
	if items == 0 {
		return false, nil
	}

	s.logger.Info("search index is empty but items exist, reindexing", "item_count", items)
	return true, s.ReindexAll(ctx)
}
