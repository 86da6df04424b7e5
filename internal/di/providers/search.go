package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/listenupapp/listenup-shelf/internal/config"
	"github.com/listenupapp/listenup-shelf/internal/logger"
	"github.com/listenupapp/listenup-shelf/internal/search"
	"github.com/listenupapp/listenup-shelf/internal/service"
)

// SearchIndexHandle wraps the search index with shutdown capability.
// SearchIndex is nil when search is disabled.
type SearchIndexHandle struct {
	*search.SearchIndex
}

// Shutdown implements do.ShutdownerWithError.
func (h *SearchIndexHandle) Shutdown() error {
	if h.SearchIndex == nil {
		return nil
	}
	return h.Close()
}

// ProvideSearchIndex provides the Bleve search index.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if !cfg.Search.Enabled {
		log.Debug("search disabled")
		return &SearchIndexHandle{}, nil
	}

	index, err := search.NewSearchIndex(search.Options{
		DataPath: cfg.IndexPath(),
		Logger:   log.Logger,
	})
	if err != nil {
		return nil, err
	}

	docCount, _ := index.DocumentCount()
	log.Debug("search index ready", "documents", docCount, "created", index.Fresh())

	return &SearchIndexHandle{SearchIndex: index}, nil
}

// ProvideSearchService provides the search service, or nil when search is
// disabled.
func ProvideSearchService(i do.Injector) (*service.SearchService, error) {
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	if indexHandle.SearchIndex == nil {
		return nil, nil
	}

	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSearchService(indexHandle.SearchIndex, storeHandle.Store, log.Logger), nil
}

// ReindexSearchIfNeeded fills an empty index from the store, as after a
// mapping change wiped it.
func ReindexSearchIfNeeded(i do.Injector) error {
	searchService := do.MustInvoke[*service.SearchService](i)
	if searchService == nil {
		return nil
	}
	log := do.MustInvoke[*logger.Logger](i)

	ctx, cancel := context.WithTimeout(context.Background(), reindexTimeout)
	defer cancel()

	ran, err := searchService.ReindexIfNeeded(ctx)
	if err != nil {
		return err
	}
	if ran {
		count, _ := searchService.DocumentCount()
		log.Info("search index rebuilt from store", "documents", count)
	}
	return nil
}
