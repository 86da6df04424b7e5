package providers

import (
	"github.com/samber/do/v2"

	"github.com/listenupapp/listenup-shelf/internal/logger"
	"github.com/listenupapp/listenup-shelf/internal/service"
)

// ProvideLibraryService provides the library service. Changes are indexed
// only when search is enabled.
func ProvideLibraryService(i do.Injector) (*service.LibraryService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	searchService := do.MustInvoke[*service.SearchService](i)
	log := do.MustInvoke[*logger.Logger](i)

	var indexer service.Indexer
	if searchService != nil {
		indexer = searchService
	}

	return service.NewLibraryService(storeHandle.Store, indexer, log.Logger), nil
}
