// Package di provides dependency injection configuration for the shelf.
package di

import (
	"github.com/samber/do/v2"

	"github.com/listenupapp/listenup-shelf/internal/config"
	"github.com/listenupapp/listenup-shelf/internal/di/providers"
	"github.com/listenupapp/listenup-shelf/internal/logger"
	"github.com/listenupapp/listenup-shelf/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
// overrides take precedence over the environment when the config loads.
func NewContainer(overrides config.Overrides) *do.RootScope {
	injector := do.New()

	do.ProvideValue(injector, overrides)

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Storage layer
	do.Provide(injector, providers.ProvideStore)

	// Search layer
	do.Provide(injector, providers.ProvideSearchIndex)
	do.Provide(injector, providers.ProvideSearchService)

	// Business services
	do.Provide(injector, providers.ProvideLibraryService)

	return injector
}

// Bootstrap initializes all services and repopulates the search index when
// it is empty. Provider failures surface here instead of panicking later.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*logger.Logger](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.StoreHandle](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.SearchIndexHandle](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*service.SearchService](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*service.LibraryService](injector); err != nil {
		return err
	}

	return providers.ReindexSearchIfNeeded(injector)
}

// Shutdown closes every service that holds resources, in reverse order of
// creation.
func Shutdown(injector *do.RootScope) error {
	report := injector.Shutdown()
	if report == nil || report.Succeed {
		return nil
	}
	return report
}
