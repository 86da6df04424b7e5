package providers

import (
	"github.com/samber/do/v2"

	"github.com/listenupapp/listenup-shelf/internal/config"
	"github.com/listenupapp/listenup-shelf/internal/logger"
	"github.com/listenupapp/listenup-shelf/internal/store"
)

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	*store.Store
}

// Shutdown implements do.ShutdownerWithError.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the item and library store.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	db, err := store.New(cfg.DBPath(), log.Logger)
	if err != nil {
		return nil, err
	}

	log.Debug("database opened", "path", cfg.DBPath())

	return &StoreHandle{Store: db}, nil
}
