package main

import (
	"fmt"
	"os"

	"github.com/gofrs/flock"
	"github.com/samber/do/v2"

	"github.com/listenupapp/listenup-shelf/internal/config"
	"github.com/listenupapp/listenup-shelf/internal/di"
	domainerrors "github.com/listenupapp/listenup-shelf/internal/errors"
	"github.com/listenupapp/listenup-shelf/internal/logger"
	"github.com/listenupapp/listenup-shelf/internal/service"
)

type commandContext struct {
	flags *rootFlags
}

func newCommandContext(flags *rootFlags) *commandContext {
	return &commandContext{flags: flags}
}

// services are the collaborators a command works with. search is nil when
// the index is disabled.
type services struct {
	cfg     *config.Config
	log     *logger.Logger
	library *service.LibraryService
	search  *service.SearchService
}

func (c *commandContext) overrides() config.Overrides {
	o := config.Overrides{
		Environment: c.flags.env,
		LogLevel:    c.flags.logLevel,
		LogFormat:   c.flags.logFormat,
		DataPath:    c.flags.dataPath,
		EnvFile:     c.flags.envFile,
	}
	if c.flags.noSearch {
		o.SearchEnabled = "false"
	}
	return o
}

// withServices opens the data directory under an exclusive lock, runs fn
// and shuts everything down again. A second shelf process on the same
// directory fails fast instead of waiting.
func (c *commandContext) withServices(fn func(*services) error) (err error) {
	cfg, err := config.Load(c.overrides())
	if err != nil {
		return domainerrors.Wrap(err, domainerrors.CodeValidation, "load config")
	}

	if err := os.MkdirAll(cfg.Data.Path, 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	lock := flock.New(cfg.LockPath())
	ok, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return domainerrors.Conflictf("data directory %s is in use by another shelf process", cfg.Data.Path)
	}
	defer func() {
		_ = lock.Unlock()
	}()

	injector := di.NewContainer(c.overrides())
	defer func() {
		if shutdownErr := di.Shutdown(injector); shutdownErr != nil && err == nil {
			err = fmt.Errorf("shutdown: %w", shutdownErr)
		}
	}()

	if err := di.Bootstrap(injector); err != nil {
		return err
	}

	return fn(&services{
		cfg:     do.MustInvoke[*config.Config](injector),
		log:     do.MustInvoke[*logger.Logger](injector),
		library: do.MustInvoke[*service.LibraryService](injector),
		search:  do.MustInvoke[*service.SearchService](injector),
	})
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
