package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bassista/go_jsonupdate/internal/cache"
	"github.com/bassista/go_jsonupdate/internal/config"
	"github.com/bassista/go_jsonupdate/internal/jsonfile"
	"github.com/bassista/go_jsonupdate/internal/jsonupdate"
	"github.com/bassista/go_jsonupdate/internal/logger"
)

// ErrInvalidName is returned for document names that do not map to a JSON
// file inside the data directory.
var ErrInvalidName = errors.New("invalid document name")

// App is the application container (immutable dependencies + lifecycle context).
// It is not a request context; handlers should still use gin's request context.
type App struct {
	Config  *config.Config
	Updater *jsonupdate.Orchestrator
	// Cache is nil when caching is disabled.
	Cache cache.DocumentCache

	BaseCtx context.Context
	Cancel  context.CancelFunc
}

func New(cfg *config.Config, updater *jsonupdate.Orchestrator, store cache.DocumentCache) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if updater == nil {
		return nil, errors.New("updater is nil")
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &App{
		Config:  cfg,
		Updater: updater,
		Cache:   store,
		BaseCtx: ctx,
		Cancel:  cancel,
	}, nil
}

func (a *App) Shutdown() {
	if a == nil || a.Cancel == nil {
		return
	}
	a.Cancel()
}

// StartWatchers starts the data directory watcher that keeps the cache honest
// when files are edited outside the service.
func (a *App) StartWatchers() error {
	if a.Cache == nil {
		logger.WithComponent("app").Info("document cache disabled, not watching data dir")
		return nil
	}
	if _, err := cache.StartWatcher(a.BaseCtx, a.Config.Data.Dir, a.Config.Data.WatchDebounce, a.Cache); err != nil {
		return fmt.Errorf("cannot start data dir watcher: %w", err)
	}
	return nil
}

// WriteOptions returns the persist options configured for the data directory.
func (a *App) WriteOptions() jsonfile.WriteOptions {
	return a.Config.Data.WriteOptions()
}

// ResolvePath maps a document name such as "users/alice.json" to a file in
// the data directory. Names must be relative, stay inside the directory and
// end in .json.
func (a *App) ResolvePath(name string) (string, error) {
	name = strings.TrimPrefix(name, "/")
	if name == "" {
		return "", fmt.Errorf("%w: empty name", ErrInvalidName)
	}
	if !filepath.IsLocal(name) {
		return "", fmt.Errorf("%w: %q escapes the data directory", ErrInvalidName, name)
	}
	if !strings.EqualFold(filepath.Ext(name), ".json") {
		return "", fmt.Errorf("%w: %q is not a .json file", ErrInvalidName, name)
	}
	return filepath.Join(a.Config.Data.Dir, filepath.FromSlash(name)), nil
}
