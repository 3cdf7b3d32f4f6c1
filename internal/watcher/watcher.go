package watcher

import (
	"context"
	"log"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"commuteboard/internal/config"
	"commuteboard/internal/errors"
)

// Watcher hot-reloads the itinerary config when the YAML file changes. A
// rewrite that fails to load or validate keeps the previous configuration.
type Watcher struct {
	configPath string
	watcher    *fsnotify.Watcher
	onReload   func(*config.Config) error
}

// New creates a watcher for the given config file. The parent directory is
// watched as well, so atomic editor rewrites (write temp + rename) are seen.
func New(configPath string, onReload func(*config.Config) error) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fs watcher")
	}

	absPath, err := filepath.Abs(configPath)
	if err != nil {
		fsWatcher.Close()
		return nil, errors.Wrap(err, "failed to resolve config path")
	}

	if err := fsWatcher.Add(filepath.Dir(absPath)); err != nil {
		fsWatcher.Close()
		return nil, errors.Wrapf(err, "failed to watch %s", filepath.Dir(absPath))
	}
	if err := fsWatcher.Add(absPath); err != nil {
		// Directory watch still catches the interesting events.
		log.Printf("[Watcher] could not watch file directly: %v", err)
	}

	return &Watcher{
		configPath: absPath,
		watcher:    fsWatcher,
		onReload:   onReload,
	}, nil
}

// Run blocks, reloading on relevant events, until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	log.Printf("[Watcher] watching %s", w.configPath)

	for {
		select {
		case <-ctx.Done():
			return w.watcher.Close()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if w.relevant(event) {
				w.reload()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("[Watcher] error: %v", err)
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	eventPath, _ := filepath.Abs(event.Name)
	if eventPath != w.configPath {
		return false
	}
	return event.Op.Has(fsnotify.Write) || event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Chmod)
}

func (w *Watcher) reload() {
	log.Println("[Watcher] config file changed, reloading")

	cfg, err := config.Load(w.configPath)
	if err != nil {
		log.Printf("[Watcher] reload failed, keeping previous config: %v", err)
		return
	}
	if err := w.onReload(cfg); err != nil {
		log.Printf("[Watcher] failed to apply new config: %v", err)
		return
	}

	log.Println("[Watcher] config reloaded")
}
