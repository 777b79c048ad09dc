// Package watcher provides debounced change notifications for a notes tree:
// rewrites of the registry file and projects appearing in or leaving either
// namespace root.
package watcher

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/zjrosen/pman/internal/log"
	"github.com/zjrosen/pman/internal/namespace"
)

// Watcher monitors a registry file and the namespace roots and sends
// notifications.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	registry  string
	roots     []string
	missing   map[string]bool // roots not created yet
	debounce  time.Duration
	onChange  chan struct{}
	done      chan struct{}
}

// Config holds watcher configuration options.
type Config struct {
	RegistryPath string
	// Roots are directories whose proj-* entries are tracked. The registry's
	// directory is always watched.
	Roots       []string
	DebounceDur time.Duration
}

// DefaultConfig returns sensible defaults for the watcher.
func DefaultConfig(registryPath string, roots ...string) Config {
	return Config{
		RegistryPath: registryPath,
		Roots:        roots,
		DebounceDur:  300 * time.Millisecond,
	}
}

// New creates a new registry watcher.
func New(cfg Config) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	roots := make([]string, 0, len(cfg.Roots))
	for _, r := range cfg.Roots {
		roots = append(roots, filepath.Clean(r))
	}

	return &Watcher{
		fsWatcher: fsw,
		registry:  filepath.Clean(cfg.RegistryPath),
		roots:     roots,
		missing:   make(map[string]bool),
		debounce:  cfg.DebounceDur,
		onChange:  make(chan struct{}, 1),
		done:      make(chan struct{}),
	}, nil
}

// Start begins watching. The registry is rewritten through a rename, so its
// directory is watched rather than the file. A root that does not exist yet
// is picked up once it appears; until then its nearest existing parent is
// watched. Returns a channel that receives a signal when the tree changes.
func (w *Watcher) Start() (<-chan struct{}, error) {
	dirs := []string{filepath.Dir(w.registry)}
	for _, r := range w.roots {
		if r != dirs[0] {
			dirs = append(dirs, r)
		}
	}
	for _, dir := range dirs {
		if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
			w.missing[dir] = true
			continue
		}
		if err := w.fsWatcher.Add(dir); err != nil {
			return nil, fmt.Errorf("watching directory %s: %w", dir, err)
		}
		log.Debug(log.CatWatcher, "Watching directory", "dir", dir)
	}
	if err := w.watchMissing(); err != nil {
		return nil, err
	}

	go w.loop()

	return w.onChange, nil
}

// watchMissing adds every missing root that now exists and watches the
// nearest existing parent of the rest.
func (w *Watcher) watchMissing() error {
	for dir := range w.missing {
		err := w.fsWatcher.Add(dir)
		if err == nil {
			delete(w.missing, dir)
			log.Debug(log.CatWatcher, "Watching directory", "dir", dir)
			continue
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("watching directory %s: %w", dir, err)
		}
		parent := existingParent(dir)
		if err := w.fsWatcher.Add(parent); err != nil {
			return fmt.Errorf("watching directory %s: %w", parent, err)
		}
		log.Debug(log.CatWatcher, "Waiting for directory", "dir", dir, "parent", parent)
	}
	return nil
}

// awaited reports whether name is a missing root or one of its parents.
func (w *Watcher) awaited(name string) bool {
	for dir := range w.missing {
		if dir == name || strings.HasPrefix(dir, name+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func existingParent(dir string) string {
	for {
		parent := filepath.Dir(dir)
		if parent == dir {
			return parent
		}
		if info, err := os.Stat(parent); err == nil && info.IsDir() {
			return parent
		}
		dir = parent
	}
}

// Stop terminates the watcher and releases resources.
func (w *Watcher) Stop() error {
	close(w.done)
	return w.fsWatcher.Close()
}

// loop processes file system events with debouncing.
func (w *Watcher) loop() {
	var (
		timer   *time.Timer
		pending bool
	)

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}

			relevant := w.isRelevantEvent(event)
			if event.Op&fsnotify.Create != 0 && w.awaited(filepath.Clean(event.Name)) {
				before := len(w.missing)
				if err := w.watchMissing(); err != nil {
					log.ErrorErr(log.CatWatcher, "Watch error", err)
				}
				// A root that appeared may already hold moved projects.
				relevant = relevant || len(w.missing) < before
			}
			if !relevant {
				continue
			}

			// Reset or start debounce timer
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			pending = true

		case <-func() <-chan time.Time {
			if timer != nil {
				return timer.C
			}
			return nil
		}():
			if pending {
				// Non-blocking send - drop if channel full
				select {
				case w.onChange <- struct{}{}:
				default:
				}
				pending = false
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.ErrorErr(log.CatWatcher, "Watch error", err)

		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

// isRelevantEvent checks if the event should trigger a refresh.
func (w *Watcher) isRelevantEvent(event fsnotify.Event) bool {
	name := filepath.Clean(event.Name)
	if name == w.registry {
		// Atomic rewrites land as Create (rename onto the path); appends as Write.
		return event.Op&(fsnotify.Write|fsnotify.Create) != 0
	}

	if event.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	dir := filepath.Dir(name)
	for _, r := range w.roots {
		if dir == r {
			return strings.HasPrefix(filepath.Base(name), namespace.DirPrefix)
		}
	}
	return false
}
