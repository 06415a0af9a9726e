package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/dshills/editcontext/internal/logging"
)

// DefaultDebounce is how long the watcher waits for edits to settle.
const DefaultDebounce = 100 * time.Millisecond

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets the settle delay before a reload.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithWatcherLogger sets the watcher's logger.
func WithWatcherLogger(logger *log.Logger) WatcherOption {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithLookup sets the environment lookup used when reloading. The default
// is os.LookupEnv, matching Load.
func WithLookup(lookup LookupFunc) WatcherOption {
	return func(w *Watcher) {
		if lookup != nil {
			w.lookup = lookup
		}
	}
}

// Watcher reloads a config file when it changes.
//
// The containing directory is watched rather than the file itself so that
// editors which save by renaming a temporary file are still observed.
type Watcher struct {
	path     string
	fsw      *fsnotify.Watcher
	debounce time.Duration
	lookup   LookupFunc
	logger   *log.Logger

	updates chan *Config
	errors  chan error

	closeOnce sync.Once
	closeCh   chan struct{}
	wg        sync.WaitGroup
}

// NewWatcher starts watching the config file at path.
func NewWatcher(path string, opts ...WatcherOption) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving config path: %w", err)
	}

	w := &Watcher{
		path:     abs,
		debounce: DefaultDebounce,
		lookup:   os.LookupEnv,
		updates:  make(chan *Config, 1),
		errors:   make(chan error, 1),
		closeCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = logging.Discard()
	}
	w.logger = w.logger.With(logging.FieldComponent, "config", logging.FieldPath, abs)

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}
	w.fsw = fsw

	w.wg.Add(1)
	go w.processLoop()

	return w, nil
}

// Updates delivers each successfully reloaded configuration. Only the
// latest unread configuration is kept.
func (w *Watcher) Updates() <-chan *Config {
	return w.updates
}

// Errors delivers reload failures. Only the latest unread error is kept.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Close stops the watcher and closes its channels.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.closeCh)
		w.wg.Wait()
		close(w.updates)
		close(w.errors)
		err = w.fsw.Close()
	})
	return err
}

func (w *Watcher) processLoop() {
	defer w.wg.Done()

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-w.closeCh:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
			w.logger.Debug("config file changed", logging.FieldOp, ev.Op.String())
			timer.Reset(w.debounce)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("config watcher error", logging.FieldError, err)
			w.sendError(err)

		case <-timer.C:
			w.reload()
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != w.path {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename)
}

func (w *Watcher) reload() {
	cfg, err := LoadWithEnv(w.path, w.lookup)
	if err != nil {
		w.logger.Warn("config reload failed", logging.FieldError, err)
		w.sendError(err)
		return
	}
	w.logger.Info("config reloaded")

	select {
	case <-w.updates:
	default:
	}
	w.updates <- cfg
}

func (w *Watcher) sendError(err error) {
	select {
	case <-w.errors:
	default:
	}
	w.errors <- err
}
