// Package watch reports debounced content changes to a fixed set of files,
// such as an assessment request and its evidence documents.
package watch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounceDelay is used when Config.DebounceDelay is zero.
const DefaultDebounceDelay = 200 * time.Millisecond

// Config configures the file watcher
type Config struct {
	// Paths are the files to watch. Their parent directories are watched so
	// that editors replacing a file by rename are still observed.
	Paths []string

	// DebounceDelay is how long to wait for more changes before reporting
	DebounceDelay time.Duration

	Logger *slog.Logger
}

// Event lists the watched files whose content changed or that disappeared
// during one debounce window.
type Event struct {
	Changed []string
	Removed []string
}

// Watcher watches files and emits debounced change events
type Watcher struct {
	debounce time.Duration
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
	tracked  map[string]bool

	pendingMu sync.Mutex
	pending   map[string]struct{}

	// hashes holds the last seen content hash per tracked file; only the
	// event loop touches it after Start.
	hashes map[string]string

	events  chan Event
	done    chan struct{}
	started bool
}

// New creates a watcher for cfg.Paths.
func New(cfg Config) (*Watcher, error) {
	if len(cfg.Paths) == 0 {
		return nil, errors.New("no paths to watch")
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	debounce := cfg.DebounceDelay
	if debounce <= 0 {
		debounce = DefaultDebounceDelay
	}

	tracked := make(map[string]bool, len(cfg.Paths))
	for _, p := range cfg.Paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			_ = fsw.Close()
			return nil, err
		}
		tracked[abs] = true
	}

	return &Watcher{
		debounce: debounce,
		watcher:  fsw,
		logger:   logger,
		tracked:  tracked,
		pending:  make(map[string]struct{}),
		hashes:   make(map[string]string),
		events:   make(chan Event, 16),
		done:     make(chan struct{}),
	}, nil
}

// Events returns the channel of change events. It is closed when the
// watcher stops.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Start records the current content of every tracked file and begins
// watching. The watcher stops when ctx is done.
func (w *Watcher) Start(ctx context.Context) error {
	dirs := make(map[string]bool)
	for p := range w.tracked {
		if hash, err := hashFile(p); err == nil {
			w.hashes[p] = hash
		}
		dirs[filepath.Dir(p)] = true
	}
	for dir := range dirs {
		if err := w.watcher.Add(dir); err != nil {
			return err
		}
		w.logger.Debug("Watching directory", "path", dir)
	}

	w.started = true
	go w.processEvents(ctx)

	w.logger.Info("File watcher started",
		"files", len(w.tracked),
		"debounce", w.debounce)
	return nil
}

// Stop stops the watcher and waits for the event loop to exit.
func (w *Watcher) Stop() error {
	err := w.watcher.Close()
	if w.started {
		<-w.done
	}
	return err
}

func (w *Watcher) processEvents(ctx context.Context) {
	defer close(w.done)
	defer close(w.events)

	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleFSEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("Watcher error", "error", err)

		case <-ticker.C:
			w.flushPending(ctx)
		}
	}
}

func (w *Watcher) handleFSEvent(event fsnotify.Event) {
	path, err := filepath.Abs(event.Name)
	if err != nil || !w.tracked[path] {
		return
	}
	if event.Op == fsnotify.Chmod {
		return
	}

	w.pendingMu.Lock()
	w.pending[path] = struct{}{}
	w.pendingMu.Unlock()

	w.logger.Debug("File change detected", "path", path, "op", event.Op.String())
}

func (w *Watcher) flushPending(ctx context.Context) {
	w.pendingMu.Lock()
	if len(w.pending) == 0 {
		w.pendingMu.Unlock()
		return
	}
	toProcess := w.pending
	w.pending = make(map[string]struct{})
	w.pendingMu.Unlock()

	var ev Event
	for path := range toProcess {
		hash, err := hashFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			if _, had := w.hashes[path]; had {
				delete(w.hashes, path)
				ev.Removed = append(ev.Removed, path)
			}
			continue
		}
		if err != nil {
			w.logger.Warn("Failed to read changed file", "path", path, "error", err)
			continue
		}
		if old, had := w.hashes[path]; had && old == hash {
			continue
		}
		w.hashes[path] = hash
		ev.Changed = append(ev.Changed, path)
	}
	if len(ev.Changed) == 0 && len(ev.Removed) == 0 {
		return
	}
	sort.Strings(ev.Changed)
	sort.Strings(ev.Removed)

	select {
	case w.events <- ev:
	case <-ctx.Done():
	}
}

func hashFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
