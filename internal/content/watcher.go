package content

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"servertrain/internal/logging"

	"github.com/fsnotify/fsnotify"
)

// ErrWatcherClosed is returned by Start after Stop.
var ErrWatcherClosed = errors.New("content watcher is closed")

// DefaultDebounce is how long the watcher waits after the last change
// before reloading.
const DefaultDebounce = 300 * time.Millisecond

// Watcher reloads a Store when files in its content directory change.
// Bursts of events (editors saving through temp files) collapse into one reload.
type Watcher struct {
	mu          sync.Mutex
	watcher     *fsnotify.Watcher
	store       *Store
	debounceDur time.Duration
	onReload    func(error)
	pending     bool
	lastEvent   time.Time
	stopCh      chan struct{}
	doneCh      chan struct{}
	running     bool
	closed      bool

	stats WatcherStats
}

// WatcherStats tracks watcher activity.
type WatcherStats struct {
	Events        int
	Reloads       int
	ReloadErrors  int
	LastEventPath string
	LastReload    time.Time
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounceDur = d
		}
	}
}

// OnReload registers a callback run after every reload attempt.
func OnReload(fn func(error)) WatcherOption {
	return func(w *Watcher) { w.onReload = fn }
}

// NewWatcher creates a watcher for store's directory.
func NewWatcher(store *Store, opts ...WatcherOption) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		watcher:     fw,
		store:       store,
		debounceDur: DefaultDebounce,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Start watches the content directory and its modules directory.
// It does not block. A stopped watcher cannot be restarted.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrWatcherClosed
	}
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := w.watcher.Add(w.store.Dir()); err != nil {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		return err
	}
	modules := filepath.Join(w.store.Dir(), ModulesDir)
	if err := w.watcher.Add(modules); err != nil {
		logging.ContentWarn("watcher: cannot watch %s: %v", modules, err)
	}
	logging.Content("watcher: watching %s", w.store.Dir())

	go w.run(ctx)
	return nil
}

// Stop stops the watcher and waits for its goroutine to exit. Calling it
// again is a no-op.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	wasRunning := w.running
	w.running = false
	w.mu.Unlock()

	if wasRunning {
		close(w.stopCh)
		<-w.doneCh
	}
	if err := w.watcher.Close(); err != nil {
		logging.ContentWarn("watcher: close failed: %v", err)
	}
}

// Stats returns a copy of the watcher counters.
func (w *Watcher) Stats() WatcherStats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	tick := w.debounceDur / 4
	if tick < 10*time.Millisecond {
		tick = 10 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.ContentWarn("watcher: %v", err)
		case <-ticker.C:
			w.flush()
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !relevant(event.Name) {
		return
	}
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}

	// A modules directory created after Start needs its own watch.
	if event.Op&fsnotify.Create != 0 && filepath.Base(event.Name) == ModulesDir {
		_ = w.watcher.Add(event.Name)
	}

	w.mu.Lock()
	w.pending = true
	w.lastEvent = time.Now()
	w.stats.Events++
	w.stats.LastEventPath = event.Name
	w.mu.Unlock()
}

func (w *Watcher) flush() {
	w.mu.Lock()
	if !w.pending || time.Since(w.lastEvent) < w.debounceDur {
		w.mu.Unlock()
		return
	}
	w.pending = false
	w.mu.Unlock()

	err := w.store.Reload()

	w.mu.Lock()
	w.stats.Reloads++
	w.stats.LastReload = time.Now()
	if err != nil {
		w.stats.ReloadErrors++
	}
	w.mu.Unlock()

	if err != nil {
		logging.ContentWarn("reload failed, keeping previous content: %v", err)
	} else {
		logging.Content("watcher: content generation %d loaded at %s", w.store.Generation(), w.store.LoadedAt().Format(time.RFC3339))
	}
	if w.onReload != nil {
		w.onReload(err)
	}
}

func relevant(name string) bool {
	base := filepath.Base(name)
	if base == ModulesDir {
		return true
	}
	if strings.HasPrefix(base, ".") {
		return false
	}
	return strings.HasSuffix(base, ".json") || base == CatalogFile
}
