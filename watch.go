// FILE: lixenwraith/envhanced/watch.go
package envhanced

import (
	"context"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

const DefaultMaxWatchers = 100 // Prevent resource exhaustion

// Events delivered on watch channels besides configuration names
const (
	EventPermissionsChanged = "permissions_changed"
	EventReloadTimeout      = "reload_timeout"
)

// WatchOptions configures file watching behavior
type WatchOptions struct {
	// PollInterval for file stat checks (minimum 100ms)
	PollInterval time.Duration

	// Debounce duration to avoid rapid reloads
	Debounce time.Duration

	// MaxWatchers limits concurrent watch channels
	MaxWatchers int

	// ReloadTimeout for reload operations
	ReloadTimeout time.Duration

	// VerifyPermissions reports group/other permission changes as
	// EventPermissionsChanged. A permission change alone does not reload.
	VerifyPermissions bool
}

// DefaultWatchOptions returns sensible defaults for file watching
func DefaultWatchOptions() WatchOptions {
	return WatchOptions{
		PollInterval:      DefaultPollInterval,
		Debounce:          DefaultDebounce,
		MaxWatchers:       DefaultMaxWatchers,
		ReloadTimeout:     DefaultReloadTimeout,
		VerifyPermissions: true,
	}
}

// fileState is the last observed stat of one watched file
type fileState struct {
	exists  bool
	modTime time.Time
	size    int64
	mode    os.FileMode
}

// watcher polls the dotenv files of a Store
type watcher struct {
	mu               sync.RWMutex
	ctx              context.Context
	cancel           context.CancelFunc
	opts             WatchOptions
	logger           *zap.Logger
	paths            []string
	states           map[string]fileState
	watching         atomic.Bool
	reloadInProgress atomic.Bool
	watchers         map[int64]chan string // subscriber channels
	watcherID        atomic.Int64
	debounceTimer    *time.Timer
}

// AutoUpdate enables automatic reloading when any of the dotenv files changes
func (s *Store) AutoUpdate() {
	s.AutoUpdateWithOptions(DefaultWatchOptions())
}

// AutoUpdateWithOptions enables automatic reloading with custom options.
// Calling it while a watcher is running keeps the existing watcher.
func (s *Store) AutoUpdateWithOptions(opts WatchOptions) {
	if opts.PollInterval < MinPollInterval {
		opts.PollInterval = MinPollInterval
	}
	if opts.MaxWatchers <= 0 {
		opts.MaxWatchers = DefaultMaxWatchers
	}
	if opts.ReloadTimeout <= 0 {
		opts.ReloadTimeout = DefaultReloadTimeout
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.watcher != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &watcher{
		ctx:      ctx,
		cancel:   cancel,
		opts:     opts,
		logger:   s.logger,
		states:   make(map[string]fileState),
		watchers: make(map[int64]chan string),
	}
	for _, source := range fileSources {
		path := s.opts.Path(source)
		w.paths = append(w.paths, path)
		w.states[path] = statFile(path)
	}
	s.watcher = w

	go w.watchLoop(s)
}

// StopAutoUpdate stops automatic reloading and closes all watch channels
func (s *Store) StopAutoUpdate() {
	s.mutex.Lock()
	w := s.watcher
	s.watcher = nil
	s.mutex.Unlock()

	if w != nil {
		w.stop()
	}
}

// Watch returns a channel that receives the names of changed settings.
// Starts auto-update with default options if it is not running.
func (s *Store) Watch() <-chan string {
	return s.WatchWithOptions(DefaultWatchOptions())
}

// WatchWithOptions is Watch with custom options for a newly started watcher
func (s *Store) WatchWithOptions(opts WatchOptions) <-chan string {
	s.AutoUpdateWithOptions(opts)

	s.mutex.RLock()
	w := s.watcher
	s.mutex.RUnlock()

	if w == nil {
		ch := make(chan string)
		close(ch)
		return ch
	}

	return w.subscribe()
}

// IsWatching returns true if auto-update is enabled
func (s *Store) IsWatching() bool {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.watcher != nil && s.watcher.watching.Load()
}

// WatcherCount returns the number of active watch channels
func (s *Store) WatcherCount() int {
	s.mutex.RLock()
	w := s.watcher
	s.mutex.RUnlock()

	if w == nil {
		return 0
	}

	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.watchers)
}

// watchLoop is the main file watching loop
func (w *watcher) watchLoop(s *Store) {
	if !w.watching.CompareAndSwap(false, true) {
		return // Already watching
	}
	defer w.watching.Store(false)

	ticker := time.NewTicker(w.opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			w.checkAndReload(s)
		}
	}
}

// checkAndReload compares each file with its last state and schedules a reload
func (w *watcher) checkAndReload(s *Store) {
	changed := false

	for _, path := range w.paths {
		current := statFile(path)
		last := w.states[path]
		contentChanged := current.exists != last.exists ||
			!current.modTime.Equal(last.modTime) || current.size != last.size

		if w.opts.VerifyPermissions && last.exists && current.exists && last.mode != 0 {
			if (current.mode & 0077) != (last.mode & 0077) {
				// A bare group/other permission change does not trigger a reload
				w.logger.Warn("config file permissions changed", zap.String("path", path),
					zap.Stringer("old", last.mode), zap.Stringer("new", current.mode))
				w.states[path] = current
				w.notifyWatchers(EventPermissionsChanged)
			}
		}

		if contentChanged {
			w.states[path] = current
			changed = true
		}
	}

	if !changed {
		return
	}

	// Debounce rapid changes
	w.mu.Lock()
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.opts.Debounce, func() {
		w.performReload(s)
	})
	w.mu.Unlock()
}

// performReload reloads the store and notifies the names whose raw value changed
func (w *watcher) performReload(s *Store) {
	// Prevent concurrent reloads
	if !w.reloadInProgress.CompareAndSwap(false, true) {
		return
	}
	defer w.reloadInProgress.Store(false)

	ctx, cancel := context.WithTimeout(w.ctx, w.opts.ReloadTimeout)
	defer cancel()

	oldValues := s.snapshot()

	done := make(chan struct{})
	go func() {
		s.Reload()
		close(done)
	}()

	select {
	case <-done:
		newValues := s.snapshot()
		for name, newVal := range newValues {
			if oldVal, existed := oldValues[name]; !existed || oldVal.raw != newVal.raw {
				w.notifyWatchers(name)
			}
		}
		for name := range oldValues {
			if _, exists := newValues[name]; !exists {
				w.notifyWatchers(name)
			}
		}

	case <-ctx.Done():
		if w.ctx.Err() != nil {
			return // Stopped
		}
		w.logger.Warn("config reload timed out", zap.Duration("timeout", w.opts.ReloadTimeout))
		w.notifyWatchers(EventReloadTimeout)
	}
}

// subscribe creates a new watcher channel
func (w *watcher) subscribe() <-chan string {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(w.watchers) >= w.opts.MaxWatchers || w.ctx.Err() != nil {
		ch := make(chan string)
		close(ch)
		return ch
	}

	// Buffered so a slow subscriber does not block reloads
	ch := make(chan string, 10)
	id := w.watcherID.Add(1)
	w.watchers[id] = ch

	go func() {
		<-w.ctx.Done()
		w.mu.Lock()
		delete(w.watchers, id)
		close(ch)
		w.mu.Unlock()
	}()

	return ch
}

// notifyWatchers sends a change notification to all subscribers, dropping it for full channels
func (w *watcher) notifyWatchers(name string) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.ctx.Err() != nil {
		return
	}

	for _, ch := range w.watchers {
		select {
		case ch <- name:
		default:
		}
	}
}

// stop terminates the watcher
func (w *watcher) stop() {
	// Hold the lock so no notification races the channel close
	w.mu.Lock()
	w.cancel()
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
		w.debounceTimer = nil
	}
	w.mu.Unlock()

	// Wait for watch loop to exit with timeout
	deadline := time.Now().Add(ShutdownTimeout)
	for w.watching.Load() && time.Now().Before(deadline) {
		time.Sleep(SpinWaitInterval)
	}
}

func statFile(path string) fileState {
	info, err := os.Stat(path)
	if err != nil {
		return fileState{}
	}
	return fileState{
		exists:  true,
		modTime: info.ModTime(),
		size:    info.Size(),
		mode:    info.Mode(),
	}
}
