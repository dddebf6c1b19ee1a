package roster

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/afero"

	"github.com/Iron-Ham/dogfight/internal/dogfight"
	"github.com/Iron-Ham/dogfight/internal/logging"
)

// debounceInterval coalesces the burst of events editors emit for one save.
const debounceInterval = 50 * time.Millisecond

// Watcher keeps the latest valid roster from a file on disk. Edits that fail
// to load are logged and the previous roster stays current.
type Watcher struct {
	path    string
	fs      afero.Fs
	watcher *fsnotify.Watcher
	logger  *logging.Logger

	mu       sync.RWMutex
	current  []dogfight.ActorSpec
	onChange func([]dogfight.ActorSpec)

	stopCh   chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// NewWatcher loads path and starts watching it. The initial load must
// succeed. Call Stop to release the watch.
func NewWatcher(path string, logger *logging.Logger) (*Watcher, error) {
	if logger == nil {
		logger = logging.NopLogger()
	}
	path = filepath.Clean(path)

	fsys := afero.NewOsFs()
	specs, err := Load(fsys, path)
	if err != nil {
		return nil, err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create roster watcher: %w", err)
	}
	// Watch the directory: editors often replace the file instead of writing it.
	if err := fw.Add(filepath.Dir(path)); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}

	w := &Watcher{
		path:    path,
		fs:      fsys,
		watcher: fw,
		logger:  logger.With("roster_file", path),
		current: specs,
		stopCh:  make(chan struct{}),
		done:    make(chan struct{}),
	}
	go w.watchLoop()
	return w, nil
}

// Current returns a copy of the latest valid roster.
func (w *Watcher) Current() []dogfight.ActorSpec {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]dogfight.ActorSpec, len(w.current))
	copy(out, w.current)
	return out
}

// OnChange registers cb to run after each successful reload.
func (w *Watcher) OnChange(cb func([]dogfight.ActorSpec)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = cb
}

// Stop ends the watch. It is safe to call more than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		_ = w.watcher.Close()
		<-w.done
	})
}

func (w *Watcher) watchLoop() {
	defer close(w.done)

	debounce := time.NewTimer(0)
	<-debounce.C
	pending := false

	for {
		select {
		case <-w.stopCh:
			debounce.Stop()
			return

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			pending = true
			debounce.Reset(debounceInterval)

		case <-debounce.C:
			if pending {
				pending = false
				w.reload()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("roster watch error", "error", err.Error())
		}
	}
}

func (w *Watcher) reload() {
	specs, err := Load(w.fs, w.path)
	if err != nil {
		w.logger.Warn("roster reload failed, keeping previous roster", "error", err.Error())
		return
	}

	w.mu.Lock()
	w.current = specs
	cb := w.onChange
	w.mu.Unlock()

	w.logger.Info("roster reloaded", "actors", len(specs))
	if cb != nil {
		cb(specs)
	}
}
