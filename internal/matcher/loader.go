package matcher

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"inkpick/internal/logging"
)

// reloadDebounce is how long the data file must stay quiet after a write
// before it is reloaded.
const reloadDebounce = 200 * time.Millisecond

// Loader performs the one-time asynchronous load of the matcher's backing
// data. Until the load finishes, Matcher reports not-ready and the
// recompute graph stays inert; drawing and editing keep working and
// accumulate strokes for later recomputation. A load failure is logged
// and leaves the loader permanently not-ready; it never reaches the UI.
//
// With Watch enabled the data file is reloaded on change and the matcher
// swapped in atomically.
type Loader struct {
	mu      sync.Mutex
	path    string
	log     *logging.Logger
	m       *MedianMatcher
	err     error
	ready   bool
	onReady []func()

	watcher *fsnotify.Watcher
	done    chan struct{}
	wg      sync.WaitGroup
}

// NewLoader creates a loader for the given character data file.
func NewLoader(path string, log *logging.Logger) *Loader {
	if log == nil {
		log = logging.Default()
	}
	return &Loader{
		path: path,
		log:  log.WithComponent("matcher"),
		done: make(chan struct{}),
	}
}

// Start kicks off the load in the background and returns immediately.
func (l *Loader) Start() {
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		l.load(true)
	}()
}

func (l *Loader) load(initial bool) {
	start := time.Now()
	m, err := LoadFile(l.path)

	l.mu.Lock()
	if err != nil {
		l.err = err
		l.mu.Unlock()
		if initial {
			l.log.Error("character data load failed, matching disabled",
				"path", l.path, "error", err)
		} else {
			l.log.Warn("character data reload failed, keeping previous data",
				"path", l.path, "error", err)
		}
		return
	}
	l.m = m
	l.err = nil
	becameReady := !l.ready
	l.ready = true
	var cbs []func()
	if becameReady {
		cbs = append(cbs, l.onReady...)
	}
	l.mu.Unlock()

	l.log.Info("character data loaded",
		"path", l.path, "characters", m.Len(), "elapsed", time.Since(start))
	for _, fn := range cbs {
		fn()
	}
}

// Matcher returns the loaded matcher, or false while loading or after a
// failed load. Satisfies the recompute graph's Provider interface.
func (l *Loader) Matcher() (Matcher, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.ready {
		return nil, false
	}
	return l.m, true
}

// Err returns the most recent load error, if any.
func (l *Loader) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

// OnReady registers a callback fired once, when the matcher first becomes
// available. If it already is, the callback runs immediately.
func (l *Loader) OnReady(fn func()) {
	l.mu.Lock()
	if l.ready {
		l.mu.Unlock()
		fn()
		return
	}
	l.onReady = append(l.onReady, fn)
	l.mu.Unlock()
}

// Watch reloads the data file whenever it changes on disk. The containing
// directory is watched so editors that replace the file atomically are
// still seen.
func (l *Loader) Watch() error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	dir := filepath.Dir(l.path)
	if err := w.Add(dir); err != nil {
		w.Close()
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	l.mu.Lock()
	l.watcher = w
	l.mu.Unlock()

	l.wg.Add(1)
	go l.watchLoop(w)
	return nil
}

func (l *Loader) watchLoop(w *fsnotify.Watcher) {
	defer l.wg.Done()

	var timer *time.Timer
	var timerC <-chan time.Time
	base := filepath.Base(l.path)

	for {
		select {
		case <-l.done:
			if timer != nil {
				timer.Stop()
			}
			return
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != base {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(reloadDebounce)
				timerC = timer.C
			} else {
				timer.Reset(reloadDebounce)
			}
		case <-timerC:
			l.log.Debug("character data changed, reloading", "path", l.path)
			l.load(false)
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			l.log.Warn("character data watch error", "error", err)
		}
	}
}

// Close stops the watcher, if any, and waits for background work.
func (l *Loader) Close() error {
	l.mu.Lock()
	w := l.watcher
	l.watcher = nil
	l.mu.Unlock()

	select {
	case <-l.done:
	default:
		close(l.done)
	}
	var err error
	if w != nil {
		err = w.Close()
	}
	l.wg.Wait()
	return err
}
