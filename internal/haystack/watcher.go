package haystack

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	gserrors "github.com/graphseek/graphseek/internal/errors"
)

// DefaultDebounceWindow coalesces the event bursts editors produce when
// saving a file.
const DefaultDebounceWindow = 500 * time.Millisecond

// Watcher observes a knowledge-graph directory and invokes onChange
// once per debounced burst of filesystem events. Rapid saves collapse
// into a single reload.
type Watcher struct {
	dir      string
	window   time.Duration
	onChange func()
	logger   *slog.Logger

	fsw *fsnotify.Watcher

	mu    sync.Mutex
	timer *time.Timer
}

// NewWatcher watches dir. A window of zero uses DefaultDebounceWindow;
// a nil logger falls back to slog.Default.
func NewWatcher(dir string, window time.Duration, onChange func(), logger *slog.Logger) (*Watcher, error) {
	if window <= 0 {
		window = DefaultDebounceWindow
	}
	if logger == nil {
		logger = slog.Default()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, gserrors.Wrap(gserrors.ErrCodeSourceUnavailable, err)
	}
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, gserrors.Wrap(gserrors.ErrCodeSourceUnavailable, err).
			WithDetail("dir", dir)
	}

	return &Watcher{
		dir:      dir,
		window:   window,
		onChange: onChange,
		logger:   logger,
		fsw:      fsw,
	}, nil
}

// Run consumes filesystem events until ctx ends or the watcher is
// closed. Blocking; callers run it in a goroutine.
func (w *Watcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			w.logger.Debug("knowledge graph changed",
				slog.String("path", event.Name),
				slog.String("op", event.Op.String()))
			w.schedule()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher error", slog.String("error", err.Error()))
		}
	}
}

// schedule restarts the debounce timer; onChange fires once the window
// passes without further events.
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.window, w.onChange)
}

// Close stops watching. Safe to call once Run has returned or while it
// is still running.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	return w.fsw.Close()
}
