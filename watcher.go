package fswatch

import (
	"errors"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	// debounceWindow is the hard-coded suppression window for collapsing
	// structurally identical events arriving close together. Not exposed
	// as a configuration option; it always defaults to 100ms.
	debounceWindow = 100 * time.Millisecond

	// readBufferSize is sized for a few kilobytes, enough for several
	// maximally-sized records (16-byte prefix plus up to 255-byte name).
	readBufferSize = 4096
)

var (
	errNilCallback      = errors.New("fswatch: Run callback must not be nil")
	errCallbackPanicked = errors.New("fswatch: callback panicked")
)

// Callback is the function the engine dispatches surviving events to. No
// return value is interpreted; a panic terminates Run.
type Callback func(FileChangeEvent)

// Watcher is the engine object. It owns one kernel instance, one watch
// registry, a verbosity flag, and — for the duration of a Run call — a
// scratch read buffer and a one-slot debounce cache.
//
// A Watcher should not be copied; pass it by pointer.
type Watcher struct {
	kernel   *kernelInstance
	registry *registry
	logger   *logrus.Logger

	mu       sync.Mutex
	running  bool
	disposed bool
}

// New opens a kernel instance and returns an engine in the "armed, empty"
// state: ready to accept watches, not yet running. It fails if the
// underlying open_instance syscall fails.
func New() (*Watcher, error) {
	k, err := openInstance()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		kernel:   k,
		registry: newRegistry(),
		logger:   newLogger(),
	}, nil
}

// SetVerbose toggles diagnostic logging. Chainable.
func (w *Watcher) SetVerbose(verbose bool) *Watcher {
	if verbose {
		w.logger.SetLevel(logrus.DebugLevel)
	} else {
		w.logger.SetLevel(logrus.WarnLevel)
	}
	return w
}

// AddFilepath starts watching path, recursing into subdirectories when
// recursive is true. Chainable: a failure (the path doesn't exist, isn't a
// regular file or directory, or the kernel rejects the watch) is logged,
// not returned — the chainable signature has no room for an error.
func (w *Watcher) AddFilepath(path string, recursive bool) *Watcher {
	abs, err := normalize(path)
	if err != nil {
		w.logger.WithError(err).WithField("path", path).Warn("resolve path")
		return w
	}
	if err := w.addFilepath(abs, recursive); err != nil {
		w.logger.WithError(err).WithField("path", abs).Warn("add watch")
	}
	return w
}

// AddFilepaths iterates AddFilepath over paths. Chainable.
func (w *Watcher) AddFilepaths(paths []string, recursive bool) *Watcher {
	for _, p := range paths {
		w.AddFilepath(p, recursive)
	}
	return w
}

// RemoveFilepath stops watching path and everything below it. Chainable.
// Paths that were never watched are silently ignored.
func (w *Watcher) RemoveFilepath(path string) *Watcher {
	abs, err := normalize(path)
	if err != nil {
		w.logger.WithError(err).WithField("path", path).Warn("resolve path")
		return w
	}
	if err := w.removeFilepath(abs); err != nil {
		w.logger.WithError(err).WithField("path", abs).Warn("remove watch")
	}
	return w
}

// normalize resolves path to the absolute, trailing-separator-free form
// the registry requires.
func normalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.Clean(abs), nil
}

// Run enters a blocking loop: it reads raw events from the kernel, decodes
// and classifies them, performs watch-set post-processing and debouncing,
// then dispatches surviving events to callback. It returns when the
// process is interrupted, a kernel read fails fatally, or callback panics
// — and returns ErrInvalidState without blocking if the engine has been
// disposed, or if Run is already running.
func (w *Watcher) Run(callback Callback) error {
	if callback == nil {
		return wrapErr(KindInvalidState, errNilCallback)
	}

	w.mu.Lock()
	if w.disposed || w.running {
		w.mu.Unlock()
		return ErrInvalidState
	}
	w.running = true
	w.mu.Unlock()
	defer func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	defer signal.Stop(sigCh)

	stopped := make(chan struct{})
	var stopOnce sync.Once
	stop := func() {
		stopOnce.Do(func() {
			close(stopped)
			// Closing the kernel instance unblocks a pending blocking
			// read (kernel_linux.go wraps the fd in an *os.File for
			// exactly this reason). The resulting read error is expected
			// and is how we break out of the loop below.
			if err := w.kernel.close(); err != nil {
				w.logger.WithError(err).Debug("close kernel instance on stop")
			}
		})
	}

	go func() {
		select {
		case <-sigCh:
			w.logger.Warn("interrupted; stopping")
			stop()
		case <-stopped:
		}
	}()

	buf := make([]byte, readBufferSize)
	var last FileChangeEvent
	var haveLast bool

	for {
		for i := range buf {
			buf[i] = 0
		}

		n, err := w.kernel.readEvents(buf)
		if err != nil {
			select {
			case <-stopped:
				w.logger.Debug("run stopped by interrupt")
				return wrapErr(KindInterrupt, err)
			default:
			}
			w.logger.WithError(err).Error("fatal read failure; stopping")
			return err
		}
		if n <= 0 {
			w.logger.Error("read_events returned no data; stopping")
			return wrapErr(KindReadEventsFailed, nil)
		}

		events := decodeAndClassify(buf, n, w.registry, time.Now(), w.logger)
		for _, ev := range events {
			w.postProcess(ev)

			if haveLast && last.sameShape(ev) && ev.Timestamp.Sub(last.Timestamp) <= debounceWindow {
				w.logger.WithField("path", ev.Filepath).Debug("debounced")
				continue
			}

			if !w.dispatch(callback, ev) {
				stop()
				return wrapErr(KindCallbackPanic, errCallbackPanicked)
			}

			// Reset the timestamp on the last-dispatched slot to now, so
			// that time spent inside callback does not count against the
			// debounce window.
			ev.Timestamp = time.Now()
			last = ev
			haveLast = true
		}
	}
}

// postProcess keeps the watch set live in response to directory
// create/delete events: a newly created directory is watched
// non-recursively, and a deleted directory's descendant watches are
// dropped.
func (w *Watcher) postProcess(ev FileChangeEvent) {
	switch {
	case ev.EventType == Created && ev.FileType == fileTypeDir:
		if err := w.addFilepath(ev.Filepath, false); err != nil {
			w.logger.WithError(err).WithField("path", ev.Filepath).Warn("watch newly created directory")
		}
	case ev.EventType == Deleted && ev.FileType == fileTypeDir:
		if err := w.removeFilepath(ev.Filepath); err != nil {
			w.logger.WithError(err).WithField("path", ev.Filepath).Warn("clean up watches under deleted directory")
		}
	}
}

// dispatch invokes callback, recovering a panic so Run can convert it into
// a clean loop exit.
func (w *Watcher) dispatch(callback Callback, ev FileChangeEvent) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.WithField("panic", r).Error("callback panicked")
			ok = false
		}
	}()
	callback(ev)
	return true
}

// Dispose releases every descriptor and closes the kernel instance.
// Idempotent, and safe to call after Run has returned.
func (w *Watcher) Dispose() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.disposed {
		return
	}
	w.disposed = true

	for _, p := range w.registry.iterate() {
		if err := w.kernel.removeWatch(p.wd); err != nil {
			w.logger.WithError(err).WithField("path", p.path).Warn("remove watch during dispose")
		}
	}
	w.registry.clear()

	if err := w.kernel.close(); err != nil {
		w.logger.WithError(err).Warn("close kernel instance")
	}
}

// WatchList returns every absolute path currently holding a watch, in
// insertion order. Useful for tests and diagnostics.
func (w *Watcher) WatchList() []string {
	pairs := w.registry.iterate()
	out := make([]string, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, p.path)
	}
	return out
}
