package fswatch

import (
	"os"
	"path/filepath"
)

// addFilepath registers a watch on path (a regular file or a directory).
// When recursive is true and path is a directory, every existing directory
// below it is watched as well.
func (w *Watcher) addFilepath(path string, recursive bool) error {
	switch statPath(path) {
	case statusNonExisting:
		return wrapErr(KindTargetNotFound, os.ErrNotExist)
	case statusOther:
		return wrapErr(KindUnsupportedTarget, nil)
	case statusRegularFile:
		// A file whose parent directory is already watched is a no-op —
		// its events arrive through the parent's watch.
		parent := filepath.Dir(path)
		if w.registry.isWatched(parent) {
			return nil
		}
		if err := w.removeFilepath(path); err != nil {
			return err
		}
		return w.registerWatch(path, false)
	case statusDirectory:
		// Rebuild-idempotent: drop any existing watch on path or below it
		// before re-adding.
		if err := w.removeFilepath(path); err != nil && !isErrKind(err, KindTargetNotFound) {
			return err
		}
		if err := w.registerWatch(path, recursive); err != nil {
			return err
		}
		if !recursive {
			return nil
		}
		// Recurse into immediate child directories only; files are
		// covered by this directory's own watch.
		entries, err := os.ReadDir(path)
		if err != nil {
			// The directory existed a moment ago (statPath above); a race
			// (deleted between stat and readdir) is not fatal to the
			// overall add — just nothing more to recurse into.
			w.logger.WithError(err).Warn("list directory while adding recursive watch")
			return nil
		}
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			child := filepath.Join(path, entry.Name())
			if err := w.addFilepath(child, true); err != nil {
				w.logger.WithError(err).WithField("path", child).Warn("add watch on child directory")
			}
		}
		return nil
	default:
		return wrapErr(KindUnsupportedTarget, nil)
	}
}

// registerWatch asks the kernel for a fresh descriptor on path and inserts
// it into the registry. Any prior watch on path must already have been
// removed by the caller.
func (w *Watcher) registerWatch(path string, recursive bool) error {
	wd, err := w.kernel.addWatch(path)
	if err != nil {
		return err
	}
	w.registry.insert(wd, path)
	w.logger.WithField("path", path).Debug("watch added")
	return nil
}

// removeFilepath collects every descriptor whose path equals path or is a
// descendant of it, removes each from the kernel, and drops each from the
// registry. Paths never watched are silently ignored.
func (w *Watcher) removeFilepath(path string) error {
	wds := w.registry.descriptorsUnder(path)
	for _, wd := range wds {
		if err := w.kernel.removeWatch(wd); err != nil {
			w.logger.WithError(err).WithField("path", path).Warn("remove watch")
		}
		w.registry.remove(wd)
	}
	return nil
}

// isErrKind reports whether err is an *Error of the given kind.
func isErrKind(err error, kind ErrorKind) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == kind
}
