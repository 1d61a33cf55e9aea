//go:build linux

package fswatch

import (
	"os"

	"golang.org/x/sys/unix"
)

// watchMask is the bitwise-OR of event bits the engine requests on every
// watch. It never varies per call: the classification taxonomy this engine
// exposes (created/deleted/changed/changed-attribs) is fixed and coarser
// than the raw inotify mask space, so there is no per-call mask option.
const watchMask = unix.IN_MODIFY |
	unix.IN_ATTRIB |
	unix.IN_MOVED_FROM |
	unix.IN_MOVED_TO |
	unix.IN_CREATE |
	unix.IN_DELETE |
	unix.IN_DELETE_SELF |
	unix.IN_MOVE_SELF |
	unix.IN_DONT_FOLLOW

// kernelInstance is a thin, one-to-one wrapper over the five inotify
// syscalls the engine needs: init, add watch, remove watch, read, close.
type kernelInstance struct {
	fd   int
	file *os.File // wraps fd so Close() unblocks a pending Read
}

// openInstance mirrors inotify_init1(2). The fd is opened non-blocking:
// that is what lets os.File's Read be interrupted by a concurrent Close
// instead of blocking forever.
func openInstance() (*kernelInstance, error) {
	fd, err := unix.InotifyInit1(unix.IN_CLOEXEC | unix.IN_NONBLOCK)
	if fd == -1 {
		return nil, wrapErr(KindKernelInstanceOpen, err)
	}
	return &kernelInstance{
		fd:   fd,
		file: os.NewFile(uintptr(fd), "inotify"),
	}, nil
}

// addWatch mirrors inotify_add_watch(2) with the engine's fixed mask.
func (k *kernelInstance) addWatch(path string) (descriptor, error) {
	wd, err := unix.InotifyAddWatch(k.fd, path, watchMask)
	if wd == -1 {
		return 0, wrapErr(KindAddWatchFailed, err)
	}
	return descriptor(wd), nil
}

// removeWatch mirrors inotify_rm_watch(2).
func (k *kernelInstance) removeWatch(wd descriptor) error {
	_, err := unix.InotifyRmWatch(k.fd, uint32(wd))
	if err != nil {
		return wrapErr(KindRemoveWatchFailed, err)
	}
	return nil
}

// readEvents blocks until at least one event is available, filling buf
// with one or more packed records, and returns the byte count. Closing the
// instance (see close) causes a pending call to return with an error,
// which is how Run's interrupt handling unblocks it.
func (k *kernelInstance) readEvents(buf []byte) (int, error) {
	n, err := k.file.Read(buf)
	if err != nil {
		return 0, wrapErr(KindReadEventsFailed, err)
	}
	return n, nil
}

// close is best-effort: errors are returned for the caller to log, never
// to propagate as a fatal condition.
func (k *kernelInstance) close() error {
	return k.file.Close()
}
