//go:build !linux

package fswatch

import (
	"fmt"
	"runtime"
)

// kernelInstance stub for platforms other than Linux. This engine's kernel
// binding models the Linux inotify API only; every operation here fails
// with ErrUnsupportedPlatform so package fswatch still compiles and links
// on every GOOS.
type kernelInstance struct{}

func openInstance() (*kernelInstance, error) {
	return nil, wrapErr(KindUnsupportedPlatform, fmt.Errorf("fswatch: inotify backend not available on %s", runtime.GOOS))
}

func (k *kernelInstance) addWatch(path string) (descriptor, error) {
	return 0, ErrUnsupportedPlatform
}

func (k *kernelInstance) removeWatch(wd descriptor) error { return ErrUnsupportedPlatform }

func (k *kernelInstance) readEvents(buf []byte) (int, error) { return 0, ErrUnsupportedPlatform }

func (k *kernelInstance) close() error { return nil }
