package fswatch

import "os"

// targetStatus classifies a path before it is watched.
type targetStatus int

const (
	statusNonExisting targetStatus = iota
	statusRegularFile
	statusDirectory
	statusOther
)

// statPath classifies path without following symlinks. Any failure to
// classify (permission denied, name too long, ...) is treated as
// statusNonExisting.
func statPath(path string) targetStatus {
	info, err := os.Lstat(path)
	if err != nil {
		return statusNonExisting
	}
	switch {
	case info.Mode().IsRegular():
		return statusRegularFile
	case info.IsDir():
		return statusDirectory
	default:
		return statusOther
	}
}
