package fswatch

import "time"

// CoreEventKind is the tagged variant of refined event kinds this engine
// dispatches.
type CoreEventKind int

const (
	// Created: a new directory entry was created in a watched directory.
	// Renames into a watched directory are not classified and produce no
	// event.
	Created CoreEventKind = iota
	// Deleted: a directory entry was deleted from a watched directory.
	// Renames out of a watched directory and deletion of the watched entry
	// itself are not classified and produce no event.
	Deleted
	// Changed: file content was modified.
	Changed
	// ChangedAttribs: metadata (permissions, timestamps, ...) changed.
	ChangedAttribs
)

func (k CoreEventKind) String() string {
	switch k {
	case Created:
		return "created"
	case Deleted:
		return "deleted"
	case Changed:
		return "changed"
	case ChangedAttribs:
		return "changed-attribs"
	default:
		return "unknown"
	}
}

// FileChangeEvent is the object handed to the user callback.
type FileChangeEvent struct {
	// Timestamp is the monotonic capture time at decode (or, for the last
	// dispatched slot, at dispatch return — see the debounce reset in
	// Watcher.Run).
	Timestamp time.Time
	// EventType classifies what kind of change this is.
	EventType CoreEventKind
	// FileType is "dir" if the kernel reported directory context, else "file".
	FileType string
	// Filepath is the absolute path of the affected entry.
	Filepath string
}

const (
	fileTypeDir  = "dir"
	fileTypeFile = "file"
)

// sameShape reports whether two events share filepath, file type, and
// event type — the three fields the debounce rule compares.
func (e FileChangeEvent) sameShape(o FileChangeEvent) bool {
	return e.Filepath == o.Filepath && e.FileType == o.FileType && e.EventType == o.EventType
}
