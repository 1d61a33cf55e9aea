//go:build linux

package fswatch

import (
	"strings"
	"time"
	"unsafe"

	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

// rawRecord is one decoded wire-format record: watch descriptor, mask,
// cookie, and the optional name suffix.
type rawRecord struct {
	wd     descriptor
	mask   uint32
	cookie uint32
	name   string
}

// decodeBuffer walks a filled read buffer and returns one rawRecord per
// packed inotify_event, pulled out as a pure function so it is
// unit-testable without a real kernel fd.
func decodeBuffer(buf []byte, n int) []rawRecord {
	if n < unix.SizeofInotifyEvent {
		return nil
	}
	var out []rawRecord
	var offset uint32
	for offset <= uint32(n)-unix.SizeofInotifyEvent {
		raw := (*unix.InotifyEvent)(unsafe.Pointer(&buf[offset]))
		nameLen := uint32(raw.Len)

		var name string
		if nameLen > 0 {
			nameBytes := (*[unix.PathMax]byte)(unsafe.Pointer(&buf[offset+unix.SizeofInotifyEvent]))[:nameLen:nameLen]
			name = strings.TrimRight(string(nameBytes), "\x00")
		}

		out = append(out, rawRecord{
			wd:     descriptor(raw.Wd),
			mask:   uint32(raw.Mask),
			cookie: raw.Cookie,
			name:   name,
		})

		offset += unix.SizeofInotifyEvent + nameLen
	}
	return out
}

// classify resolves one rawRecord into a FileChangeEvent using reg to map
// its descriptor back to an absolute path. Returns ok=false for a stale
// descriptor (the watch was removed between the kernel queuing the event
// and us decoding it — silently skipped) or for a mask matching none of
// the four classified bits.
//
// Only IN_CREATE, IN_DELETE, IN_MODIFY, and IN_ATTRIB are checked, in that
// priority order — IN_MOVED_FROM/IN_MOVED_TO/IN_DELETE_SELF/IN_MOVE_SELF/
// IN_IGNORED are not given an event type of their own and are dropped.
// This still covers subtree deletion correctly: removing a watched
// subdirectory raises IN_DELETE (not IN_DELETE_SELF) on its *parent's*
// watch, which classifies normally.
func classify(rec rawRecord, reg *registry, now time.Time) (FileChangeEvent, bool) {
	path, ok := reg.lookup(rec.wd)
	if !ok {
		return FileChangeEvent{}, false
	}

	full := path
	if rec.name != "" {
		full = path + "/" + rec.name
	}

	fileType := fileTypeFile
	if rec.mask&unix.IN_ISDIR != 0 {
		fileType = fileTypeDir
	}

	var kind CoreEventKind
	switch {
	case rec.mask&unix.IN_CREATE != 0:
		kind = Created
	case rec.mask&unix.IN_DELETE != 0:
		kind = Deleted
	case rec.mask&unix.IN_MODIFY != 0:
		kind = Changed
	case rec.mask&unix.IN_ATTRIB != 0:
		kind = ChangedAttribs
	default:
		return FileChangeEvent{}, false
	}

	return FileChangeEvent{
		Timestamp: now,
		EventType: kind,
		FileType:  fileType,
		Filepath:  full,
	}, true
}

// decodeAndClassify is the loop's entry point into decoding: it decodes
// every record packed into buf[:n] and classifies each one, logging (not
// failing) two kernel-level conditions worth surfacing on receipt —
// IN_Q_OVERFLOW (the kernel dropped events; these are not retried) and
// IN_UNMOUNT (backing filesystem unmounted).
func decodeAndClassify(buf []byte, n int, reg *registry, now time.Time, log *logrus.Logger) []FileChangeEvent {
	records := decodeBuffer(buf, n)
	out := make([]FileChangeEvent, 0, len(records))
	for _, rec := range records {
		if rec.mask&unix.IN_Q_OVERFLOW != 0 {
			log.Warn("inotify event queue overflowed; some changes were not reported")
		}
		if rec.mask&unix.IN_UNMOUNT != 0 {
			log.Warn("backing filesystem was unmounted")
		}
		if rec.mask&unix.IN_IGNORED != 0 {
			continue
		}
		ev, ok := classify(rec, reg, now)
		if !ok {
			continue
		}
		out = append(out, ev)
	}
	return out
}
