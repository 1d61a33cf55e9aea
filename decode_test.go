//go:build linux

package fswatch

import (
	"encoding/binary"
	"testing"
	"time"

	"golang.org/x/sys/unix"
)

// appendRecord packs one inotify_event onto
// buf, matching the wire layout decodeBuffer walks in decode_linux.go:
// int32 wd, uint32 mask, uint32 cookie, uint32 name_length, then the
// null-padded name.
func appendRecord(buf []byte, wd descriptor, mask uint32, cookie uint32, name string) []byte {
	padded := name
	if padded != "" {
		for len(padded)%4 != 0 {
			padded += "\x00"
		}
	}
	hdr := make([]byte, unix.SizeofInotifyEvent)
	binary.LittleEndian.PutUint32(hdr[0:4], wd)
	binary.LittleEndian.PutUint32(hdr[4:8], mask)
	binary.LittleEndian.PutUint32(hdr[8:12], cookie)
	binary.LittleEndian.PutUint32(hdr[12:16], uint32(len(padded)))
	buf = append(buf, hdr...)
	buf = append(buf, padded...)
	return buf
}

func TestDecodeBufferSingleRecordNoName(t *testing.T) {
	var buf []byte
	buf = appendRecord(buf, 7, unix.IN_MODIFY, 0, "")

	recs := decodeBuffer(buf, len(buf))
	if len(recs) != 1 {
		t.Fatalf("decodeBuffer returned %d records; want 1", len(recs))
	}
	if recs[0].wd != 7 || recs[0].mask != unix.IN_MODIFY || recs[0].name != "" {
		t.Fatalf("got %+v", recs[0])
	}
}

func TestDecodeBufferMultipleRecordsWithNames(t *testing.T) {
	var buf []byte
	buf = appendRecord(buf, 1, unix.IN_CREATE|unix.IN_ISDIR, 0, "sub")
	buf = appendRecord(buf, 1, unix.IN_DELETE, 0, "old.txt")
	buf = appendRecord(buf, 2, unix.IN_ATTRIB, 0, "")

	recs := decodeBuffer(buf, len(buf))
	if len(recs) != 3 {
		t.Fatalf("decodeBuffer returned %d records; want 3", len(recs))
	}
	if recs[0].name != "sub" || recs[0].wd != 1 {
		t.Errorf("record 0 = %+v", recs[0])
	}
	if recs[1].name != "old.txt" || recs[1].wd != 1 {
		t.Errorf("record 1 = %+v", recs[1])
	}
	if recs[2].name != "" || recs[2].wd != 2 {
		t.Errorf("record 2 = %+v", recs[2])
	}
}

func TestDecodeBufferTooShortReturnsNil(t *testing.T) {
	buf := make([]byte, 4)
	if recs := decodeBuffer(buf, len(buf)); recs != nil {
		t.Fatalf("decodeBuffer with a too-short buffer = %v; want nil", recs)
	}
}

func TestClassifyStaleDescriptorSkipped(t *testing.T) {
	reg := newRegistry()
	rec := rawRecord{wd: 42, mask: unix.IN_MODIFY}
	if _, ok := classify(rec, reg, time.Now()); ok {
		t.Fatal("classify should drop an event for an unregistered descriptor")
	}
}

func TestClassifyPriorityOrder(t *testing.T) {
	reg := newRegistry()
	reg.insert(1, "/tmp/t")

	cases := []struct {
		mask uint32
		want CoreEventKind
	}{
		{unix.IN_CREATE | unix.IN_MODIFY, Created}, // CREATE wins over MODIFY
		{unix.IN_DELETE | unix.IN_ATTRIB, Deleted},
		{unix.IN_MODIFY, Changed},
		{unix.IN_ATTRIB, ChangedAttribs},
	}
	for _, c := range cases {
		ev, ok := classify(rawRecord{wd: 1, mask: c.mask}, reg, time.Now())
		if !ok {
			t.Fatalf("classify(mask=%#x) dropped; want %v", c.mask, c.want)
		}
		if ev.EventType != c.want {
			t.Errorf("classify(mask=%#x).EventType = %v; want %v", c.mask, ev.EventType, c.want)
		}
	}
}

func TestClassifyUnrecognizedMaskDropped(t *testing.T) {
	reg := newRegistry()
	reg.insert(1, "/tmp/t")
	if _, ok := classify(rawRecord{wd: 1, mask: unix.IN_MOVE_SELF}, reg, time.Now()); ok {
		t.Fatal("classify should drop a mask matching none of the four classified bits")
	}
}

func TestClassifyFilepathJoinsName(t *testing.T) {
	reg := newRegistry()
	reg.insert(1, "/tmp/t")

	ev, ok := classify(rawRecord{wd: 1, mask: unix.IN_CREATE, name: "sub"}, reg, time.Now())
	if !ok {
		t.Fatal("classify dropped a valid record")
	}
	if ev.Filepath != "/tmp/t/sub" {
		t.Errorf("Filepath = %q; want /tmp/t/sub", ev.Filepath)
	}

	ev2, ok := classify(rawRecord{wd: 1, mask: unix.IN_ATTRIB}, reg, time.Now())
	if !ok {
		t.Fatal("classify dropped a valid record")
	}
	if ev2.Filepath != "/tmp/t" {
		t.Errorf("Filepath = %q; want /tmp/t (no name suffix)", ev2.Filepath)
	}
}

func TestClassifyFileTypeFromISDIR(t *testing.T) {
	reg := newRegistry()
	reg.insert(1, "/tmp/t")

	dirEv, _ := classify(rawRecord{wd: 1, mask: unix.IN_CREATE | unix.IN_ISDIR, name: "sub"}, reg, time.Now())
	if dirEv.FileType != fileTypeDir {
		t.Errorf("FileType = %q; want %q", dirEv.FileType, fileTypeDir)
	}

	fileEv, _ := classify(rawRecord{wd: 1, mask: unix.IN_CREATE, name: "a.txt"}, reg, time.Now())
	if fileEv.FileType != fileTypeFile {
		t.Errorf("FileType = %q; want %q", fileEv.FileType, fileTypeFile)
	}
}

func TestDecodeAndClassifyDropsIgnored(t *testing.T) {
	reg := newRegistry()
	reg.insert(1, "/tmp/t")
	log := newLogger()

	var buf []byte
	buf = appendRecord(buf, 1, unix.IN_IGNORED, 0, "")
	buf = appendRecord(buf, 1, unix.IN_MODIFY, 0, "")

	events := decodeAndClassify(buf, len(buf), reg, time.Now(), log)
	if len(events) != 1 {
		t.Fatalf("decodeAndClassify returned %d events; want 1 (IN_IGNORED dropped)", len(events))
	}
	if events[0].EventType != Changed {
		t.Errorf("EventType = %v; want Changed", events[0].EventType)
	}
}
