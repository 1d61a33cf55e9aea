package fswatch

import (
	"os"
	"path/filepath"
	"testing"
)

func TestStatPathRegularFile(t *testing.T) {
	tmp := t.TempDir()
	p := filepath.Join(tmp, "a.txt")
	if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := statPath(p); got != statusRegularFile {
		t.Fatalf("statPath(%q) = %v; want statusRegularFile", p, got)
	}
}

func TestStatPathDirectory(t *testing.T) {
	tmp := t.TempDir()
	if got := statPath(tmp); got != statusDirectory {
		t.Fatalf("statPath(%q) = %v; want statusDirectory", tmp, got)
	}
}

func TestStatPathNonExisting(t *testing.T) {
	tmp := t.TempDir()
	p := filepath.Join(tmp, "does-not-exist")
	if got := statPath(p); got != statusNonExisting {
		t.Fatalf("statPath(%q) = %v; want statusNonExisting", p, got)
	}
}

func TestStatPathSymlinkNotFollowed(t *testing.T) {
	tmp := t.TempDir()
	target := filepath.Join(tmp, "target.txt")
	if err := os.WriteFile(target, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	link := filepath.Join(tmp, "link.txt")
	if err := os.Symlink(target, link); err != nil {
		t.Fatal(err)
	}
	// statPath uses Lstat, so a symlink reports as "other", not the type of
	// whatever it points to.
	if got := statPath(link); got != statusOther {
		t.Fatalf("statPath(%q) = %v; want statusOther (symlink, not followed)", link, got)
	}
}
