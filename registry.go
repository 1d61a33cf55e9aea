package fswatch

import (
	"strings"
	"sync"
)

// descriptor is the opaque kernel-issued watch handle. Identity and
// equality are by value, matching the underlying inotify watch descriptor
// (an int32 in the kernel ABI, kept unsigned here to match the uint32
// watch descriptor golang.org/x/sys/unix's InotifyRmWatch takes).
type descriptor = uint32

// registry is the watch registry: an ordered, bidirectional mapping
// between active watch descriptors and the absolute path each one covers.
// Iteration is insertion-ordered so teardown and dedup stay deterministic.
type registry struct {
	mu    sync.RWMutex
	byWd  map[descriptor]string
	order []descriptor // insertion order, for deterministic iteration/teardown
}

func newRegistry() *registry {
	return &registry{byWd: make(map[descriptor]string)}
}

// insert adds descriptor -> path. Callers insert freshly-issued
// descriptors; if descriptor is already a key, its path is replaced and
// its place in the iteration order is kept.
func (r *registry) insert(wd descriptor, path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byWd[wd]; !ok {
		r.order = append(r.order, wd)
	}
	r.byWd[wd] = path
}

// remove drops a descriptor. No-op if absent.
func (r *registry) remove(wd descriptor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byWd[wd]; !ok {
		return
	}
	delete(r.byWd, wd)
	for i, d := range r.order {
		if d == wd {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// lookup returns the path registered for wd, if any.
func (r *registry) lookup(wd descriptor) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byWd[wd]
	return p, ok
}

// pair is one (descriptor, path) entry, as yielded by iterate.
type pair struct {
	wd   descriptor
	path string
}

// iterate yields all entries in insertion order. A caller that wants to
// remove entries while iterating must collect descriptors first and
// remove afterwards — iterate itself takes a snapshot under the read lock
// so this is safe by construction.
func (r *registry) iterate() []pair {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]pair, 0, len(r.order))
	for _, wd := range r.order {
		out = append(out, pair{wd: wd, path: r.byWd[wd]})
	}
	return out
}

// descriptorsUnder returns every descriptor whose path equals root or is a
// child of root (path == root, or path starts with root+separator). Used
// to collect a subtree's descriptors before removing them from the
// kernel.
func (r *registry) descriptorsUnder(root string) []descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	prefix := root + string('/')
	out := make([]descriptor, 0, 4)
	for _, wd := range r.order {
		p := r.byWd[wd]
		if p == root || strings.HasPrefix(p, prefix) {
			out = append(out, wd)
		}
	}
	return out
}

// descriptorForPath returns the descriptor watching exactly path, if any.
func (r *registry) descriptorForPath(path string) (descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, wd := range r.order {
		if r.byWd[wd] == path {
			return wd, true
		}
	}
	return 0, false
}

// isWatched reports whether path is the exact path of some watch.
func (r *registry) isWatched(path string) bool {
	_, ok := r.descriptorForPath(path)
	return ok
}

// len reports the number of live descriptors.
func (r *registry) len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byWd)
}

// clear drops all entries. Does not touch the kernel; pairs with a
// kernel-instance close on teardown.
func (r *registry) clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byWd = make(map[descriptor]string)
	r.order = nil
}
