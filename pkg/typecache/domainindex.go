package typecache

import (
	"runtime"
	"sync"
	"weak"

	"github.com/outlinehq/typecache/pkg/domain"
)

// domainIndex is a weak-keyed mapping from loader domain handle to its
// per-domain type map that imposes no lifetime floor on the handle. The map
// key is a weak.Pointer directly at the handle (not through any wrapper
// struct), so storing it in the map never keeps the handle reachable; a
// runtime.AddCleanup callback removes the entry once the handle is actually
// collected.
type domainIndex struct {
	mu      sync.Mutex
	entries map[weak.Pointer[domain.Handle]]*perDomainMap
}

func newDomainIndex() *domainIndex {
	return &domainIndex{entries: make(map[weak.Pointer[domain.Handle]]*perDomainMap)}
}

func (di *domainIndex) getOrCreate(h *domain.Handle) *perDomainMap {
	wp := weak.Make(h)

	di.mu.Lock()
	defer di.mu.Unlock()
	if m, ok := di.entries[wp]; ok {
		return m
	}
	m := newPerDomainMap()
	di.entries[wp] = m
	// The cleanup closure must not retain h itself (that would defeat the
	// weak key); it only ever sees the weak pointer it's handed as arg.
	runtime.AddCleanup(h, di.evict, wp)
	return m
}

func (di *domainIndex) evict(wp weak.Pointer[domain.Handle]) {
	di.mu.Lock()
	delete(di.entries, wp)
	di.mu.Unlock()
}

// snapshot returns the currently-live per-domain maps. Entries whose handle
// has already been collected are simply absent; no explicit pruning step is
// needed beyond what AddCleanup already performed.
func (di *domainIndex) snapshot() []*perDomainMap {
	di.mu.Lock()
	defer di.mu.Unlock()
	out := make([]*perDomainMap, 0, len(di.entries))
	for _, m := range di.entries {
		out = append(out, m)
	}
	return out
}
