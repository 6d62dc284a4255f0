package typecache

import (
	"sort"
	"strings"
	"sync"
)

// nameIndex is an ordered, case-folded mapping from upper-cased canonical
// name to canonical name, used only for prefix/substring search. It
// accumulates across every domain the cache has ever seen and is never
// pruned when a domain is collected — search is advisory and tolerates
// stale names.
type nameIndex struct {
	mu      sync.RWMutex
	byUpper map[string]string
}

func newNameIndex() *nameIndex {
	return &nameIndex{byUpper: make(map[string]string)}
}

func (n *nameIndex) add(name string) {
	n.mu.Lock()
	n.byUpper[strings.ToUpper(name)] = name
	n.mu.Unlock()
}

// matching returns up to limit distinct canonical names whose upper-cased
// form contains partial (case-insensitively), in ascending order of
// upper-cased key. A negative limit means unlimited.
func (n *nameIndex) matching(partial string, limit int) []string {
	partialUpper := strings.ToUpper(partial)

	n.mu.RLock()
	keys := make([]string, 0, len(n.byUpper))
	snapshot := make(map[string]string, len(n.byUpper))
	for k, v := range n.byUpper {
		keys = append(keys, k)
		snapshot[k] = v
	}
	n.mu.RUnlock()

	sort.Strings(keys)

	seen := make(map[string]bool)
	var out []string
	for _, k := range keys {
		if limit >= 0 && len(out) >= limit {
			break
		}
		if !strings.Contains(k, partialUpper) {
			continue
		}
		name := snapshot[k]
		if seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}
