package domain

import (
	"context"
	"sync"
)

// StaticDomain is an in-memory Domain driven entirely by bytes and
// structural tuples supplied up front. It exists so callers outside this
// package (chiefly pkg/typecache's tests) can exercise every resolution
// path in a deterministic, concurrency-safe way without real .class files
// or a real loader hierarchy.
type StaticDomain struct {
	handle *Handle
	Parent *StaticDomain

	mu             sync.RWMutex
	resources      map[string][]byte
	loaded         map[string]*Handle
	reflected      map[string]Structural
	forceErr       map[string]error
	forceLoadables map[string]bool
}

// NewStaticDomain creates an empty StaticDomain. Use the With* methods to
// populate it before resolving against it.
func NewStaticDomain(id string, parent *StaticDomain) *StaticDomain {
	return &StaticDomain{
		handle:         NewHandle(id),
		Parent:         parent,
		resources:      make(map[string][]byte),
		loaded:         make(map[string]*Handle),
		reflected:      make(map[string]Structural),
		forceErr:       make(map[string]error),
		forceLoadables: make(map[string]bool),
	}
}

// WithResource registers class bytes this domain can serve for resourcePath.
func (d *StaticDomain) WithResource(resourcePath string, data []byte) *StaticDomain {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.resources[resourcePath] = data
	return d
}

// WithLoaded records that name is already loaded, defined by definer.
func (d *StaticDomain) WithLoaded(name string, definer *Handle) *StaticDomain {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.loaded[name] = definer
	return d
}

// WithReflected registers the structural tuple Reflect should return for
// name, simulating a loaded-but-byteless type (Fallback A/B).
func (d *StaticDomain) WithReflected(name string, s Structural) *StaticDomain {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.reflected[name] = s
	return d
}

// WithForceLoadable marks name as resolvable through ForceLoad even though
// no class bytes are registered for it, simulating a loader that can force
// a class into existence (e.g. a generated or dynamically defined type)
// without exposing its raw bytes through ResourceBytes.
func (d *StaticDomain) WithForceLoadable(name string) *StaticDomain {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.forceLoadables[name] = true
	return d
}

func (d *StaticDomain) ResourceBytes(ctx context.Context, resourcePath string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	d.mu.RLock()
	data, ok := d.resources[resourcePath]
	d.mu.RUnlock()
	if ok {
		return data, true, nil
	}
	if d.Parent != nil {
		return d.Parent.ResourceBytes(ctx, resourcePath)
	}
	return nil, false, nil
}

func (d *StaticDomain) FindLoaded(name string) (*Handle, bool) {
	d.mu.RLock()
	h, ok := d.loaded[name]
	d.mu.RUnlock()
	if ok {
		return h, true
	}
	if d.Parent != nil {
		return d.Parent.FindLoaded(name)
	}
	return nil, false
}

func (d *StaticDomain) ForceLoad(ctx context.Context, name string) (*Handle, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	d.mu.RLock()
	err := d.forceErr[name]
	d.mu.RUnlock()
	if err != nil {
		return nil, false, err
	}
	if h, ok := d.FindLoaded(name); ok {
		return h, true, nil
	}
	if _, ok, _ := d.ResourceBytes(ctx, pathFor(name)); ok {
		d.WithLoaded(name, d.handle)
		return d.handle, true, nil
	}
	d.mu.RLock()
	forceable := d.forceLoadables[name]
	d.mu.RUnlock()
	if forceable {
		d.WithLoaded(name, d.handle)
		return d.handle, true, nil
	}
	return nil, false, nil
}

func (d *StaticDomain) Reflect(definer *Handle, name string) (Structural, bool, error) {
	owner := d.ownerFor(definer)
	if owner == nil {
		return Structural{}, false, nil
	}
	owner.mu.RLock()
	s, ok := owner.reflected[name]
	owner.mu.RUnlock()
	return s, ok, nil
}

func (d *StaticDomain) Handle() *Handle { return d.handle }

func (d *StaticDomain) ownerFor(h *Handle) *StaticDomain {
	for cur := d; cur != nil; cur = cur.Parent {
		if cur.handle == h {
			return cur
		}
	}
	return nil
}
