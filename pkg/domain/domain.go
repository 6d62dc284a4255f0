// Package domain describes the capability a loader domain (the analogue of
// a Java ClassLoader) must expose to the type cache: byte-level class
// resolution, a non-initializing "already loaded" probe, a non-initializing
// forced load, and reflection over an already-loaded representation. Real
// loaders and test doubles both implement Domain; the cache never depends
// on a concrete loader type.
package domain

import "context"

// Handle identifies one loader domain. It is opaque and compared by
// pointer identity; a nil *Handle denotes the bootstrap domain. Handle is
// the target of the type cache's weak domain index, so it must never be
// wrapped — callers hold onto the same *Handle value they hand to the
// cache for as long as the domain should stay reachable.
type Handle struct {
	// id is purely descriptive (logging, String()); it plays no role in
	// cache identity, which is the pointer itself.
	id string
}

// NewHandle creates a Handle with a human-readable id for logs.
func NewHandle(id string) *Handle {
	return &Handle{id: id}
}

func (h *Handle) String() string {
	if h == nil {
		return "<bootstrap>"
	}
	return h.id
}

// Method is the structural summary of one declared method, as produced by
// reflection when no class bytes are available to parse.
type Method struct {
	Name        string
	ParamDescs  []string
	ReturnDesc  string
	AccessFlags uint16
}

// Structural is the reflection-derived structural tuple Domain.Reflect
// returns: is-interface, super-type name (canonical, "" if none), declared
// interface names (canonical), and declared methods.
type Structural struct {
	IsInterface    bool
	SuperName      string
	InterfaceNames []string
	Methods        []Method
}

// Domain is the capability interface the cache consumes from a loader
// domain. All methods are non-initializing: none of them may trigger class
// initialization or re-enter the instrumentation hook that the type cache
// itself sits behind.
type Domain interface {
	// Handle returns the identity this domain resolves under. The type
	// cache uses it as the per-domain map key; it must be stable for the
	// lifetime of the Domain value.
	Handle() *Handle

	// ResourceBytes returns the raw class file bytes for the slash-form
	// resource path (e.g. "a/b/C.class"), or ok=false if this domain has no
	// such resource.
	ResourceBytes(ctx context.Context, resourcePath string) (data []byte, ok bool, err error)

	// FindLoaded reports whether a type with this canonical name is already
	// defined anywhere reachable from this domain without forcing a load,
	// and if so, which domain actually defined it.
	FindLoaded(name string) (definer *Handle, ok bool)

	// ForceLoad performs a name-based, non-initializing load. It is used
	// only by the cache's last-resort fallback and must never trigger
	// static initializers.
	ForceLoad(ctx context.Context, name string) (definer *Handle, ok bool, err error)

	// Reflect enumerates the structural shape of an already-loaded type
	// identified by definer+name, for when no class bytes are obtainable.
	Reflect(definer *Handle, name string) (Structural, bool, error)
}
