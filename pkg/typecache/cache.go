// Package typecache is the parsed-type cache and hierarchy resolver for a
// bytecode instrumentation pipeline: an in-memory, per-loader-domain index
// of class structure (name, super-type, interfaces, declared methods) used
// to answer type-hierarchy and name-prefix queries on the class-loading hot
// path.
package typecache

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/outlinehq/typecache/pkg/classfile"
	"github.com/outlinehq/typecache/pkg/domain"
)

const objectTypeName = "java.lang.Object"

// Cache is the Cache Root: the weak-keyed domain index, the dedicated
// bootstrap map, and the case-folded name index, plus the resolver state
// (bootstrap domain capability, logger) needed to turn a miss into a parsed
// type. It is an explicitly owned value — construct one with New and pass
// it to callers; there is no package-level singleton.
type Cache struct {
	domains   *domainIndex
	bootstrap *perDomainMap
	names     *nameIndex

	bootstrapDomain domain.Domain
	logger          *slog.Logger
}

// Option configures a Cache at construction.
type Option func(*Cache)

// WithBootstrapDomain supplies the Domain used to resolve resources for the
// bootstrap (nil-handle) loader domain — the analogue of
// ClassLoader.getSystemResource. Without it, lookups against the bootstrap
// domain can only be satisfied by a prior Add.
func WithBootstrapDomain(d domain.Domain) Option {
	return func(c *Cache) { c.bootstrapDomain = d }
}

// WithLogger overrides the default logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Cache) { c.logger = l }
}

// New constructs an empty Cache.
func New(opts ...Option) *Cache {
	c := &Cache{
		domains:   newDomainIndex(),
		bootstrap: newPerDomainMap(),
		names:     newNameIndex(),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Cache) mapFor(h *domain.Handle) *perDomainMap {
	if h == nil {
		return c.bootstrap
	}
	return c.domains.getOrCreate(h)
}

// Add inserts a parsed type into the per-domain map for the given handle
// (or the bootstrap map, if handle is nil) and records its name in the
// search index. Like the resolver's own installs, Add never replaces an
// already-installed record for the same (domain, name) pair — donating the
// same type twice, or donating one the resolver already parsed lazily, is a
// no-op for whichever arrived second.
func (c *Cache) Add(pt classfile.ParsedType, h *domain.Handle) {
	installed := c.mapFor(h).installOrGet(pt.Name, pt)
	c.names.add(installed.Name)
}

// MatchingTypeNames performs a case-insensitive substring match over every
// name this cache has ever seen installed, across every domain, live or
// since-collected. It never triggers parsing.
func (c *Cache) MatchingTypeNames(partial string, limit int) []string {
	return c.names.matching(partial, limit)
}

// matchingParsedTypes collects the ParsedType named typeName from the
// bootstrap map and from every currently-live per-domain map.
func (c *Cache) matchingParsedTypes(typeName string) []classfile.ParsedType {
	var out []classfile.ParsedType
	if pt, ok := c.bootstrap.get(typeName); ok {
		out = append(out, pt)
	}
	for _, m := range c.domains.snapshot() {
		if pt, ok := m.get(typeName); ok {
			out = append(out, pt)
		}
	}
	return out
}

// MatchingMethodNames unions the declared method names of every cached
// ParsedType named typeName (across domains), filters by case-insensitive
// substring, sorts case-insensitively, and truncates to limit. It never
// triggers parsing.
func (c *Cache) MatchingMethodNames(typeName, partial string, limit int) []string {
	partialUpper := strings.ToUpper(partial)
	set := make(map[string]struct{})
	for _, pt := range c.matchingParsedTypes(typeName) {
		for _, m := range pt.Methods {
			if strings.Contains(strings.ToUpper(m.Name), partialUpper) {
				set[m.Name] = struct{}{}
			}
		}
	}
	names := make([]string, 0, len(set))
	for n := range set {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool {
		return strings.ToUpper(names[i]) < strings.ToUpper(names[j])
	})
	if limit >= 0 && len(names) > limit {
		names = names[:limit]
	}
	return names
}

// MatchingParsedMethods returns the full method records named methodName
// (exact, case-sensitive) across every cached ParsedType named typeName, in
// domain-iteration order then declaration order. It never triggers parsing.
func (c *Cache) MatchingParsedMethods(typeName, methodName string) []classfile.ParsedMethod {
	var out []classfile.ParsedMethod
	for _, pt := range c.matchingParsedTypes(typeName) {
		for _, m := range pt.Methods {
			if m.Name == methodName {
				out = append(out, m)
			}
		}
	}
	return out
}
