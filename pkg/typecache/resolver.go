package typecache

import (
	"context"
	"errors"
	"fmt"

	"github.com/outlinehq/typecache/pkg/classfile"
	"github.com/outlinehq/typecache/pkg/domain"
)

// maxHierarchyDepth bounds the DFS walk against a malformed or
// self-referential class file (e.g. a type declaring itself as its own
// super). Real hierarchies never need more than a handful of levels, so
// this only guards against corrupt input.
const maxHierarchyDepth = 1024

// GetParsedType resolves name against dom (nil dom means the bootstrap
// domain), installing and returning the cached ParsedType. It proceeds in
// stages:
//
//  1. preload probe — ask dom whether name is already loaded, and if so,
//     resolve under the domain that actually defined it;
//  2. cache lookup against the effective domain's per-domain map;
//  3. on miss, ask the effective domain for class bytes and parse them,
//     installing with compare-and-set;
//  4. Fallback A — if no bytes are available but the type is already
//     loaded, synthesize a ParsedType via reflection;
//  5. Fallback B — force a non-initializing load, then retry Fallback A.
//
// A non-nil error other than ErrLoaderBypass means resolution failed; the
// returned ParsedType is then the zero value. ErrLoaderBypass is returned
// alongside a valid ParsedType — it's informational, not a failure.
func (c *Cache) GetParsedType(ctx context.Context, name string, dom domain.Domain) (classfile.ParsedType, error) {
	name = classfile.ToCanonical(name)

	effectiveDom, effectiveHandle := c.preloadProbe(dom, name)
	m := c.mapFor(effectiveHandle)

	if pt, ok := m.get(name); ok {
		return pt, nil
	}
	return c.resolveMiss(ctx, name, effectiveDom, effectiveHandle, m)
}

// preloadProbe implements step 1 of §4.4.1: a type requested against dom
// may already have been defined by an ancestor domain. Resolving under that
// ancestor's handle avoids duplicating the parsed record and gives a
// parsing path when dom itself can't produce bytes but the ancestor
// already owns the defined class.
func (c *Cache) preloadProbe(dom domain.Domain, name string) (domain.Domain, *domain.Handle) {
	if dom == nil {
		return nil, nil
	}
	definer, ok := dom.FindLoaded(name)
	if !ok {
		return dom, dom.Handle()
	}
	return dom, definer
}

func (c *Cache) resolveMiss(ctx context.Context, name string, dom domain.Domain, handle *domain.Handle, m *perDomainMap) (classfile.ParsedType, error) {
	data, ok, err := c.resourceBytes(ctx, dom, name)
	if err != nil {
		c.logger.Error("resource channel failed while resolving type", "type", name, "error", err)
		return classfile.ParsedType{}, fmt.Errorf("%w: %s: %v", ErrResourceIO, name, err)
	}
	if ok {
		pt, err := classfile.Parse(data)
		if err != nil {
			c.logger.Error("class could not be parsed", "type", name, "error", err)
			return classfile.ParsedType{}, err
		}
		installed := m.installOrGet(name, pt)
		c.names.add(installed.Name)
		return installed, nil
	}

	if dom == nil {
		return classfile.ParsedType{}, fmt.Errorf("%w: %s", ErrTypeNotFound, name)
	}

	// Fallback A: no bytes, but maybe already loaded.
	if _, loaded := dom.FindLoaded(name); loaded {
		if pt, ok, err := c.reflectParsedType(dom, handle, name); err != nil {
			return classfile.ParsedType{}, err
		} else if ok {
			c.logger.Warn("resolved type via reflection, no class resource available", "type", name)
			installed := m.installOrGet(name, pt)
			c.names.add(installed.Name)
			return installed, nil
		}
	}

	// Fallback B: force a non-initializing load, then retry reflection.
	definer, ok, err := dom.ForceLoad(ctx, name)
	if err != nil {
		return classfile.ParsedType{}, fmt.Errorf("%w: %s: %v", ErrResourceIO, name, err)
	}
	if !ok {
		return classfile.ParsedType{}, fmt.Errorf("%w: %s", ErrTypeNotFound, name)
	}
	pt, ok, err := c.reflectParsedType(dom, definer, name)
	if err != nil {
		return classfile.ParsedType{}, err
	}
	if !ok {
		return classfile.ParsedType{}, fmt.Errorf("%w: %s", ErrTypeNotFound, name)
	}
	c.logger.Warn("loader bypassed weaving for type", "type", name)
	installed := c.mapFor(definer).installOrGet(name, pt)
	c.names.add(installed.Name)
	return installed, ErrLoaderBypass
}

func (c *Cache) resourceBytes(ctx context.Context, dom domain.Domain, name string) ([]byte, bool, error) {
	path := classfile.ResourcePath(name)
	if dom == nil {
		if c.bootstrapDomain == nil {
			return nil, false, nil
		}
		return c.bootstrapDomain.ResourceBytes(ctx, path)
	}
	return dom.ResourceBytes(ctx, path)
}

// reflectParsedType asks dom to reflect over name (already loaded under
// handle) and converts the structural tuple into a ParsedType.
func (c *Cache) reflectParsedType(dom domain.Domain, handle *domain.Handle, name string) (classfile.ParsedType, bool, error) {
	s, ok, err := dom.Reflect(handle, name)
	if err != nil {
		c.logger.Error("reflection failed while resolving type", "type", name, "error", err)
		return classfile.ParsedType{}, false, fmt.Errorf("%w: %s: %v", ErrResourceIO, name, err)
	}
	if !ok {
		return classfile.ParsedType{}, false, nil
	}
	methods := make([]classfile.ParsedMethod, len(s.Methods))
	for i, sm := range s.Methods {
		methods[i] = classfile.ParsedMethod{
			Name:        sm.Name,
			ParamDescs:  sm.ParamDescs,
			ReturnDesc:  sm.ReturnDesc,
			AccessFlags: sm.AccessFlags,
		}
	}
	superName := s.SuperName
	if superName == objectTypeName {
		superName = ""
	}
	return classfile.ParsedType{
		IsInterface:    s.IsInterface,
		Name:           name,
		SuperName:      superName,
		InterfaceNames: s.InterfaceNames,
		Methods:        methods,
	}, true, nil
}

// TypeHierarchy walks the transitive closure of super-type and interface
// edges starting at name, depth-first: self, then the super-chain, then
// each declared interface in order. Duplicates are permitted — the same
// interface may appear along two branches — and are not removed:
// de-duplication would cost allocation on a hot path for a result callers
// already tolerate duplicates in.
//
// java.lang.Object (or an empty name) yields the empty hierarchy. A
// sub-resolution that fails with ErrTypeNotFound is treated as advisory and
// just stops that branch; ErrResourceIO or a malformed class is logged and
// also stops that branch — the walk as a whole never fails.
func (c *Cache) TypeHierarchy(ctx context.Context, name string, dom domain.Domain) []classfile.ParsedType {
	name = classfile.ToCanonical(name)
	if name == "" || name == objectTypeName {
		return nil
	}
	return c.walkHierarchy(ctx, name, dom, 0)
}

func (c *Cache) walkHierarchy(ctx context.Context, name string, dom domain.Domain, depth int) []classfile.ParsedType {
	if depth >= maxHierarchyDepth {
		return nil
	}
	pt, err := c.GetParsedType(ctx, name, dom)
	if err != nil && !errors.Is(err, ErrLoaderBypass) {
		if !errors.Is(err, ErrTypeNotFound) {
			c.logger.Error("hierarchy walk stopped on sub-resolution error", "type", name, "error", err)
		}
		return nil
	}

	out := []classfile.ParsedType{pt}
	if pt.SuperName != "" && pt.SuperName != objectTypeName {
		out = append(out, c.walkHierarchy(ctx, pt.SuperName, dom, depth+1)...)
	}
	for _, iface := range pt.InterfaceNames {
		out = append(out, c.walkHierarchy(ctx, iface, dom, depth+1)...)
	}
	return out
}
