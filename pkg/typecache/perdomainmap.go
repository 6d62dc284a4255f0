package typecache

import (
	"sync"

	"github.com/outlinehq/typecache/pkg/classfile"
)

// perDomainMap is a concurrent name -> ParsedType mapping scoped to one
// loader domain. Installation is compare-and-set: once a name has a value,
// later installs discard their freshly parsed record and return the one
// already present. Readers never observe a partially-constructed
// ParsedType because ParsedType is immutable and published only via
// sync.Map's happens-before guarantees.
type perDomainMap struct {
	m sync.Map // string -> classfile.ParsedType
}

func newPerDomainMap() *perDomainMap {
	return &perDomainMap{}
}

func (p *perDomainMap) get(name string) (classfile.ParsedType, bool) {
	v, ok := p.m.Load(name)
	if !ok {
		return classfile.ParsedType{}, false
	}
	return v.(classfile.ParsedType), true
}

// installOrGet installs pt under name if absent, or returns whatever is
// already installed for that name. Exactly one ParsedType value is ever
// observable for a given name across the lifetime of this map. name is the
// caller's requested identity, not necessarily pt.Name: a misconfigured
// classpath entry could in principle serve bytes for a differently-named
// class, and keying on the request rather than the payload keeps that case
// from installing under the wrong key and defeating the at-most-one-install
// guarantee for the name actually being resolved.
func (p *perDomainMap) installOrGet(name string, pt classfile.ParsedType) classfile.ParsedType {
	actual, _ := p.m.LoadOrStore(name, pt)
	return actual.(classfile.ParsedType)
}

func (p *perDomainMap) forEachName(f func(string, classfile.ParsedType)) {
	p.m.Range(func(k, v any) bool {
		f(k.(string), v.(classfile.ParsedType))
		return true
	})
}
