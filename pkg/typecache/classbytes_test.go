package typecache_test

import (
	"bytes"
	"encoding/binary"
	"testing"
)

// Minimal constant pool tags per the JVM class file format, duplicated here
// (rather than imported) because pkg/classfile keeps them unexported: this
// package only needs enough to synthesize fixtures, not to parse.
const (
	cpUtf8  = 1
	cpClass = 7
)

type cpBuilder struct {
	buf  bytes.Buffer
	next uint16
}

func newCPBuilder() *cpBuilder { return &cpBuilder{next: 1} }

func (b *cpBuilder) utf8(s string) uint16 {
	b.buf.WriteByte(cpUtf8)
	binary.Write(&b.buf, binary.BigEndian, uint16(len(s)))
	b.buf.WriteString(s)
	idx := b.next
	b.next++
	return idx
}

func (b *cpBuilder) class(internalName string) uint16 {
	nameIdx := b.utf8(internalName)
	b.buf.WriteByte(cpClass)
	binary.Write(&b.buf, binary.BigEndian, nameIdx)
	idx := b.next
	b.next++
	return idx
}

type methodSpec struct {
	name, desc string
	access     uint16
}

type classSpec struct {
	access     uint16
	name       string
	superName  string
	interfaces []string
	methods    []methodSpec
}

func buildClassBytes(t *testing.T, spec classSpec) []byte {
	t.Helper()
	cp := newCPBuilder()

	thisIdx := cp.class(spec.name)
	var superIdx uint16
	if spec.superName != "" {
		superIdx = cp.class(spec.superName)
	}
	ifaceIdx := make([]uint16, len(spec.interfaces))
	for i, n := range spec.interfaces {
		ifaceIdx[i] = cp.class(n)
	}
	type resolvedMethod struct{ nameIdx, descIdx, access uint16 }
	methods := make([]resolvedMethod, len(spec.methods))
	for i, m := range spec.methods {
		methods[i] = resolvedMethod{
			nameIdx: cp.utf8(m.name),
			descIdx: cp.utf8(m.desc),
			access:  m.access,
		}
	}

	var out bytes.Buffer
	binary.Write(&out, binary.BigEndian, uint32(0xCAFEBABE))
	binary.Write(&out, binary.BigEndian, uint16(0))
	binary.Write(&out, binary.BigEndian, uint16(61))
	binary.Write(&out, binary.BigEndian, cp.next)
	out.Write(cp.buf.Bytes())

	binary.Write(&out, binary.BigEndian, spec.access)
	binary.Write(&out, binary.BigEndian, thisIdx)
	binary.Write(&out, binary.BigEndian, superIdx)

	binary.Write(&out, binary.BigEndian, uint16(len(ifaceIdx)))
	for _, idx := range ifaceIdx {
		binary.Write(&out, binary.BigEndian, idx)
	}

	binary.Write(&out, binary.BigEndian, uint16(0)) // fields_count

	binary.Write(&out, binary.BigEndian, uint16(len(methods)))
	for _, m := range methods {
		binary.Write(&out, binary.BigEndian, m.access)
		binary.Write(&out, binary.BigEndian, m.nameIdx)
		binary.Write(&out, binary.BigEndian, m.descIdx)
		binary.Write(&out, binary.BigEndian, uint16(0))
	}

	binary.Write(&out, binary.BigEndian, uint16(0)) // class attributes_count
	return out.Bytes()
}
