package main

import (
	"bytes"
	"encoding/binary"
	"testing"
)

// Minimal constant pool tags per the JVM class file format, duplicated here
// because pkg/classfile keeps them unexported.
const (
	cpUtf8  = 1
	cpClass = 7
)

func buildClassBytes(t *testing.T, name, superName string) []byte {
	t.Helper()

	var cp bytes.Buffer
	next := uint16(1)

	utf8 := func(s string) uint16 {
		cp.WriteByte(cpUtf8)
		binary.Write(&cp, binary.BigEndian, uint16(len(s)))
		cp.WriteString(s)
		idx := next
		next++
		return idx
	}
	class := func(internalName string) uint16 {
		nameIdx := utf8(internalName)
		cp.WriteByte(cpClass)
		binary.Write(&cp, binary.BigEndian, nameIdx)
		idx := next
		next++
		return idx
	}

	thisIdx := class(name)
	var superIdx uint16
	if superName != "" {
		superIdx = class(superName)
	}

	var out bytes.Buffer
	binary.Write(&out, binary.BigEndian, uint32(0xCAFEBABE))
	binary.Write(&out, binary.BigEndian, uint16(0))
	binary.Write(&out, binary.BigEndian, uint16(61))
	binary.Write(&out, binary.BigEndian, next)
	out.Write(cp.Bytes())

	binary.Write(&out, binary.BigEndian, uint16(0x0021)) // public, super
	binary.Write(&out, binary.BigEndian, thisIdx)
	binary.Write(&out, binary.BigEndian, superIdx)
	binary.Write(&out, binary.BigEndian, uint16(0)) // interfaces_count
	binary.Write(&out, binary.BigEndian, uint16(0)) // fields_count
	binary.Write(&out, binary.BigEndian, uint16(0)) // methods_count
	binary.Write(&out, binary.BigEndian, uint16(0)) // attributes_count
	return out.Bytes()
}
