package classfile

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

const classMagic = 0xCAFEBABE

// Visitor receives the structural callback sequence the Reader emits: one
// VisitClass call, then one VisitMethod call per declared method, in
// declaration order. Implementations must not retain the byte buffer
// backing the supplied strings beyond the callback (they don't alias it —
// all strings are copied out of the constant pool during parsing).
type Visitor interface {
	VisitClass(majorVersion uint16, accessFlags uint16, internalName, superInternalName string, interfaceInternalNames []string)
	VisitMethod(accessFlags uint16, name string, paramDescs []string, returnDesc string)
}

// Accept parses a class file byte buffer and drives v through the
// structural callback sequence described on Visitor. It descends only as
// far as the method table headers: method bodies, annotations, and every
// other attribute are read only as length-prefixed opaque blobs so the
// cursor stays correctly positioned, then discarded.
//
// Accept returns a wrapped ErrMalformedClass if the magic word, constant
// pool, or member tables cannot be parsed.
func Accept(data []byte, v Visitor) error {
	r := bytes.NewReader(data)

	var magic uint32
	if err := binary.Read(r, binary.BigEndian, &magic); err != nil {
		return fmt.Errorf("%w: reading magic: %v", ErrMalformedClass, err)
	}
	if magic != classMagic {
		return fmt.Errorf("%w: bad magic 0x%X", ErrMalformedClass, magic)
	}

	var minor, major uint16
	if err := binary.Read(r, binary.BigEndian, &minor); err != nil {
		return fmt.Errorf("%w: reading minor version: %v", ErrMalformedClass, err)
	}
	if err := binary.Read(r, binary.BigEndian, &major); err != nil {
		return fmt.Errorf("%w: reading major version: %v", ErrMalformedClass, err)
	}

	var cpCount uint16
	if err := binary.Read(r, binary.BigEndian, &cpCount); err != nil {
		return fmt.Errorf("%w: reading constant pool count: %v", ErrMalformedClass, err)
	}
	cp, err := parsePool(r, cpCount)
	if err != nil {
		return err
	}

	var accessFlags, thisClass, superClass uint16
	if err := binary.Read(r, binary.BigEndian, &accessFlags); err != nil {
		return fmt.Errorf("%w: reading access flags: %v", ErrMalformedClass, err)
	}
	if err := binary.Read(r, binary.BigEndian, &thisClass); err != nil {
		return fmt.Errorf("%w: reading this_class: %v", ErrMalformedClass, err)
	}
	if err := binary.Read(r, binary.BigEndian, &superClass); err != nil {
		return fmt.Errorf("%w: reading super_class: %v", ErrMalformedClass, err)
	}

	thisName, err := cp.className(thisClass)
	if err != nil {
		return err
	}
	superName, err := cp.className(superClass)
	if err != nil {
		return err
	}

	var ifaceCount uint16
	if err := binary.Read(r, binary.BigEndian, &ifaceCount); err != nil {
		return fmt.Errorf("%w: reading interfaces count: %v", ErrMalformedClass, err)
	}
	interfaceNames := make([]string, ifaceCount)
	for i := uint16(0); i < ifaceCount; i++ {
		var idx uint16
		if err := binary.Read(r, binary.BigEndian, &idx); err != nil {
			return fmt.Errorf("%w: reading interface %d: %v", ErrMalformedClass, i, err)
		}
		name, err := cp.className(idx)
		if err != nil {
			return err
		}
		interfaceNames[i] = name
	}

	v.VisitClass(major, accessFlags, thisName, superName, interfaceNames)

	if err := skipMembers(r); err != nil { // fields: not modeled, skipped structurally
		return err
	}

	var methodCount uint16
	if err := binary.Read(r, binary.BigEndian, &methodCount); err != nil {
		return fmt.Errorf("%w: reading methods count: %v", ErrMalformedClass, err)
	}
	for i := uint16(0); i < methodCount; i++ {
		var mAccess, nameIdx, descIdx, attrCount uint16
		if err := binary.Read(r, binary.BigEndian, &mAccess); err != nil {
			return fmt.Errorf("%w: reading method %d access flags: %v", ErrMalformedClass, i, err)
		}
		if err := binary.Read(r, binary.BigEndian, &nameIdx); err != nil {
			return fmt.Errorf("%w: reading method %d name index: %v", ErrMalformedClass, i, err)
		}
		if err := binary.Read(r, binary.BigEndian, &descIdx); err != nil {
			return fmt.Errorf("%w: reading method %d descriptor index: %v", ErrMalformedClass, i, err)
		}
		if err := binary.Read(r, binary.BigEndian, &attrCount); err != nil {
			return fmt.Errorf("%w: reading method %d attribute count: %v", ErrMalformedClass, i, err)
		}
		name, err := cp.utf8(nameIdx)
		if err != nil {
			return err
		}
		desc, err := cp.utf8(descIdx)
		if err != nil {
			return err
		}
		if err := skipAttributes(r, attrCount); err != nil {
			return err
		}
		params, ret, err := splitMethodDescriptor(desc)
		if err != nil {
			return err
		}
		v.VisitMethod(mAccess, name, params, ret)
	}

	// Class-level attributes follow; the structural reader has nothing left
	// to extract from them and stops here.
	return nil
}

// skipMembers reads and discards the fields table (count + per-field
// access/name/descriptor/attributes), keeping the cursor aligned for the
// methods table.
func skipMembers(r io.Reader) error {
	var count uint16
	if err := binary.Read(r, binary.BigEndian, &count); err != nil {
		return fmt.Errorf("%w: reading fields count: %v", ErrMalformedClass, err)
	}
	for i := uint16(0); i < count; i++ {
		if err := skip(r, 6); err != nil { // access_flags, name_index, descriptor_index
			return fmt.Errorf("%w: reading field %d header: %v", ErrMalformedClass, i, err)
		}
		var attrCount uint16
		if err := binary.Read(r, binary.BigEndian, &attrCount); err != nil {
			return fmt.Errorf("%w: reading field %d attribute count: %v", ErrMalformedClass, i, err)
		}
		if err := skipAttributes(r, attrCount); err != nil {
			return err
		}
	}
	return nil
}

func skipAttributes(r io.Reader, count uint16) error {
	for i := uint16(0); i < count; i++ {
		if err := skip(r, 2); err != nil { // attribute_name_index
			return fmt.Errorf("%w: reading attribute %d name index: %v", ErrMalformedClass, i, err)
		}
		var length uint32
		if err := binary.Read(r, binary.BigEndian, &length); err != nil {
			return fmt.Errorf("%w: reading attribute %d length: %v", ErrMalformedClass, i, err)
		}
		if err := skip(r, int(length)); err != nil {
			return fmt.Errorf("%w: reading attribute %d data: %v", ErrMalformedClass, i, err)
		}
	}
	return nil
}
