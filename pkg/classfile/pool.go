package classfile

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Constant pool tags. Only the tags needed to resolve names (Utf8, Class,
// NameAndType) are modeled fully; the rest are recognized just well enough
// to skip their fixed-size payload and keep the cursor aligned for the
// member tables that follow.
const (
	tagUtf8               = 1
	tagInteger            = 3
	tagFloat              = 4
	tagLong               = 5
	tagDouble             = 6
	tagClass              = 7
	tagString             = 8
	tagFieldref           = 9
	tagMethodref          = 10
	tagInterfaceMethodref = 11
	tagNameAndType        = 12
	tagMethodHandle       = 15
	tagMethodType         = 16
	tagDynamic            = 17
	tagInvokeDynamic      = 18
	tagModule             = 19
	tagPackage            = 20
)

type poolEntry interface {
	tag() uint8
}

type utf8Entry struct{ value string }

func (utf8Entry) tag() uint8 { return tagUtf8 }

type classEntry struct{ nameIndex uint16 }

func (classEntry) tag() uint8 { return tagClass }

type nameAndTypeEntry struct {
	nameIndex uint16
	descIndex uint16
}

func (nameAndTypeEntry) tag() uint8 { return tagNameAndType }

// opaqueEntry stands in for constant pool kinds the structural reader
// doesn't need to resolve (Integer, Float, Methodref, MethodHandle, ...).
type opaqueEntry struct{ t uint8 }

func (o opaqueEntry) tag() uint8 { return o.t }

// pool is 1-indexed per the class file format: pool[0] is always nil.
type pool []poolEntry

func parsePool(r io.Reader, count uint16) (pool, error) {
	entries := make(pool, count)
	for i := uint16(1); i < count; i++ {
		var tag uint8
		if err := binary.Read(r, binary.BigEndian, &tag); err != nil {
			return nil, fmt.Errorf("%w: reading tag at index %d: %v", ErrMalformedClass, i, err)
		}
		switch tag {
		case tagUtf8:
			var length uint16
			if err := binary.Read(r, binary.BigEndian, &length); err != nil {
				return nil, fmt.Errorf("%w: reading utf8 length at index %d: %v", ErrMalformedClass, i, err)
			}
			buf := make([]byte, length)
			if _, err := io.ReadFull(r, buf); err != nil {
				return nil, fmt.Errorf("%w: reading utf8 bytes at index %d: %v", ErrMalformedClass, i, err)
			}
			entries[i] = utf8Entry{value: string(buf)}

		case tagClass, tagMethodType, tagModule, tagPackage:
			var idx uint16
			if err := binary.Read(r, binary.BigEndian, &idx); err != nil {
				return nil, fmt.Errorf("%w: reading u2 entry at index %d: %v", ErrMalformedClass, i, err)
			}
			if tag == tagClass {
				entries[i] = classEntry{nameIndex: idx}
			} else {
				entries[i] = opaqueEntry{t: tag}
			}

		case tagString:
			if err := skip(r, 2); err != nil {
				return nil, malformed(i, err)
			}
			entries[i] = opaqueEntry{t: tag}

		case tagFieldref, tagMethodref, tagInterfaceMethodref:
			if err := skip(r, 4); err != nil {
				return nil, malformed(i, err)
			}
			entries[i] = opaqueEntry{t: tag}

		case tagNameAndType:
			var nameIndex, descIndex uint16
			if err := binary.Read(r, binary.BigEndian, &nameIndex); err != nil {
				return nil, malformed(i, err)
			}
			if err := binary.Read(r, binary.BigEndian, &descIndex); err != nil {
				return nil, malformed(i, err)
			}
			entries[i] = nameAndTypeEntry{nameIndex: nameIndex, descIndex: descIndex}

		case tagInteger, tagFloat:
			if err := skip(r, 4); err != nil {
				return nil, malformed(i, err)
			}
			entries[i] = opaqueEntry{t: tag}

		case tagLong, tagDouble:
			if err := skip(r, 8); err != nil {
				return nil, malformed(i, err)
			}
			entries[i] = opaqueEntry{t: tag}
			i++ // longs and doubles occupy two constant pool slots

		case tagMethodHandle:
			if err := skip(r, 3); err != nil {
				return nil, malformed(i, err)
			}
			entries[i] = opaqueEntry{t: tag}

		case tagDynamic, tagInvokeDynamic:
			if err := skip(r, 4); err != nil {
				return nil, malformed(i, err)
			}
			entries[i] = opaqueEntry{t: tag}

		default:
			return nil, fmt.Errorf("%w: unknown constant pool tag %d at index %d", ErrMalformedClass, tag, i)
		}
	}
	return entries, nil
}

func skip(r io.Reader, n int) error {
	_, err := io.CopyN(io.Discard, r, int64(n))
	return err
}

func malformed(index uint16, err error) error {
	return fmt.Errorf("%w: reading entry at index %d: %v", ErrMalformedClass, index, err)
}

func (p pool) utf8(index uint16) (string, error) {
	if int(index) >= len(p) || p[index] == nil {
		return "", fmt.Errorf("%w: invalid constant pool index %d", ErrMalformedClass, index)
	}
	e, ok := p[index].(utf8Entry)
	if !ok {
		return "", fmt.Errorf("%w: constant pool index %d is not Utf8 (tag=%d)", ErrMalformedClass, index, p[index].tag())
	}
	return e.value, nil
}

func (p pool) className(classIndex uint16) (string, error) {
	if classIndex == 0 {
		return "", nil
	}
	if int(classIndex) >= len(p) || p[classIndex] == nil {
		return "", fmt.Errorf("%w: invalid constant pool index %d", ErrMalformedClass, classIndex)
	}
	e, ok := p[classIndex].(classEntry)
	if !ok {
		return "", fmt.Errorf("%w: constant pool index %d is not Class", ErrMalformedClass, classIndex)
	}
	return p.utf8(e.nameIndex)
}
