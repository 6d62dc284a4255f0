package classfile

import "errors"

// ErrMalformedClass is returned (wrapped with context) when the byte buffer
// cannot be parsed as a class file: a bad magic word, a truncated or
// inconsistent constant pool, or a member table that runs past the buffer.
var ErrMalformedClass = errors.New("classfile: malformed class")
