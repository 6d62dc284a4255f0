package classfile

import "strings"

// ToCanonical converts a class file's internal (slash-separated) name, e.g.
// "a/b/C", to its canonical dotted form, "a.b.C". An empty string maps to
// itself so callers can pass an absent super-name through unchanged.
func ToCanonical(internal string) string {
	if internal == "" {
		return ""
	}
	return strings.ReplaceAll(internal, "/", ".")
}

// ToInternal is the inverse of ToCanonical: it converts a canonical dotted
// name to the slash-separated form used in class file resource paths, e.g.
// for building "a/b/C.class".
func ToInternal(canonical string) string {
	return strings.ReplaceAll(canonical, ".", "/")
}

// ResourcePath returns the slash-form ".class" resource path for a
// canonical type name, as used to ask a loader domain for class bytes.
func ResourcePath(canonicalName string) string {
	return ToInternal(canonicalName) + ".class"
}

const objectName = "java.lang.Object"
