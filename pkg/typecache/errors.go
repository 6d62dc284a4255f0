package typecache

import "errors"

var (
	// ErrTypeNotFound signals a legitimate miss: the requested name cannot
	// be located by any path (no bytes, not loaded, force-load failed).
	ErrTypeNotFound = errors.New("typecache: type not found")

	// ErrResourceIO signals the loader domain's resource channel failed
	// while delivering bytes.
	ErrResourceIO = errors.New("typecache: resource io error")

	// ErrLoaderBypass is not a failure: it accompanies a valid,
	// reflection-synthesized ParsedType to report that Fallback B had to
	// force-load a type that was not previously loaded, so weaving was
	// bypassed for it. Callers that don't care can ignore it exactly like a
	// nil error; callers that do can check errors.Is(err, ErrLoaderBypass).
	ErrLoaderBypass = errors.New("typecache: loader bypassed, type was not woven")
)
