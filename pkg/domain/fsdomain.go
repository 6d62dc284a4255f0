package domain

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// archiveEntry is one .jar/.jmod on the classpath: jmod files carry a
// 4-byte "JM\x01\x00" header before the zip payload, jars don't.
type archiveEntry struct {
	path      string
	jmod      bool
	once      sync.Once
	zipReader *zip.Reader
	openErr   error
}

func (a *archiveEntry) reader() (*zip.Reader, error) {
	a.once.Do(func() {
		data, err := os.ReadFile(a.path)
		if err != nil {
			a.openErr = fmt.Errorf("domain: reading %s: %w", a.path, err)
			return
		}
		if a.jmod {
			if len(data) < 4 {
				a.openErr = fmt.Errorf("domain: %s too short to be a jmod", a.path)
				return
			}
			data = data[4:]
		}
		zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
		if err != nil {
			a.openErr = fmt.Errorf("domain: opening archive %s: %w", a.path, err)
			return
		}
		a.zipReader = zr
	})
	return a.zipReader, a.openErr
}

func (a *archiveEntry) bytesFor(entryName string) ([]byte, bool, error) {
	zr, err := a.reader()
	if err != nil {
		return nil, false, err
	}
	prefix := ""
	if a.jmod {
		prefix = "classes/"
	}
	target := prefix + entryName
	for _, f := range zr.File {
		if f.Name == target {
			rc, err := f.Open()
			if err != nil {
				return nil, false, fmt.Errorf("domain: opening %s in %s: %w", target, a.path, err)
			}
			defer rc.Close()
			data, err := io.ReadAll(rc)
			if err != nil {
				return nil, false, fmt.Errorf("domain: reading %s in %s: %w", target, a.path, err)
			}
			return data, true, nil
		}
	}
	return nil, false, nil
}

// FSDomain resolves class bytes from an ordered classpath of directories
// and jar/jmod archives, optionally delegating to a Parent domain first.
// One type covers both a root, bootstrap-like domain with no parent and a
// delegating child domain that defers to one. Each FSDomain carries a UUID
// purely for log correlation; the cache keys on its *Handle, never the
// UUID.
type FSDomain struct {
	ID     uuid.UUID
	handle *Handle
	Parent Domain // nil for the bootstrap-most domain

	dirs     []string
	archives []*archiveEntry

	mu      sync.Mutex
	definer map[string]*Handle // name -> domain that actually served it
}

// NewFSDomain creates an FSDomain over the given classpath entries. Entries
// ending in .jmod are treated as jmod-format archives (zip payload behind a
// 4-byte header); entries ending in .jar are treated as plain zip archives;
// everything else is treated as a directory of loose .class files.
func NewFSDomain(id string, parent Domain, classpath ...string) *FSDomain {
	d := &FSDomain{
		ID:      uuid.New(),
		handle:  NewHandle(id),
		Parent:  parent,
		definer: make(map[string]*Handle),
	}
	for _, entry := range classpath {
		switch filepath.Ext(entry) {
		case ".jmod":
			d.archives = append(d.archives, &archiveEntry{path: entry, jmod: true})
		case ".jar":
			d.archives = append(d.archives, &archiveEntry{path: entry})
		default:
			d.dirs = append(d.dirs, entry)
		}
	}
	return d
}

func (d *FSDomain) Handle() *Handle { return d.handle }

func (d *FSDomain) ResourceBytes(ctx context.Context, resourcePath string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	if d.Parent != nil {
		if data, ok, err := d.Parent.ResourceBytes(ctx, resourcePath); ok || err != nil {
			if ok {
				d.markDefiner(resourcePath, d.parentHandle())
			}
			return data, ok, err
		}
	}
	for _, dir := range d.dirs {
		data, err := os.ReadFile(filepath.Join(dir, resourcePath))
		if err == nil {
			d.markDefiner(resourcePath, d.handle)
			return data, true, nil
		}
		if !os.IsNotExist(err) {
			return nil, false, fmt.Errorf("domain: reading %s: %w", resourcePath, err)
		}
	}
	for _, a := range d.archives {
		data, ok, err := a.bytesFor(resourcePath)
		if err != nil {
			return nil, false, err
		}
		if ok {
			d.markDefiner(resourcePath, d.handle)
			return data, true, nil
		}
	}
	return nil, false, nil
}

func (d *FSDomain) parentHandle() *Handle {
	if p, ok := d.Parent.(*FSDomain); ok {
		return p.handle
	}
	return nil
}

func (d *FSDomain) markDefiner(resourcePath string, h *Handle) {
	d.mu.Lock()
	d.definer[resourcePath] = h
	d.mu.Unlock()
}

// FindLoaded reports the domain that has already served this resource path
// through ResourceBytes or ForceLoad, checking this domain before
// delegating to Parent. A real JVM tracks this via the loaded-class table;
// this in-process analogue tracks it via successful resolutions.
func (d *FSDomain) FindLoaded(name string) (*Handle, bool) {
	d.mu.Lock()
	h, ok := d.definer[pathFor(name)]
	d.mu.Unlock()
	if ok {
		return h, true
	}
	if d.Parent != nil {
		return d.Parent.FindLoaded(name)
	}
	return nil, false
}

// ForceLoad performs a non-initializing, name-based resolution: it is
// exactly ResourceBytes plus bookkeeping, with no reflection or
// initialization performed.
func (d *FSDomain) ForceLoad(ctx context.Context, name string) (*Handle, bool, error) {
	_, ok, err := d.ResourceBytes(ctx, pathFor(name))
	if err != nil || !ok {
		return nil, false, err
	}
	definer, _ := d.FindLoaded(name)
	return definer, true, nil
}

// Reflect is unsupported on FSDomain: it never holds a live loaded-type
// table, only class bytes. Real embedders needing Fallback A/B wire a
// runtime-reflection-backed Domain instead; FSDomain always reports
// ok=false so the cache's fallback reports TypeNotFound rather than
// silently fabricating structure.
func (d *FSDomain) Reflect(*Handle, string) (Structural, bool, error) {
	return Structural{}, false, nil
}

func pathFor(canonicalName string) string {
	return strings.ReplaceAll(canonicalName, ".", "/") + ".class"
}
