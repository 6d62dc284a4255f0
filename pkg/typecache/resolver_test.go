package typecache_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/outlinehq/typecache/pkg/classfile"
	"github.com/outlinehq/typecache/pkg/domain"
	"github.com/outlinehq/typecache/pkg/typecache"
)

func TestGetParsedTypeParsesFromBytesAndCaches(t *testing.T) {
	d := domain.NewStaticDomain("user", nil)
	d.WithResource("a/B.class", buildClassBytes(t, classSpec{access: classfile.AccPublic, name: "a/B"}))

	c := typecache.New()
	pt, err := c.GetParsedType(t.Context(), "a.B", d)
	require.NoError(t, err)
	assert.Equal(t, "a.B", pt.Name)

	// second call must hit the per-domain map, not re-parse.
	pt2, err := c.GetParsedType(t.Context(), "a.B", d)
	require.NoError(t, err)
	assert.Equal(t, pt, pt2)
}

func TestGetParsedTypeTypeNotFound(t *testing.T) {
	d := domain.NewStaticDomain("user", nil)
	c := typecache.New()
	_, err := c.GetParsedType(t.Context(), "a.Missing", d)
	require.Error(t, err)
	assert.ErrorIs(t, err, typecache.ErrTypeNotFound)
}

func TestGetParsedTypeBootstrapDomainNil(t *testing.T) {
	boot := domain.NewStaticDomain("bootstrap", nil)
	boot.WithResource("java/lang/String.class", buildClassBytes(t, classSpec{access: classfile.AccPublic, name: "java/lang/String"}))
	c := typecache.New(typecache.WithBootstrapDomain(boot))

	pt, err := c.GetParsedType(t.Context(), "java.lang.String", nil)
	require.NoError(t, err)
	assert.Equal(t, "java.lang.String", pt.Name)
}

func TestGetParsedTypePreloadProbeResolvesUnderDefiner(t *testing.T) {
	boot := domain.NewStaticDomain("bootstrap", nil)
	boot.WithResource("a/B.class", buildClassBytes(t, classSpec{access: classfile.AccPublic, name: "a/B"}))

	user := domain.NewStaticDomain("user", boot)
	// Simulate the JVM having already resolved a.B under boot even though
	// the request arrives scoped to user.
	user.WithLoaded("a.B", boot.Handle())

	c := typecache.New()
	pt, err := c.GetParsedType(t.Context(), "a.B", user)
	require.NoError(t, err)
	assert.Equal(t, "a.B", pt.Name)

	// Resolving the same name directly under boot must see the same cached
	// record, proving it installed under boot's map, not user's.
	pt2, err := c.GetParsedType(t.Context(), "a.B", boot)
	require.NoError(t, err)
	assert.Equal(t, pt, pt2)
}

func TestGetParsedTypeFallbackAReflectsWhenNoBytes(t *testing.T) {
	d := domain.NewStaticDomain("user", nil)
	d.WithLoaded("a.C", d.Handle())
	d.WithReflected("a.C", domain.Structural{
		SuperName:      "a.B",
		InterfaceNames: []string{"a.I"},
		Methods:        []domain.Method{{Name: "f", ReturnDesc: "V"}},
	})

	c := typecache.New()
	pt, err := c.GetParsedType(t.Context(), "a.C", d)
	require.NoError(t, err)
	assert.Equal(t, "a.B", pt.SuperName)
	assert.Equal(t, []string{"a.I"}, pt.InterfaceNames)
	require.Len(t, pt.Methods, 1)
	assert.Equal(t, "f", pt.Methods[0].Name)
}

func TestGetParsedTypeFallbackBForcesLoadThenReflects(t *testing.T) {
	d := domain.NewStaticDomain("user", nil)
	// No bytes and not already loaded, but the domain can force the class
	// into existence (e.g. dynamically generated) and then reflect over it.
	d.WithForceLoadable("a.D")
	d.WithReflected("a.D", domain.Structural{SuperName: "a.B"})

	c := typecache.New()
	pt, err := c.GetParsedType(t.Context(), "a.D", d)
	require.ErrorIs(t, err, typecache.ErrLoaderBypass)
	assert.Equal(t, "a.B", pt.SuperName)
}

func TestTypeHierarchyWalksSuperAndInterfacesDepthFirst(t *testing.T) {
	d := domain.NewStaticDomain("user", nil)
	d.WithResource("a/I.class", buildClassBytes(t, classSpec{
		access: classfile.AccPublic | classfile.AccInterface | classfile.AccAbstract,
		name:   "a/I",
	}))
	d.WithResource("a/B.class", buildClassBytes(t, classSpec{
		access:     classfile.AccPublic,
		name:       "a/B",
		interfaces: []string{"a/I"},
	}))
	d.WithResource("a/C.class", buildClassBytes(t, classSpec{
		access:     classfile.AccPublic,
		name:       "a/C",
		superName:  "a/B",
		interfaces: []string{"a/I"},
	}))

	c := typecache.New()
	h := c.TypeHierarchy(t.Context(), "a.C", d)

	names := make([]string, len(h))
	for i, pt := range h {
		names[i] = pt.Name
	}
	// a.C itself, then its super chain (a.B, which pulls in a.I), then a.C's
	// own declared interface a.I again: duplicates are permitted by design.
	assert.Equal(t, []string{"a.C", "a.B", "a.I", "a.I"}, names)
}

func TestTypeHierarchyOfObjectIsEmpty(t *testing.T) {
	c := typecache.New()
	assert.Empty(t, c.TypeHierarchy(t.Context(), "java.lang.Object", nil))
	assert.Empty(t, c.TypeHierarchy(t.Context(), "", nil))
}

func TestTypeHierarchyStopsBranchOnMissingSuper(t *testing.T) {
	d := domain.NewStaticDomain("user", nil)
	d.WithResource("a/C.class", buildClassBytes(t, classSpec{
		access:    classfile.AccPublic,
		name:      "a/C",
		superName: "a/Gone",
	}))
	c := typecache.New()
	h := c.TypeHierarchy(t.Context(), "a.C", d)
	require.Len(t, h, 1)
	assert.Equal(t, "a.C", h[0].Name)
}

func TestErrorsIsLoaderBypassIsNotFatal(t *testing.T) {
	err := typecache.ErrLoaderBypass
	assert.True(t, errors.Is(err, typecache.ErrLoaderBypass))
}
