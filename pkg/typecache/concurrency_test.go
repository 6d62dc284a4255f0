package typecache_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/outlinehq/typecache/pkg/classfile"
	"github.com/outlinehq/typecache/pkg/domain"
	"github.com/outlinehq/typecache/pkg/typecache"
)

// handleDomain is a bare-bones Domain that only identifies itself, for
// tests that need to address an already-installed per-domain map by handle
// without standing up a full StaticDomain.
type handleDomain struct{ h *domain.Handle }

func (d handleDomain) Handle() *domain.Handle { return d.h }
func (d handleDomain) ResourceBytes(context.Context, string) ([]byte, bool, error) {
	return nil, false, nil
}
func (d handleDomain) FindLoaded(string) (*domain.Handle, bool) { return nil, false }
func (d handleDomain) ForceLoad(context.Context, string) (*domain.Handle, bool, error) {
	return nil, false, nil
}
func (d handleDomain) Reflect(*domain.Handle, string) (domain.Structural, bool, error) {
	return domain.Structural{}, false, nil
}

// TestConcurrentGetParsedTypeInstallsExactlyOneRecord drives ten goroutines
// at the same miss simultaneously and checks every one of them observes the
// identical ParsedType value, proving the per-domain map's compare-and-set
// install never lets two parses of the same name coexist.
func TestConcurrentGetParsedTypeInstallsExactlyOneRecord(t *testing.T) {
	d := domain.NewStaticDomain("user", nil)
	d.WithResource("a/B.class", buildClassBytes(t, classSpec{
		access: classfile.AccPublic,
		name:   "a/B",
		methods: []methodSpec{
			{name: "f", desc: "()V", access: classfile.AccPublic},
		},
	}))
	c := typecache.New()

	const workers = 10
	results := make([]classfile.ParsedType, workers)

	var g errgroup.Group
	for i := 0; i < workers; i++ {
		i := i
		g.Go(func() error {
			pt, err := c.GetParsedType(t.Context(), "a.B", d)
			if err != nil {
				return err
			}
			results[i] = pt
			return nil
		})
	}
	require.NoError(t, g.Wait())

	for i := 1; i < workers; i++ {
		assert.Equal(t, results[0], results[i])
	}
}

// TestConcurrentAddAcrossDomainsIsolated checks that Add against distinct
// domain handles never cross-contaminates per-domain maps even when run
// concurrently.
func TestConcurrentAddAcrossDomainsIsolated(t *testing.T) {
	c := typecache.New()
	const domains = 8

	handles := make([]*domain.Handle, domains)
	for i := range handles {
		handles[i] = domain.NewHandle("d")
	}

	var g errgroup.Group
	for i := 0; i < domains; i++ {
		i := i
		g.Go(func() error {
			c.Add(classfile.ParsedType{Name: "a.Shared", SuperName: "a.Base"}, handles[i])
			return nil
		})
	}
	require.NoError(t, g.Wait())

	for i := range handles {
		pt, err := c.GetParsedType(t.Context(), "a.Shared", handleDomain{h: handles[i]})
		require.NoError(t, err)
		assert.Equal(t, "a.Base", pt.SuperName)
	}
}
