package commands

import (
	"fmt"

	"github.com/outlinehq/typecache/internal/config"
	"github.com/outlinehq/typecache/pkg/domain"
	"github.com/outlinehq/typecache/pkg/typecache"
)

// open loads the config at path and wires an FSDomain over its classpath
// plus an empty Cache. Each CLI invocation starts from a cold cache: nothing
// is persisted between processes, matching the cache's in-memory-only design.
func open(path string) (*typecache.Cache, *domain.FSDomain, *config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, nil, err
	}
	if len(cfg.Classpath) == 0 {
		return nil, nil, nil, fmt.Errorf("typecachectl: %s declares no classpath entries", path)
	}
	dom := domain.NewFSDomain("typecachectl", nil, cfg.Classpath...)
	cache := typecache.New()
	return cache, dom, cfg, nil
}
