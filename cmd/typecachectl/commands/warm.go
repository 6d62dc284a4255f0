package commands

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/outlinehq/typecache/pkg/classfile"
	"github.com/outlinehq/typecache/pkg/domain"
	"github.com/outlinehq/typecache/pkg/typecache"
)

func (c *CLI) newWarmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "warm <dir>",
		Short: "Concurrently parse every .class file under dir and add it to the cache",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, dom, _, err := open(configPath(cmd))
			if err != nil {
				return err
			}
			n, err := warmTree(cmd.Context(), cache, dom.Handle(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "warmed %d types from %s\n", n, args[0])
			return nil
		},
	}
}

// warmTree walks dir for .class files, parses each one and adds it to cache
// under handle, bounding concurrency to the number of available CPUs. This
// is the CLI's stand-in for many concurrent instrumentation callbacks
// racing to install the same types.
func warmTree(ctx context.Context, cache *typecache.Cache, handle *domain.Handle, dir string) (int, error) {
	g, groupCtx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	var warmed int64
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".class") {
			return nil
		}
		g.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("typecachectl: reading %s: %w", path, err)
			}
			pt, err := classfile.Parse(data)
			if err != nil {
				return fmt.Errorf("typecachectl: parsing %s: %w", path, err)
			}
			cache.Add(pt, handle)
			atomic.AddInt64(&warmed, 1)
			return nil
		})
		return nil
	})
	if err != nil {
		return 0, err
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	return int(warmed), nil
}
