package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

func (c *CLI) newSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <partial>",
		Short: "List cached type names containing partial, case-insensitively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, dom, cfg, err := open(configPath(cmd))
			if err != nil {
				return err
			}
			// Search only ever sees names this process has resolved. Warm
			// every plain-directory classpath entry first so a cold CLI
			// invocation still has something to search over; jar/jmod
			// entries are left for on-demand resolution via inspect/hierarchy.
			for _, entry := range cfg.Classpath {
				if ext := filepath.Ext(entry); ext == ".jar" || ext == ".jmod" {
					continue
				}
				if _, err := warmTree(cmd.Context(), cache, dom.Handle(), entry); err != nil {
					return err
				}
			}

			limit, _ := cmd.Flags().GetInt("limit")
			if limit == 0 {
				limit = cfg.Search.DefaultLimit
			}
			for _, name := range cache.MatchingTypeNames(args[0], limit) {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
	cmd.Flags().Int("limit", 0, "maximum results (0 uses the configured default)")
	return cmd
}
