package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) newHierarchyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hierarchy <type-name>",
		Short: "Print the depth-first super-type and interface closure",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, dom, _, err := open(configPath(cmd))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, pt := range cache.TypeHierarchy(cmd.Context(), args[0], dom) {
				kind := "class"
				if pt.IsInterface {
					kind = "interface"
				}
				fmt.Fprintf(out, "%s %s\n", kind, pt.Name)
			}
			return nil
		},
	}
}
