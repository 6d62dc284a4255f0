package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <type-name>",
		Short: "Resolve and print one parsed type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, dom, _, err := open(configPath(cmd))
			if err != nil {
				return err
			}

			pt, err := cache.GetParsedType(cmd.Context(), args[0], dom)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			kind := "class"
			if pt.IsInterface {
				kind = "interface"
			}
			superLine := pt.SuperName
			if superLine == "" {
				superLine = "(none)"
			}
			fmt.Fprintf(out, "%s %s\n", kind, pt.Name)
			fmt.Fprintf(out, "  super: %s\n", superLine)
			fmt.Fprintf(out, "  interfaces: %v\n", pt.InterfaceNames)
			fmt.Fprintf(out, "  methods:\n")
			for _, m := range pt.Methods {
				fmt.Fprintf(out, "    %s%v %s\n", m.Name, m.ParamDescs, m.ReturnDesc)
			}
			return nil
		},
	}
}
