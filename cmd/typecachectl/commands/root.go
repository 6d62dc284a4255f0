// Package commands implements the CLI commands for typecachectl, the
// operator-facing front end over a parsed-type cache.
package commands

import (
	"context"
	"io"

	"github.com/spf13/cobra"
)

// CLI wraps the root cobra command and the configuration path every
// subcommand resolves its classpath and search defaults from.
type CLI struct {
	rootCmd *cobra.Command
}

// New builds the typecachectl command tree.
func New() *CLI {
	rootCmd := &cobra.Command{
		Use:           "typecachectl",
		Short:         "Inspect a parsed-type cache over a JVM classpath",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringP("config", "c", "typecache.yaml", "path to the typecache config file")

	c := &CLI{rootCmd: rootCmd}
	rootCmd.AddCommand(c.newInspectCmd())
	rootCmd.AddCommand(c.newHierarchyCmd())
	rootCmd.AddCommand(c.newSearchCmd())
	rootCmd.AddCommand(c.newWarmCmd())
	return c
}

// Execute runs the root command under ctx.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

func configPath(cmd *cobra.Command) string {
	p, _ := cmd.Flags().GetString("config")
	return p
}
