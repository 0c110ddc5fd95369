package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newIncludesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "includes <makefile>",
		Short: "Print the -I arguments listed in a generated nginx Makefile",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return c.app.Includes(args[0])
		},
	}
}
