package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newPrepareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "prepare",
		Short: "Build nginx if needed and print its include directories",
		Args:  cobra.NoArgs,
		RunE:  c.runPrepare,
	}
}

func (c *CLI) runPrepare(cmd *cobra.Command, _ []string) error {
	opts, err := options(cmd)
	if err != nil {
		return err
	}
	return c.app.Prepare(cmd.Context(), opts)
}
