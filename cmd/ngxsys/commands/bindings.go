package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newBindingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bindings",
		Short: "Prepare nginx and generate FFI bindings with bindgen",
		Long:  "Without --out the bindgen arguments are printed one per line instead of running bindgen.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := options(cmd)
			if err != nil {
				return err
			}
			out, err := cmd.Flags().GetString("out")
			if err != nil {
				return err
			}
			return c.app.Bindings(cmd.Context(), opts, out)
		},
	}
	cmd.Flags().StringP("out", "o", "", "Write generated bindings to this file")
	return cmd
}
