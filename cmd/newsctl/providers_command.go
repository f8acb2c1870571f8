package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newProvidersCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "List the providers fetch will call",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := ctx.ensureApp(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(a.fetchers) == 0 {
				fmt.Fprintln(out, "No providers are configured")
				return nil
			}
			fmt.Fprintln(out, renderProviders(a.fetchers))
			return nil
		},
	}
}
