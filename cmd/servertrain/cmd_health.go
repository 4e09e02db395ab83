package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// healthCmd checks that the backend is up
var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the training backend is reachable",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := requestContext()
		defer cancel()

		c := newClient()
		hs, err := c.Health(ctx)
		if err != nil {
			return fmt.Errorf("backend at %s is not healthy: %w", c.BaseURL(), err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s (%s)\n", hs.Status, hs.Message, c.BaseURL())
		return nil
	},
}
