package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) newOrderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "order",
		Short: "Show the compilation order of all units",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withSession(cmd, func(ctx context.Context, sessionID string) error {
				order, err := c.app.GetCompilationOrder(ctx, sessionID)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				for i, unitID := range order {
					_, _ = fmt.Fprintf(out, "%d. %s\n", i+1, unitID)
				}
				return nil
			})
		},
	}
}
