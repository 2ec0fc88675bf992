package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) newImpactCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "impact <unit>",
		Short: "Show which units a change to the given unit would invalidate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd, func(ctx context.Context, sessionID string) error {
				report, err := c.app.GetImpactAnalysis(ctx, sessionID, args[0])
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				_, _ = fmt.Fprintf(out, "changing %s affects %d unit(s):\n", report.TargetUnit, report.AffectedUnitCount)
				for _, unitID := range report.AffectedUnits {
					_, _ = fmt.Fprintf(out, "  %s\n", unitID)
				}
				return nil
			})
		},
	}
}
