package commands

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func (c *CLI) newGraphCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "graph",
		Short: "Show the workspace dependency graph",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withSession(cmd, func(ctx context.Context, sessionID string) error {
				report, err := c.app.GetDependencyGraph(ctx, sessionID)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				_, _ = fmt.Fprintf(out, "%d unit(s), %d dependency edge(s)\n\n", report.Stats.UnitCount, report.Stats.EdgeCount)

				w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				_, _ = fmt.Fprintln(w, "UNIT\tNAME\tLANGUAGE\tDOCS\tREFS")
				for _, u := range report.Units {
					_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\n", u.ID, u.Name, u.Language, u.DocumentCount, u.ReferenceCount)
				}
				if err := w.Flush(); err != nil {
					return err
				}

				_, _ = fmt.Fprintf(out, "\nleaf units: %s\n", strings.Join(report.LeafUnitIDs, ", "))
				_, _ = fmt.Fprintf(out, "root units: %s\n", strings.Join(report.RootUnitIDs, ", "))
				return nil
			})
		},
	}
}
