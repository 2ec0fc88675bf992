// Package commands implements the CLI commands for the ripple analysis engine.
package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.trai.ch/ripple/internal/adapters/workspace"
	"go.trai.ch/ripple/internal/app"
	"go.trai.ch/ripple/internal/build"
	"go.trai.ch/ripple/internal/core/domain"
)

// cliSessionID is the ephemeral session used by one-shot commands.
const cliSessionID = "cli"

// CLI represents the command line interface for ripple.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	CreateSession(ctx context.Context, id, root string) (domain.Session, error)
	CloseSession(ctx context.Context, id string) error
	GetDependencyGraph(ctx context.Context, id string) (app.GraphReport, error)
	GetCompilationOrder(ctx context.Context, id string) ([]string, error)
	GetImpactAnalysis(ctx context.Context, id, unitID string) (app.ImpactReport, error)
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	rootCmd := &cobra.Command{
		Use:           "ripple",
		Short:         "Incremental re-analysis for multi-unit workspaces",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	rootCmd.PersistentFlags().StringP("workspace", "w", "", "Workspace root (default: discovered from the current directory)")

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.AddCommand(c.newGraphCmd())
	rootCmd.AddCommand(c.newOrderCmd())
	rootCmd.AddCommand(c.newImpactCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
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

// withSession resolves the workspace root, runs fn inside an ephemeral
// session and closes the session afterwards.
func (c *CLI) withSession(cmd *cobra.Command, fn func(ctx context.Context, sessionID string) error) error {
	ctx := cmd.Context()

	root, _ := cmd.Flags().GetString("workspace")
	if root == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		root, err = workspace.DiscoverRoot(cwd)
		if err != nil {
			return err
		}
	}

	if _, err := c.app.CreateSession(ctx, cliSessionID, root); err != nil {
		return err
	}
	defer func() {
		_ = c.app.CloseSession(ctx, cliSessionID)
	}()

	return fn(ctx, cliSessionID)
}
