package cmd

import (
	"github.com/spf13/cobra"

	"github.com/salmonumbrella/rofi-linear/internal/iocontext"
	"github.com/salmonumbrella/rofi-linear/internal/mcp"
)

func newMCPCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve rofi-linear over the Model Context Protocol (stdio)",
		Long: `Run an MCP server on stdin/stdout for editor agents.

Tools:
  list_teams      list the linked teams
  create_issue    create an issue {title, description?, team?}

Uses the same API key and linked teams as the other commands.`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sess, err := SessionFromContext(ctx)
			if err != nil {
				return err
			}
			streams := iocontext.FromContext(ctx)
			return mcp.NewServer(sess, app.Version).ServeStdio(ctx, streams.In, streams.Out)
		},
	}
}
