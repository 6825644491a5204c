package cmd

import (
	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List linked teams",
		Long: `List the linked teams. The default team is marked.

Example:
  rofi-linear list
  rofi-linear list --output json --query '.[] | select(.default) | .alias'`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sess, err := SessionFromContext(ctx)
			if err != nil {
				return err
			}
			teams, err := sess.ListTeams()
			if err != nil {
				return err
			}

			if structuredOutput(ctx) {
				return printerForContext(ctx).Print(ctx, teams)
			}

			if len(teams) == 0 {
				say(ctx, "No teams linked.")
				say(ctx, "Run 'rofi-linear link' to link a team.")
				return nil
			}
			say(ctx, "Linked teams:")
			for _, t := range teams {
				marker := ""
				if t.Default {
					marker = " (default)"
				}
				say(ctx, "  %s - %s%s", t.Alias, t.Name, marker)
			}
			return nil
		},
	}
}
