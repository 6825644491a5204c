package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/salmonumbrella/rofi-linear/internal/iocontext"
	"github.com/salmonumbrella/rofi-linear/internal/prompt"
)

func newUnlinkCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "unlink [alias]",
		Short: "Unlink a team",
		Long: `Remove a linked team. Without an alias, choose one from the linked teams.

When the default team is unlinked, the alphabetically first remaining
alias becomes the default.`,
		Args: usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sess, err := SessionFromContext(ctx)
			if err != nil {
				return err
			}

			var alias string
			if len(args) == 1 {
				alias = args[0]
			} else {
				teams, err := sess.ListTeams()
				if err != nil {
					return err
				}
				if len(teams) == 0 {
					say(ctx, "No teams linked.")
					return nil
				}
				options := make([]string, len(teams))
				for i, t := range teams {
					options[i] = fmt.Sprintf("%s (%s)", t.Alias, t.Name)
				}
				p := app.prompter(PrompterKindFromContext(ctx, prompt.KindTerminal), iocontext.FromContext(ctx))
				idx, ok, err := p.Select(ctx, "Select team to unlink", options)
				if err != nil {
					return err
				}
				if !ok {
					return nil
				}
				alias = teams[idx].Alias
			}

			if err := sess.UnlinkTeam(alias); err != nil {
				return err
			}

			if structuredOutput(ctx) {
				return printerForContext(ctx).Print(ctx, map[string]interface{}{
					"alias":    alias,
					"unlinked": true,
				})
			}
			say(ctx, "Team '%s' unlinked.", alias)
			return nil
		},
	}
}
