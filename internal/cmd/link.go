package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	clierrors "github.com/salmonumbrella/rofi-linear/internal/errors"
	"github.com/salmonumbrella/rofi-linear/internal/iocontext"
	"github.com/salmonumbrella/rofi-linear/internal/linear"
	"github.com/salmonumbrella/rofi-linear/internal/prompt"
	"github.com/salmonumbrella/rofi-linear/internal/session"
	"github.com/salmonumbrella/rofi-linear/internal/ui"
)

func newLinkCmd(app *App) *cobra.Command {
	var (
		teamRef string
		alias   string
	)

	cmd := &cobra.Command{
		Use:   "link",
		Short: "Link a team from Linear",
		Long: `Fetch the teams of your Linear workspace and link one under a short alias.

The first linked team becomes the default team for 'rofi-linear run'.
Linking an existing alias again replaces it.

Example:
  rofi-linear link
  rofi-linear link --team ENG --alias eng`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sess, err := SessionFromContext(ctx)
			if err != nil {
				return err
			}

			ui.FromContext(ctx).Step("Fetching teams from Linear...")
			teams, err := sess.LinkableTeams(ctx)
			if err != nil {
				return err
			}

			p := app.prompter(PrompterKindFromContext(ctx, prompt.KindTerminal), iocontext.FromContext(ctx))

			var team linear.Team
			if teamRef != "" {
				found, ok := session.FindTeam(teams, teamRef)
				if !ok {
					return clierrors.New(clierrors.KindTeamNotFound, fmt.Sprintf("no Linear team with key or ID %q", teamRef)).
						WithSuggestion("Run 'rofi-linear link' without --team to choose from the list")
				}
				team = found
			} else {
				options := make([]string, len(teams))
				for i, t := range teams {
					options[i] = fmt.Sprintf("%s (%s)", t.Name, t.Key)
				}
				idx, ok, err := p.Select(ctx, "Select team", options)
				if err != nil {
					return err
				}
				if !ok {
					return nil
				}
				team = teams[idx]
			}

			if alias == "" && teamRef == "" {
				def := session.DefaultAlias(team)
				answer, ok, err := p.Input(ctx, fmt.Sprintf("Alias for this team (default: %s)", def), def)
				if err != nil {
					return err
				}
				if !ok {
					return nil
				}
				alias = answer
			}

			link, err := sess.LinkTeam(team, alias)
			if err != nil {
				return err
			}

			if structuredOutput(ctx) {
				return printerForContext(ctx).Print(ctx, link)
			}
			say(ctx, "Team '%s' linked as '%s'!", link.Name, link.Alias)
			return nil
		},
	}

	cmd.Flags().StringVar(&teamRef, "team", "", "Team key or ID to link without prompting")
	cmd.Flags().StringVar(&alias, "alias", "", "Alias for the team (default: lower-cased team key)")
	return cmd
}
