package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/salmonumbrella/rofi-linear/internal/cmdutil"
	clierrors "github.com/salmonumbrella/rofi-linear/internal/errors"
	"github.com/salmonumbrella/rofi-linear/internal/iocontext"
	"github.com/salmonumbrella/rofi-linear/internal/linear"
	"github.com/salmonumbrella/rofi-linear/internal/prompt"
	"github.com/salmonumbrella/rofi-linear/internal/session"
)

const noTeamsLinkedMessage = "No teams linked. Run 'rofi-linear link' first."

type runOptions struct {
	quick       bool
	openIssue   bool
	multiTeam   bool
	title       string
	description string

	titleSet       bool
	descriptionSet bool
}

func newRunCmd(app *App) *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run [alias]",
		Short: "Create a new issue",
		Long: `Prompt for a title (and a description unless --quick) and create an
issue in the given team, or in the default team.

After creation a notification shows the issue; activating it opens the
issue in the browser. With --open-issue the browser is opened directly.

Example:
  rofi-linear run
  rofi-linear run ops --quick
  rofi-linear run --multi-team --open-issue
  rofi-linear run eng --title "Fix login" --output json
  git log -1 --format=%B | rofi-linear run --title "Follow up" --description -`,
		Args: usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sess, err := SessionFromContext(ctx)
			if err != nil {
				return err
			}
			opts.titleSet = cmd.Flags().Changed("title")
			opts.descriptionSet = cmd.Flags().Changed("description") || cmd.Flags().Changed("desc")

			if opts.descriptionSet {
				opts.description, err = cmdutil.ReadTextArg(opts.description, iocontext.Stdin(ctx))
				if err != nil {
					return err
				}
			}

			var alias string
			if len(args) == 1 {
				alias = args[0]
			}
			p := app.prompter(PrompterKindFromContext(ctx, prompt.KindRofi), iocontext.FromContext(ctx))
			return runCreateIssue(ctx, sess, p, app.desktop(), alias, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.quick, "quick", "q", false, "Quick mode: title only")
	cmd.Flags().BoolVarP(&opts.openIssue, "open-issue", "o", false, "Open the issue in the browser after creation")
	cmd.Flags().BoolVarP(&opts.multiTeam, "multi-team", "m", false, "Choose the team when two or more are linked")
	cmd.Flags().StringVar(&opts.title, "title", "", "Issue title (skips the title prompt)")
	cmd.Flags().StringVar(&opts.description, "description", "", "Issue description (skips the description prompt; @file or - for stdin)")
	flagAlias(cmd.Flags(), "description", "desc")
	return cmd
}

func runCreateIssue(ctx context.Context, sess *session.Session, p prompt.Prompter, desk prompt.Desktop, alias string, opts runOptions) error {
	hasKey, err := sess.HasCredential()
	if err != nil {
		return err
	}
	if !hasKey {
		return clierrors.MissingCredential()
	}

	if alias == "" {
		chosen, ok, err := chooseTeam(ctx, sess, p, opts.multiTeam)
		if err != nil || !ok {
			return err
		}
		alias = chosen
	}
	if _, err := sess.ResolveTeam(alias); err != nil {
		return err
	}

	// --title makes the command non-interactive; the session rejects a blank one.
	title := opts.title
	if !opts.titleSet {
		answer, ok, err := p.Input(ctx, "Title", "Issue title...")
		if err != nil {
			return err
		}
		// An empty title at the prompt is treated like dismissing it.
		if !ok || answer == "" {
			return nil
		}
		title = answer
	}

	description := opts.description
	if !opts.descriptionSet && !opts.quick && !opts.titleSet {
		answer, ok, err := p.InputMultiline(ctx, "Description", "Optional description...")
		if err != nil {
			return err
		}
		if ok {
			description = answer
		}
	}

	issue, err := sess.CreateIssue(ctx, alias, title, description)
	if err != nil {
		desk.Notify(ctx, prompt.NotifyApp, fmt.Sprintf("Failed to create issue: %v", err), false)
		return err
	}
	slog.Debug("issue created", "identifier", issue.Identifier, "url", issue.URL)

	announceIssue(ctx, desk, issue, opts.openIssue)

	if structuredOutput(ctx) {
		return printerForContext(ctx).Print(ctx, issue)
	}
	say(ctx, "%s %s", issue.Identifier, issue.URL)
	return nil
}

// chooseTeam picks the team when no alias was given. ok is false when the
// command should end without error: nothing linked, or selection cancelled.
func chooseTeam(ctx context.Context, sess *session.Session, p prompt.Prompter, multiTeam bool) (string, bool, error) {
	teams, err := sess.ListTeams()
	if err != nil {
		return "", false, err
	}
	switch {
	case len(teams) == 0:
		if err := p.Error(ctx, noTeamsLinkedMessage); err != nil {
			slog.Debug("failed to show error", "error", err)
		}
		return "", false, nil
	case len(teams) == 1:
		return teams[0].Alias, true, nil
	case !multiTeam:
		// Empty alias resolves to the default team.
		return "", true, nil
	}

	options := make([]string, len(teams))
	for i, t := range teams {
		options[i] = fmt.Sprintf("%s (%s)", t.Alias, t.Name)
	}
	idx, ok, err := p.Select(ctx, "Team", options)
	if err != nil || !ok {
		return "", false, err
	}
	return teams[idx].Alias, true, nil
}

// announceIssue opens the issue and/or shows the created-issue
// notification. Both are best effort.
func announceIssue(ctx context.Context, desk prompt.Desktop, issue *linear.Issue, openIssue bool) {
	body := fmt.Sprintf("%s - %s", issue.Identifier, issue.Title)
	if openIssue {
		desk.OpenURL(ctx, issue.URL)
		desk.Notify(ctx, prompt.NotifyApp, body, false)
		return
	}
	if desk.Notify(ctx, prompt.NotifyApp, body, true) {
		desk.OpenURL(ctx, issue.URL)
	}
}
