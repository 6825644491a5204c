package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/salmonumbrella/rofi-linear/internal/auth"
	"github.com/salmonumbrella/rofi-linear/internal/iocontext"
	"github.com/salmonumbrella/rofi-linear/internal/logging"
	"github.com/salmonumbrella/rofi-linear/internal/prompt"
	"github.com/salmonumbrella/rofi-linear/internal/ui"
)

// APIKeySettingsURL is where Linear personal API keys are created.
const APIKeySettingsURL = "https://linear.app/settings/account/security"

func newAuthCmd(app *App) *cobra.Command {
	var noBrowser bool

	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Set up the Linear API key",
		Long: `Store a Linear personal API key after validating it against the API.

Opens the Linear API key settings in the browser, then reads the key.
When stdin is not a terminal the key is read as one line, so it can be
piped in:

  echo "$KEY" | rofi-linear auth --no-browser`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sess, err := SessionFromContext(ctx)
			if err != nil {
				return err
			}
			u := ui.FromContext(ctx)

			if noBrowser {
				say(ctx, "Create a Linear API key at %s", APIKeySettingsURL)
			} else {
				say(ctx, "Opening Linear API key settings in browser...")
				app.desktop().OpenURL(ctx, APIKeySettingsURL)
			}
			say(ctx, "")
			say(ctx, "Create a new API key and paste it below.")
			say(ctx, "(The key should start with '%s')", logging.APIKeyPrefix)
			say(ctx, "")

			p := app.prompter(PrompterKindFromContext(ctx, prompt.KindTerminal), iocontext.FromContext(ctx))
			key, ok, err := p.Password(ctx, "API Key", logging.APIKeyPrefix+"...")
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}

			u.Step("Validating API key...")
			viewer, err := sess.Authenticate(ctx, key)
			if err != nil {
				return err
			}

			if os.Getenv(auth.EnvVarName) != "" {
				u.Warning("%s is set and takes precedence over the stored key", auth.EnvVarName)
			}

			if structuredOutput(ctx) {
				return printerForContext(ctx).Print(ctx, viewer)
			}
			say(ctx, "")
			say(ctx, "Success! Authenticated as %s (%s)", viewer.Name, viewer.Email)
			say(ctx, "")
			say(ctx, "Next steps:")
			say(ctx, "  1. Link a team: rofi-linear link")
			say(ctx, "  2. Create an issue: rofi-linear run")
			return nil
		},
	}

	cmd.Flags().BoolVar(&noBrowser, "no-browser", false, "Do not open the browser; print the settings URL instead")
	return cmd
}
