package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/salmonumbrella/rofi-linear/internal/auth"
	"github.com/salmonumbrella/rofi-linear/internal/config"
	"github.com/salmonumbrella/rofi-linear/internal/debug"
	clierrors "github.com/salmonumbrella/rofi-linear/internal/errors"
	"github.com/salmonumbrella/rofi-linear/internal/iocontext"
	"github.com/salmonumbrella/rofi-linear/internal/linear"
	"github.com/salmonumbrella/rofi-linear/internal/logging"
	"github.com/salmonumbrella/rofi-linear/internal/output"
	"github.com/salmonumbrella/rofi-linear/internal/prompt"
	"github.com/salmonumbrella/rofi-linear/internal/session"
	"github.com/salmonumbrella/rofi-linear/internal/ui"
	"github.com/salmonumbrella/rofi-linear/internal/validate"
)

const rootLong = `Create Linear issues from rofi.

Set up once from a terminal:
  rofi-linear auth        store and validate a Linear API key
  rofi-linear link        link a Linear team under a short alias

Then bind a key in your window manager to:
  rofi-linear run         prompt for a title and create the issue`

type globalFlags struct {
	debug           bool
	configDir       string
	credentialStore string
	prompter        string
	output          string
	query           string
	jsonPath        string
	errorFormat     string
	color           string
}

func newRootCmd(app *App) *cobra.Command {
	var flags globalFlags

	rootCmd := &cobra.Command{
		Use:           "rofi-linear",
		Short:         "Create Linear issues from rofi",
		Long:          rootLong,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := buildRootContext(cmd, app, flags)
			if ctx != nil {
				cmd.SetContext(ctx)
			}
			return err
		},
	}

	rootCmd.Version = app.Version
	rootCmd.SetVersionTemplate(fmt.Sprintf("rofi-linear %s (commit: %s, built: %s)\n", app.Version, app.Commit, app.BuildTime))
	rootCmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return clierrors.New(clierrors.KindUsage, err.Error()).
			WithSuggestion(fmt.Sprintf("Run '%s --help' for usage", c.CommandPath()))
	})

	// Long-only: run owns -q, -o and -m.
	pf := rootCmd.PersistentFlags()
	pf.BoolVar(&flags.debug, "debug", false, "Enable debug output (shows HTTP requests/responses)")
	pf.StringVar(&flags.configDir, "config-dir", "", "Configuration directory (overrides "+config.ConfigDirEnvVarName+")")
	pf.StringVar(&flags.credentialStore, "credential-store", "", "Where the API key is stored: file|keyring (overrides "+auth.BackendEnvVarName+")")
	pf.StringVar(&flags.prompter, "prompter", "", "Prompt backend: rofi|terminal (overrides "+prompt.KindEnvVarName+")")
	pf.StringVar(&flags.output, "output", "text", "Output format: text|json|yaml|table")
	pf.StringVar(&flags.query, "query", "", "JQ expression to filter structured output")
	pf.StringVar(&flags.jsonPath, "jsonpath", "", "Extract a value using JSONPath (e.g. $[0].alias)")
	pf.StringVar(&flags.errorFormat, "error-format", "auto", "Error output format (auto|text|json|yaml)")
	pf.StringVar(&flags.color, "color", "auto", "Color output: auto|always|never")
	flagAlias(pf, "output", "format")
	flagAlias(pf, "query", "jq")

	rootCmd.AddCommand(newAuthCmd(app))
	rootCmd.AddCommand(newLinkCmd(app))
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newUnlinkCmd(app))
	rootCmd.AddCommand(newRunCmd(app))
	rootCmd.AddCommand(newMCPCmd(app))
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

// buildRootContext validates the global flags and injects the output
// settings, the UI and the session. The returned context is usable for
// error rendering even when err is non-nil.
func buildRootContext(cmd *cobra.Command, app *App, flags globalFlags) (context.Context, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = iocontext.WithStreams(context.Background(), app.streams())
	}
	stderr := iocontext.Stderr(ctx)

	logging.Setup(flags.debug, stderr)
	ctx = debug.WithDebug(ctx, flags.debug)

	if err := validateErrorFormat(flags.errorFormat); err != nil {
		return ctx, err
	}
	ctx = WithErrorFormat(ctx, flags.errorFormat)

	format, err := output.ParseFormat(flags.output)
	if err != nil {
		return ctx, err
	}
	ctx = output.WithFormat(ctx, format)
	if format.Structured() {
		// Keep stderr machine-readable too.
		logging.SetupJSON(flags.debug, stderr)
	}
	if err := output.ValidateQuery(flags.query); err != nil {
		return ctx, err
	}
	ctx = output.WithQuery(ctx, flags.query)
	ctx = output.WithJSONPath(ctx, flags.jsonPath)

	colorMode, err := ui.ParseColorMode(flags.color)
	if err != nil {
		return ctx, clierrors.New(clierrors.KindUsage, err.Error())
	}
	ctx = ui.WithUI(ctx, ui.NewWithWriter(stderr, colorMode))

	kind, err := prompt.ParseKind(flagOrEnv(cmd, "prompter", flags.prompter, prompt.KindEnvVarName), "")
	if err != nil {
		return ctx, clierrors.New(clierrors.KindUsage, err.Error())
	}
	ctx = WithPrompterKind(ctx, kind)

	backend, err := auth.ParseBackend(flagOrEnv(cmd, "credential-store", flags.credentialStore, auth.BackendEnvVarName))
	if err != nil {
		return ctx, clierrors.New(clierrors.KindUsage, err.Error())
	}

	if endpoint := os.Getenv(linear.EndpointEnvVarName); endpoint != "" {
		if err := validate.Endpoint(linear.EndpointEnvVarName, endpoint); err != nil {
			return ctx, clierrors.New(clierrors.KindUsage, err.Error())
		}
	}

	dir := strings.TrimSpace(flags.configDir)
	if dir == "" {
		dir, err = config.DefaultDir()
		if err != nil {
			return ctx, err
		}
	}
	store := config.NewStore(dir)
	sess := session.New(auth.Select(backend, store, dir), store, app.clientFactory(ctx))
	return WithSession(WithStore(ctx, store), sess), nil
}

// flagOrEnv returns the flag value when it was set on the command line,
// otherwise the environment variable.
func flagOrEnv(cmd *cobra.Command, name, value, envVar string) string {
	if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
		return value
	}
	return os.Getenv(envVar)
}

func (a *App) clientFactory(ctx context.Context) session.ClientFactory {
	if a.NewClient != nil {
		return a.NewClient
	}
	endpoint := os.Getenv(linear.EndpointEnvVarName)
	traced := debug.IsDebug(ctx)
	stderr := iocontext.Stderr(ctx)
	return func(apiKey string) session.Remote {
		c := linear.NewClient(apiKey).WithEndpoint(endpoint)
		if traced {
			c = c.WithDebugOutput(stderr)
		}
		return c
	}
}

// usageArgs turns cobra's positional argument errors into usage errors.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return clierrors.New(clierrors.KindUsage, err.Error()).
				WithSuggestion(fmt.Sprintf("Run '%s --help' for usage", cmd.CommandPath()))
		}
		return nil
	}
}
