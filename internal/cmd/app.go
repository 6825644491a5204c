package cmd

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/salmonumbrella/rofi-linear/internal/iocontext"
	"github.com/salmonumbrella/rofi-linear/internal/prompt"
	"github.com/salmonumbrella/rofi-linear/internal/session"
)

// App owns CLI wiring and execution configuration.
type App struct {
	Stdin     io.Reader
	Stdout    io.Writer
	Stderr    io.Writer
	Version   string
	Commit    string
	BuildTime string

	// NewPrompter builds the prompter for a kind. Nil selects rofi or the
	// terminal.
	NewPrompter func(kind prompt.Kind, streams iocontext.Streams) prompt.Prompter
	// Desktop sends notifications and opens URLs. Nil selects notify-send
	// and the platform opener.
	Desktop prompt.Desktop
	// NewClient builds the Linear client for an API key. Nil selects the
	// real client.
	NewClient session.ClientFactory
}

// NewApp constructs an App with default settings.
func NewApp() *App {
	return &App{
		Stdin:     os.Stdin,
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
		Version:   "dev",
		Commit:    "unknown",
		BuildTime: "unknown",
	}
}

// Execute runs the CLI with the provided args.
func (a *App) Execute(ctx context.Context, args []string) error {
	ctx = iocontext.WithStreams(ctx, a.streams())
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetIn(a.Stdin)
	root.SetOut(a.Stdout)
	root.SetErr(a.Stderr)

	executed, err := root.ExecuteContextC(ctx)
	if err == nil {
		return nil
	}
	errCtx := ctx
	if executed != nil && executed.Context() != nil {
		errCtx = executed.Context()
	}
	printCommandError(errCtx, err)
	return err
}

// RootCommand exposes the root Cobra command for embedding/tests.
func (a *App) RootCommand() *cobra.Command {
	return newRootCmd(a)
}

func (a *App) streams() iocontext.Streams {
	return iocontext.Streams{In: a.Stdin, Out: a.Stdout, Err: a.Stderr}
}

func (a *App) prompter(kind prompt.Kind, streams iocontext.Streams) prompt.Prompter {
	if a.NewPrompter != nil {
		return a.NewPrompter(kind, streams)
	}
	if kind == prompt.KindRofi {
		return prompt.NewRofi()
	}
	// Prompts go to stderr so stdout stays clean for --output json.
	return prompt.NewTerminal(streams.In, streams.Err)
}

func (a *App) desktop() prompt.Desktop {
	if a.Desktop != nil {
		return a.Desktop
	}
	return prompt.NewSystem()
}
