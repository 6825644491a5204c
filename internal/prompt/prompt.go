// Package prompt provides the interactive collaborators used by the
// commands: a Prompter for text and selection input and a Desktop for
// notifications and opening URLs.
//
// Every Prompter method reports cancellation through its ok result, which
// is distinct from an error. Callers treat a cancelled prompt as a clean
// exit. An accepted empty entry is ("", true), so callers can apply a
// default.
package prompt

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Prompter asks the user for input.
type Prompter interface {
	Input(ctx context.Context, label, placeholder string) (string, bool, error)
	InputMultiline(ctx context.Context, label, placeholder string) (string, bool, error)
	Password(ctx context.Context, label, placeholder string) (string, bool, error)
	Select(ctx context.Context, label string, options []string) (int, bool, error)
	Error(ctx context.Context, message string) error
}

// Desktop performs best-effort desktop side effects. Failures are logged
// and otherwise ignored.
type Desktop interface {
	// Notify shows a notification. With actionable set it waits for the
	// user and reports whether the notification's action was activated.
	Notify(ctx context.Context, summary, body string, actionable bool) bool
	OpenURL(ctx context.Context, url string)
}

// Kind names a Prompter implementation.
type Kind string

const (
	KindRofi     Kind = "rofi"
	KindTerminal Kind = "terminal"

	// KindEnvVarName selects the prompter when --prompter is not given.
	KindEnvVarName = "ROFI_LINEAR_PROMPTER"
)

// ParseKind validates a prompter name. An empty name returns fallback.
func ParseKind(s string, fallback Kind) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return fallback, nil
	case KindRofi:
		return KindRofi, nil
	case KindTerminal:
		return KindTerminal, nil
	default:
		return "", fmt.Errorf("unknown prompter %q (expected rofi or terminal)", s)
	}
}

// Runner executes an external program. ok is false when the program ran
// but exited non-zero; err is reserved for failing to run it at all.
type Runner interface {
	Run(ctx context.Context, stdin string, name string, args ...string) (stdout string, ok bool, err error)
}

// ExecRunner runs programs with os/exec.
type ExecRunner struct{}

// Run implements Runner.
func (ExecRunner) Run(ctx context.Context, stdin string, name string, args ...string) (string, bool, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}
	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	err := cmd.Run()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return stdout.String(), false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to run %s: %w", name, err)
	}
	return stdout.String(), true, nil
}

// StartRunner starts programs without waiting for them.
type StartRunner interface {
	Start(name string, args ...string) error
}

// ExecStarter starts detached programs with os/exec.
type ExecStarter struct{}

// Start implements StartRunner.
func (ExecStarter) Start(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() { _ = cmd.Wait() }()
	return nil
}
