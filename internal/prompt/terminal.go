package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// Terminal prompts on the controlling terminal. When the input is a TTY it
// uses huh forms; otherwise it reads plain lines so that keys and answers
// can be piped in.
type Terminal struct {
	In          io.Reader
	Out         io.Writer
	Interactive bool

	lines *bufio.Reader
}

// NewTerminal returns a Terminal reading from in and writing to out.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	interactive := false
	if f, ok := in.(*os.File); ok {
		interactive = term.IsTerminal(int(f.Fd()))
	}
	return &Terminal{In: in, Out: out, Interactive: interactive}
}

func (t *Terminal) run(ctx context.Context, field huh.Field) (bool, error) {
	form := huh.NewForm(huh.NewGroup(field)).
		WithInput(t.In).
		WithOutput(t.Out)
	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (t *Terminal) readLine(label string) (string, bool, error) {
	if t.lines == nil {
		t.lines = bufio.NewReader(t.In)
	}
	_, _ = fmt.Fprintf(t.Out, "%s: ", label)
	line, err := t.lines.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", false, err
	}
	line = strings.TrimSpace(line)
	if line == "" && errors.Is(err, io.EOF) {
		return "", false, nil
	}
	return line, true, nil
}

func (t *Terminal) textInput(ctx context.Context, label, placeholder string, mode huh.EchoMode) (string, bool, error) {
	if !t.Interactive {
		return t.readLine(label)
	}
	var value string
	field := huh.NewInput().
		Title(label).
		Placeholder(placeholder).
		EchoMode(mode).
		Value(&value)
	ok, err := t.run(ctx, field)
	if err != nil || !ok {
		return "", false, err
	}
	return strings.TrimSpace(value), true, nil
}

// Input implements Prompter.
func (t *Terminal) Input(ctx context.Context, label, placeholder string) (string, bool, error) {
	return t.textInput(ctx, label, placeholder, huh.EchoModeNormal)
}

// Password implements Prompter with masked input.
func (t *Terminal) Password(ctx context.Context, label, placeholder string) (string, bool, error) {
	return t.textInput(ctx, label, placeholder, huh.EchoModePassword)
}

// InputMultiline implements Prompter.
func (t *Terminal) InputMultiline(ctx context.Context, label, placeholder string) (string, bool, error) {
	if !t.Interactive {
		return t.readLine(label)
	}
	var value string
	field := huh.NewText().
		Title(label).
		Placeholder(placeholder).
		Value(&value)
	ok, err := t.run(ctx, field)
	if err != nil || !ok {
		return "", false, err
	}
	return strings.TrimSpace(value), true, nil
}

// Select implements Prompter. Without a TTY the options are printed as a
// numbered list and a 1-based number is read.
func (t *Terminal) Select(ctx context.Context, label string, options []string) (int, bool, error) {
	if len(options) == 0 {
		return 0, false, nil
	}
	if !t.Interactive {
		for i, opt := range options {
			_, _ = fmt.Fprintf(t.Out, "  %d. %s\n", i+1, opt)
		}
		line, ok, err := t.readLine(fmt.Sprintf("%s (1-%d)", label, len(options)))
		if err != nil || !ok {
			return 0, false, err
		}
		n, err := strconv.Atoi(line)
		if err != nil || n < 1 || n > len(options) {
			return 0, false, fmt.Errorf("invalid selection %q", line)
		}
		return n - 1, true, nil
	}

	huhOptions := make([]huh.Option[int], len(options))
	for i, opt := range options {
		huhOptions[i] = huh.NewOption(opt, i)
	}
	var idx int
	field := huh.NewSelect[int]().
		Title(label).
		Options(huhOptions...).
		Value(&idx)
	ok, err := t.run(ctx, field)
	if err != nil || !ok {
		return 0, false, err
	}
	return idx, true, nil
}

// Error implements Prompter by printing the message.
func (t *Terminal) Error(ctx context.Context, message string) error {
	_, err := fmt.Fprintln(t.Out, message)
	return err
}
