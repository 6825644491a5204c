package prompt

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Rofi prompts through rofi in dmenu mode.
type Rofi struct {
	Bin    string
	Runner Runner
}

// NewRofi returns a Rofi prompter that runs the rofi binary from PATH.
func NewRofi() *Rofi {
	return &Rofi{Bin: "rofi", Runner: ExecRunner{}}
}

func themeString(placeholder string) string {
	placeholder = strings.ReplaceAll(placeholder, `\`, `\\`)
	placeholder = strings.ReplaceAll(placeholder, `"`, `\"`)
	return fmt.Sprintf(`entry { placeholder: "%s"; }`, placeholder)
}

func (r *Rofi) input(ctx context.Context, label, placeholder string, extra ...string) (string, bool, error) {
	args := []string{"-dmenu", "-p", label, "-theme-str", themeString(placeholder), "-l", "0"}
	args = append(args, extra...)

	out, ok, err := r.Runner.Run(ctx, "", r.Bin, args...)
	if err != nil {
		return "", false, err
	}
	// rofi exits non-zero on Escape; Enter on an empty entry is an answer.
	if !ok {
		return "", false, nil
	}
	return strings.TrimSpace(out), true, nil
}

// Input implements Prompter.
func (r *Rofi) Input(ctx context.Context, label, placeholder string) (string, bool, error) {
	return r.input(ctx, label, placeholder)
}

// InputMultiline implements Prompter. rofi has a single-line entry, so this
// is the same prompt as Input.
func (r *Rofi) InputMultiline(ctx context.Context, label, placeholder string) (string, bool, error) {
	return r.input(ctx, label, placeholder)
}

// Password implements Prompter with rofi's masked entry.
func (r *Rofi) Password(ctx context.Context, label, placeholder string) (string, bool, error) {
	return r.input(ctx, label, placeholder, "-password")
}

// Select implements Prompter. Options are written to rofi's stdin and the
// chosen row is read back as an index.
func (r *Rofi) Select(ctx context.Context, label string, options []string) (int, bool, error) {
	if len(options) == 0 {
		return 0, false, nil
	}
	out, ok, err := r.Runner.Run(ctx, strings.Join(options, "\n")+"\n", r.Bin, "-dmenu", "-p", label, "-format", "i")
	if err != nil {
		return 0, false, err
	}
	text := strings.TrimSpace(out)
	if !ok || text == "" {
		return 0, false, nil
	}
	idx, err := strconv.Atoi(text)
	if err != nil || idx < 0 || idx >= len(options) {
		return 0, false, fmt.Errorf("invalid selection %q from rofi", text)
	}
	return idx, true, nil
}

// Error implements Prompter by showing a rofi message box.
func (r *Rofi) Error(ctx context.Context, message string) error {
	_, _, err := r.Runner.Run(ctx, "", r.Bin, "-e", message)
	return err
}
