// Package ui prints coloured status lines to stderr.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/muesli/termenv"
)

// ColorMode is the --color setting.
type ColorMode int

const (
	ColorAuto ColorMode = iota
	ColorAlways
	ColorNever
)

// ParseColorMode parses auto|always|never.
func ParseColorMode(s string) (ColorMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return ColorAuto, nil
	case "always":
		return ColorAlways, nil
	case "never":
		return ColorNever, nil
	default:
		return ColorAuto, fmt.Errorf("invalid color mode %q (expected auto, always or never)", s)
	}
}

func (m ColorMode) profile(w io.Writer) termenv.Profile {
	switch m {
	case ColorNever:
		return termenv.Ascii
	case ColorAlways:
		return termenv.ANSI256
	default:
		return termenv.NewOutput(w).EnvColorProfile()
	}
}

type contextKey struct{}

// UI writes status lines for a person watching the terminal. Command
// results never go through it.
type UI struct {
	out   *termenv.Output
	color ColorMode
}

// New returns a UI on stderr.
func New(mode ColorMode) *UI {
	return NewWithWriter(os.Stderr, mode)
}

// NewWithWriter returns a UI on w. NO_COLOR wins over mode.
func NewWithWriter(w io.Writer, mode ColorMode) *UI {
	if os.Getenv("NO_COLOR") != "" {
		mode = ColorNever
	}
	return &UI{
		out:   termenv.NewOutput(w, termenv.WithProfile(mode.profile(w))),
		color: mode,
	}
}

// WithUI attaches u to ctx.
func WithUI(ctx context.Context, u *UI) context.Context {
	return context.WithValue(ctx, contextKey{}, u)
}

// FromContext returns the attached UI, or an auto-colour stderr UI.
func FromContext(ctx context.Context) *UI {
	if u, ok := ctx.Value(contextKey{}).(*UI); ok {
		return u
	}
	return New(ColorAuto)
}

// Warning prints a yellow line prefixed with ⚠.
func (u *UI) Warning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	_, _ = fmt.Fprintln(u.out, u.out.String("⚠ "+msg).Foreground(termenv.ANSIYellow))
}

// Step prints a faint progress line such as "Validating API key...".
func (u *UI) Step(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	_, _ = fmt.Fprintln(u.out, u.out.String(msg).Faint())
}
