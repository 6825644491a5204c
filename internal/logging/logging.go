// Package logging configures the process-wide slog logger.
package logging

import (
	"io"
	"log/slog"
	"os"

	"github.com/m-mizutani/masq"
)

// APIKeyPrefix marks Linear personal API keys. Any logged string containing
// it is redacted.
const APIKeyPrefix = "lin_api_"

// Setup installs a text logger on w (stderr when nil). Without debug only
// warnings and errors are emitted, keeping rofi and terminal prompts clean.
func Setup(debug bool, w io.Writer) {
	slog.SetDefault(slog.New(newHandler(debug, w, false)))
}

// SetupJSON is Setup with JSON records, used when command output is structured.
func SetupJSON(debug bool, w io.Writer) {
	slog.SetDefault(slog.New(newHandler(debug, w, true)))
}

func newHandler(debug bool, w io.Writer, asJSON bool) slog.Handler {
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{
		Level: levelFor(debug),
		// `masq:"secret"` fields and anything carrying a key are masked.
		ReplaceAttr: masq.New(
			masq.WithTag("secret"),
			masq.WithContain(APIKeyPrefix),
		),
	}
	if asJSON {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

func levelFor(debug bool) slog.Level {
	if debug {
		return slog.LevelDebug
	}
	return slog.LevelWarn
}
