package prompt

import (
	"context"
	"log/slog"
	"runtime"
	"strings"
)

// NotifyApp is the application name used in notifications.
const NotifyApp = "Linear"

// System sends notifications with notify-send and opens URLs with the
// platform opener.
type System struct {
	Runner  Runner
	Starter StartRunner
	GOOS    string
}

// NewSystem returns a Desktop backed by the host's tools.
func NewSystem() *System {
	return &System{Runner: ExecRunner{}, Starter: ExecStarter{}, GOOS: runtime.GOOS}
}

// Notify implements Desktop. Plain notifications are fire-and-forget;
// actionable ones block until the notification is dismissed or activated.
func (s *System) Notify(ctx context.Context, summary, body string, actionable bool) bool {
	if !actionable {
		if err := s.Starter.Start("notify-send", summary, body); err != nil {
			slog.Debug("notification failed", "error", err)
		}
		return false
	}
	out, ok, err := s.Runner.Run(ctx, "", "notify-send", summary, body, "-A", "default=Open")
	if err != nil || !ok {
		slog.Debug("notification failed", "error", err, "ok", ok)
		return false
	}
	return strings.TrimSpace(out) == "default"
}

// OpenURL implements Desktop.
func (s *System) OpenURL(ctx context.Context, url string) {
	name, args := openCommand(s.GOOS, url)
	if err := s.Starter.Start(name, args...); err != nil {
		slog.Debug("failed to open browser", "url", url, "error", err)
	}
}

func openCommand(goos, url string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{url}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}
	default:
		return "xdg-open", []string{url}
	}
}
