package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func keepDefaultLogger(t *testing.T) {
	t.Helper()
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
}

func TestSetup_Levels(t *testing.T) {
	tests := []struct {
		name    string
		debug   bool
		json    bool
		present []string
		absent  []string
	}{
		{
			name:    "text debug",
			debug:   true,
			present: []string{"msg=\"linking team\"", "team=ENG"},
		},
		{
			name:    "text quiet",
			present: []string{"registry rewritten"},
			absent:  []string{"linking team", "fetching teams"},
		},
		{
			name:    "json debug",
			debug:   true,
			json:    true,
			present: []string{`"msg":"linking team"`, `"team":"ENG"`},
		},
		{
			name:    "json quiet",
			json:    true,
			present: []string{`"level":"WARN"`},
			absent:  []string{"fetching teams"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keepDefaultLogger(t)
			var buf bytes.Buffer
			if tt.json {
				SetupJSON(tt.debug, &buf)
			} else {
				Setup(tt.debug, &buf)
			}

			slog.Debug("linking team", "team", "ENG")
			slog.Info("fetching teams")
			slog.Warn("registry rewritten")

			out := buf.String()
			for _, want := range tt.present {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q:\n%s", want, out)
				}
			}
			for _, unwanted := range tt.absent {
				if strings.Contains(out, unwanted) {
					t.Errorf("output should not contain %q:\n%s", unwanted, out)
				}
			}
		})
	}
}

func TestSetup_NilWriterUsesStderr(t *testing.T) {
	keepDefaultLogger(t)
	Setup(false, nil)
	slog.Warn("to stderr")
}

func TestSetup_Redaction(t *testing.T) {
	keepDefaultLogger(t)

	type credential struct {
		Workspace string
		Key       string `masq:"secret"`
	}

	var buf bytes.Buffer
	SetupJSON(true, &buf)
	slog.Debug("stored", "key", APIKeyPrefix+"abcdef0123456789")
	slog.Debug("loaded", "cred", credential{Workspace: "acme", Key: "not-prefixed-secret"})

	out := buf.String()
	for _, leaked := range []string{"abcdef0123456789", "not-prefixed-secret"} {
		if strings.Contains(out, leaked) {
			t.Errorf("%q leaked into log output:\n%s", leaked, out)
		}
	}
	if !strings.Contains(out, "acme") {
		t.Errorf("non-secret field dropped:\n%s", out)
	}
}
