package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/salmonumbrella/rofi-linear/internal/auth"
	"github.com/salmonumbrella/rofi-linear/internal/config"
	"github.com/salmonumbrella/rofi-linear/internal/iocontext"
	"github.com/salmonumbrella/rofi-linear/internal/linear"
	"github.com/salmonumbrella/rofi-linear/internal/prompt"
	"github.com/salmonumbrella/rofi-linear/internal/session"
	"github.com/salmonumbrella/rofi-linear/internal/testutil"
)

const testKey = "lin_api_0123456789abcdef"

// harness runs the CLI against a temporary config directory, a mock
// GraphQL server and scripted collaborators.
type harness struct {
	t        *testing.T
	dir      string
	gs       *testutil.GraphQLServer
	prompter *prompt.Scripted
	desktop  *prompt.RecordingDesktop
	kinds    []prompt.Kind
	stdin    string
	stdout   bytes.Buffer
	stderr   bytes.Buffer
}

func newHarness(t *testing.T, answers ...prompt.Answer) *harness {
	t.Helper()
	for _, name := range []string{
		auth.EnvVarName,
		auth.BackendEnvVarName,
		prompt.KindEnvVarName,
		config.ConfigDirEnvVarName,
		linear.EndpointEnvVarName,
	} {
		t.Setenv(name, "")
	}

	gs := testutil.NewGraphQLServer()
	t.Cleanup(gs.Close)

	return &harness{
		t:        t,
		dir:      filepath.Join(t.TempDir(), "rofi-linear"),
		gs:       gs,
		prompter: prompt.NewScripted(answers...),
		desktop:  &prompt.RecordingDesktop{},
	}
}

func (h *harness) app() *App {
	return &App{
		Stdin:     strings.NewReader(h.stdin),
		Stdout:    &h.stdout,
		Stderr:    &h.stderr,
		Version:   "test",
		Commit:    "abc123",
		BuildTime: "today",
		NewPrompter: func(kind prompt.Kind, _ iocontext.Streams) prompt.Prompter {
			h.kinds = append(h.kinds, kind)
			return h.prompter
		},
		Desktop: h.desktop,
		NewClient: func(apiKey string) session.Remote {
			return linear.NewClient(apiKey).WithEndpoint(h.gs.URL())
		},
	}
}

func (h *harness) run(args ...string) error {
	h.t.Helper()
	h.stdout.Reset()
	h.stderr.Reset()
	full := append([]string{"--config-dir", h.dir, "--color", "never"}, args...)
	return h.app().Execute(context.Background(), full)
}

func (h *harness) store() *config.Store {
	return config.NewStore(h.dir)
}

func (h *harness) withKey() *harness {
	h.t.Helper()
	if err := h.store().SetAPIKey(testKey); err != nil {
		h.t.Fatalf("SetAPIKey: %v", err)
	}
	return h
}

func (h *harness) withTeams(links ...config.TeamLink) *harness {
	h.t.Helper()
	for _, l := range links {
		if err := h.store().AddTeamLink(l.Alias, l.ID, l.Name); err != nil {
			h.t.Fatalf("AddTeamLink: %v", err)
		}
	}
	return h
}

var (
	engLink = config.TeamLink{Alias: "eng", ID: "T1", Name: "Engineering"}
	opsLink = config.TeamLink{Alias: "ops", ID: "T2", Name: "Operations"}
)
