package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	clierrors "github.com/salmonumbrella/rofi-linear/internal/errors"
)

func TestConfigSetDefaultTeam(t *testing.T) {
	h := newHarness(t).withTeams(engLink, opsLink)

	if err := h.run("config", "set", "default_team", "ops"); err != nil {
		t.Fatalf("config set error = %v\nstderr: %s", err, h.stderr.String())
	}
	want := "Set default_team = ops in " + filepath.Join(h.dir, "config.yaml") + "\n"
	if got := h.stdout.String(); got != want {
		t.Errorf("stdout = %q, want %q", got, want)
	}

	reg, err := h.store().LoadRegistry()
	if err != nil {
		t.Fatal(err)
	}
	if reg.DefaultTeam != "ops" {
		t.Errorf("DefaultTeam = %q, want ops", reg.DefaultTeam)
	}

	if err := h.run("list"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(h.stdout.String(), "ops - Operations (default)") {
		t.Errorf("list output:\n%s", h.stdout.String())
	}
}

func TestConfigSetDefaultTeam_Errors(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantKind clierrors.Kind
		wantExit int
		wantErr  string
	}{
		{"unknown alias", []string{"config", "set", "default_team", "web"}, clierrors.KindTeamNotFound, ExitNotFound, `team "web" not found`},
		{"unknown key", []string{"config", "set", "output", "json"}, clierrors.KindUsage, ExitUser, "Hint: Supported keys: default_team"},
		{"missing value", []string{"config", "set", "default_team"}, clierrors.KindUsage, ExitUser, "accepts 2 arg(s)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t).withTeams(engLink)
			before, _ := os.ReadFile(filepath.Join(h.dir, "config.yaml"))

			err := h.run(tt.args...)
			if !clierrors.Is(err, tt.wantKind) {
				t.Fatalf("error = %v, want kind %q", err, tt.wantKind)
			}
			if ExitCode(err) != tt.wantExit {
				t.Errorf("exit code = %d, want %d", ExitCode(err), tt.wantExit)
			}
			if !strings.Contains(h.stderr.String(), tt.wantErr) {
				t.Errorf("stderr missing %q:\n%s", tt.wantErr, h.stderr.String())
			}
			after, _ := os.ReadFile(filepath.Join(h.dir, "config.yaml"))
			if string(before) != string(after) {
				t.Errorf("registry changed:\n%s", after)
			}
		})
	}
}

func TestConfigSetDefaultTeam_FreshStoreCreatesNothing(t *testing.T) {
	h := newHarness(t)

	err := h.run("config", "set", "default_team", "eng")
	if !clierrors.Is(err, clierrors.KindTeamNotFound) {
		t.Fatalf("error = %v, want TeamNotFound", err)
	}
	if _, err := os.Stat(h.dir); !os.IsNotExist(err) {
		t.Errorf("config directory created: stat error = %v", err)
	}
}

func TestConfigSet_JSONOutput(t *testing.T) {
	h := newHarness(t).withTeams(engLink, opsLink)

	if err := h.run("config", "set", "default_team", "ops", "--output", "json"); err != nil {
		t.Fatal(err)
	}
	var got map[string]string
	if err := json.Unmarshal(h.stdout.Bytes(), &got); err != nil {
		t.Fatalf("stdout is not JSON: %v\n%s", err, h.stdout.String())
	}
	if got["key"] != "default_team" || got["value"] != "ops" || got["path"] != filepath.Join(h.dir, "config.yaml") {
		t.Errorf("result = %v", got)
	}
}

func TestConfigShow(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		h := newHarness(t)
		if err := h.run("config", "show"); err != nil {
			t.Fatal(err)
		}
		out := h.stdout.String()
		if !strings.Contains(out, "No teams linked in "+filepath.Join(h.dir, "config.yaml")) ||
			!strings.Contains(out, "rofi-linear link") {
			t.Errorf("stdout = %q", out)
		}
	})

	t.Run("yaml", func(t *testing.T) {
		h := newHarness(t).withTeams(engLink, opsLink)
		if err := h.run("config", "show"); err != nil {
			t.Fatal(err)
		}
		out := h.stdout.String()
		for _, want := range []string{"default_team: eng", "teams:", "ops:", "name: Operations"} {
			if !strings.Contains(out, want) {
				t.Errorf("stdout missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("query", func(t *testing.T) {
		h := newHarness(t).withTeams(engLink, opsLink).withKey()
		if err := h.run("config", "show", "--jq", ".teams[1].name"); err != nil {
			t.Fatal(err)
		}
		if got := h.stdout.String(); got != "Operations\n" {
			t.Errorf("stdout = %q", got)
		}
	})

	t.Run("never shows the key", func(t *testing.T) {
		h := newHarness(t).withTeams(engLink).withKey()
		for _, args := range [][]string{{"config", "show"}, {"config", "show", "--output", "yaml"}} {
			if err := h.run(args...); err != nil {
				t.Fatal(err)
			}
			if strings.Contains(h.stdout.String(), testKey) {
				t.Errorf("%v printed the API key", args)
			}
		}
	})
}

func TestConfigPath(t *testing.T) {
	h := newHarness(t).withTeams(engLink)

	if err := h.run("config", "path"); err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(h.dir, "config.yaml") + " (file exists)\n" +
		filepath.Join(h.dir, "creds.yaml") + " (file does not exist)\n"
	if got := h.stdout.String(); got != want {
		t.Errorf("stdout = %q, want %q", got, want)
	}

	if err := h.run("cfg", "path", "--output", "json"); err != nil {
		t.Fatal(err)
	}
	var got struct {
		Dir    string `json:"dir"`
		Config struct {
			Path   string `json:"path"`
			Exists bool   `json:"exists"`
		} `json:"config"`
		Credentials struct {
			Exists bool `json:"exists"`
		} `json:"credentials"`
	}
	if err := json.Unmarshal(h.stdout.Bytes(), &got); err != nil {
		t.Fatalf("stdout is not JSON: %v\n%s", err, h.stdout.String())
	}
	if got.Dir != h.dir || !got.Config.Exists || got.Credentials.Exists {
		t.Errorf("result = %+v", got)
	}
}
