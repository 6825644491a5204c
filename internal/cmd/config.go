package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	clierrors "github.com/salmonumbrella/rofi-linear/internal/errors"
	"github.com/salmonumbrella/rofi-linear/internal/session"
)

// configKeys lists the keys accepted by 'config set'.
var configKeys = []string{"default_team"}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Aliases: []string{"cfg"},
		Short:   "Inspect and edit the team registry",
		Long: `Inspect and edit config.yaml, the registry of linked teams.

The API key lives in creds.yaml or the OS keyring and is never shown.`,
	}
	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigSetCmd())
	cmd.AddCommand(newConfigPathCmd())
	return cmd
}

type configView struct {
	Dir         string              `json:"dir" yaml:"dir"`
	DefaultTeam string              `json:"default_team" yaml:"default_team"`
	Teams       []session.TeamEntry `json:"teams" yaml:"teams"`
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Display the team registry",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := StoreFromContext(ctx)
			if err != nil {
				return err
			}
			reg, err := store.LoadRegistry()
			if err != nil {
				return err
			}

			if structuredOutput(ctx) {
				sess, err := SessionFromContext(ctx)
				if err != nil {
					return err
				}
				teams, err := sess.ListTeams()
				if err != nil {
					return err
				}
				return printerForContext(ctx).Print(ctx, configView{
					Dir:         store.Dir(),
					DefaultTeam: reg.DefaultTeam,
					Teams:       teams,
				})
			}

			if len(reg.Teams) == 0 {
				say(ctx, "No teams linked in %s", store.RegistryPath())
				say(ctx, "\nTo link a team, use:")
				say(ctx, "  rofi-linear link")
				return nil
			}
			data, err := yaml.Marshal(reg)
			if err != nil {
				return fmt.Errorf("failed to format config: %w", err)
			}
			_, _ = fmt.Fprint(stdoutFromContext(ctx), string(data))
			return nil
		},
	}
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: `Set a value in config.yaml.

Supported keys:
  default_team - Alias used by 'run' when no alias is given

Example:
  rofi-linear config set default_team ops`,
		Args: usageArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			key, value := args[0], args[1]

			sess, err := SessionFromContext(ctx)
			if err != nil {
				return err
			}
			store, err := StoreFromContext(ctx)
			if err != nil {
				return err
			}

			switch key {
			case "default_team":
				link, err := sess.SetDefaultTeam(value)
				if err != nil {
					return err
				}
				value = link.Alias
			default:
				return clierrors.New(clierrors.KindUsage, fmt.Sprintf("unknown config key %q", key)).
					WithSuggestion("Supported keys: " + strings.Join(configKeys, ", "))
			}

			if structuredOutput(ctx) {
				return printerForContext(ctx).Print(ctx, map[string]string{
					"key":   key,
					"value": value,
					"path":  store.RegistryPath(),
				})
			}
			say(ctx, "Set %s = %s in %s", key, value, store.RegistryPath())
			return nil
		},
	}
}

type configFile struct {
	Path   string `json:"path" yaml:"path"`
	Exists bool   `json:"exists" yaml:"exists"`
}

func statConfigFile(path string) (configFile, error) {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return configFile{Path: path, Exists: true}, nil
	case errors.Is(err, os.ErrNotExist):
		return configFile{Path: path}, nil
	default:
		return configFile{}, clierrors.Wrap(clierrors.KindIO, err, "failed to access "+path)
	}
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show configuration file paths",
		Long:  `Display the paths of config.yaml and creds.yaml and whether they exist.`,
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := StoreFromContext(ctx)
			if err != nil {
				return err
			}

			registry, err := statConfigFile(store.RegistryPath())
			if err != nil {
				return err
			}
			creds, err := statConfigFile(store.CredentialsPath())
			if err != nil {
				return err
			}

			if structuredOutput(ctx) {
				return printerForContext(ctx).Print(ctx, map[string]any{
					"dir":         store.Dir(),
					"config":      registry,
					"credentials": creds,
				})
			}
			for _, f := range []configFile{registry, creds} {
				state := "file does not exist"
				if f.Exists {
					state = "file exists"
				}
				say(ctx, "%s (%s)", f.Path, state)
			}
			return nil
		},
	}
}
