package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	clierrors "github.com/salmonumbrella/rofi-linear/internal/errors"
)

const (
	// AppName names the directory under the user config dir.
	AppName = "rofi-linear"
	// ConfigDirEnvVarName overrides the configuration directory.
	ConfigDirEnvVarName = "ROFI_LINEAR_CONFIG_DIR"

	registryFile  = "config.yaml"
	credsFile     = "creds.yaml"
	gitignoreFile = ".gitignore"
	lockFile      = ".lock"
)

// TeamLink is a linked Linear team. Alias is the registry key and is not
// serialized inside the entry.
type TeamLink struct {
	Alias string `yaml:"-" json:"alias"`
	ID    string `yaml:"id" json:"id"`
	Name  string `yaml:"name" json:"name"`
}

// Registry is the on-disk team registry (config.yaml).
type Registry struct {
	// Alias of the team used when none is given
	DefaultTeam string `yaml:"default_team,omitempty"`

	// Linked teams keyed by alias
	Teams map[string]TeamLink `yaml:"teams"`
}

// Credentials is the on-disk credential record (creds.yaml).
type Credentials struct {
	APIKey string `yaml:"api_key,omitempty" masq:"secret"`
}

// DefaultDir returns $ROFI_LINEAR_CONFIG_DIR or <user config dir>/rofi-linear.
func DefaultDir() (string, error) {
	if dir := strings.TrimSpace(os.Getenv(ConfigDirEnvVarName)); dir != "" {
		return dir, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", clierrors.Wrap(clierrors.KindIO, err, "could not find config directory")
	}
	return filepath.Join(base, AppName), nil
}

// Aliases returns the linked aliases in sorted order.
func (r *Registry) Aliases() []string {
	aliases := make([]string, 0, len(r.Teams))
	for alias := range r.Teams {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)
	return aliases
}

// Link returns the team linked under alias.
func (r *Registry) Link(alias string) (TeamLink, bool) {
	link, ok := r.Teams[alias]
	if !ok {
		return TeamLink{}, false
	}
	link.Alias = alias
	return link, true
}

// Links returns every linked team ordered by alias.
func (r *Registry) Links() []TeamLink {
	aliases := r.Aliases()
	links := make([]TeamLink, 0, len(aliases))
	for _, alias := range aliases {
		link, _ := r.Link(alias)
		links = append(links, link)
	}
	return links
}

// Add upserts a link. The first link added to an empty registry becomes
// the default; later additions never change an existing default.
func (r *Registry) Add(alias, id, name string) {
	if r.Teams == nil {
		r.Teams = make(map[string]TeamLink)
	}
	r.Teams[alias] = TeamLink{ID: id, Name: name}
	if r.DefaultTeam == "" {
		r.DefaultTeam = alias
	}
}

// Remove deletes a link and reports whether it existed. Removing the
// default reassigns it to the first remaining alias, or clears it.
func (r *Registry) Remove(alias string) bool {
	if _, ok := r.Teams[alias]; !ok {
		return false
	}
	delete(r.Teams, alias)
	if r.DefaultTeam == alias {
		r.DefaultTeam = r.firstAlias()
	}
	return true
}

// Validate checks the default-team invariant.
func (r *Registry) Validate() error {
	if r.DefaultTeam == "" {
		return nil
	}
	if _, ok := r.Teams[r.DefaultTeam]; !ok {
		return fmt.Errorf("default team %q is not linked", r.DefaultTeam)
	}
	return nil
}

func (r *Registry) firstAlias() string {
	aliases := r.Aliases()
	if len(aliases) == 0 {
		return ""
	}
	return aliases[0]
}

// repair restores the default-team invariant on a hand-edited registry.
func (r *Registry) repair(path string) {
	if err := r.Validate(); err != nil {
		previous := r.DefaultTeam
		r.DefaultTeam = r.firstAlias()
		slog.Warn("repaired default team", "path", path, "was", previous, "now", r.DefaultTeam)
	}
}

func decodeRegistry(path string, data []byte) (*Registry, error) {
	var reg Registry
	if err := yaml.Unmarshal(data, &reg); err != nil {
		return nil, clierrors.Wrap(clierrors.KindCorruptState, err, fmt.Sprintf("invalid config file %s", path))
	}
	if reg.Teams == nil {
		reg.Teams = make(map[string]TeamLink)
	}
	for alias, link := range reg.Teams {
		if strings.TrimSpace(alias) == "" || link.ID == "" {
			return nil, clierrors.New(clierrors.KindCorruptState,
				fmt.Sprintf("invalid config file %s: team %q has no id", path, alias))
		}
	}
	reg.repair(path)
	return &reg, nil
}

func decodeCredentials(path string, data []byte) (*Credentials, error) {
	var creds Credentials
	if err := yaml.Unmarshal(data, &creds); err != nil {
		return nil, clierrors.Wrap(clierrors.KindCorruptState, err, fmt.Sprintf("invalid credentials file %s", path))
	}
	return &creds, nil
}
