// Package session implements the user-level operations of rofi-linear on
// top of the credential store, the team registry and the Linear client.
// Every operation is a single linear sequence: it either completes or
// fails without leaving partial state behind.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/salmonumbrella/rofi-linear/internal/config"
	clierrors "github.com/salmonumbrella/rofi-linear/internal/errors"
	"github.com/salmonumbrella/rofi-linear/internal/linear"
	"github.com/salmonumbrella/rofi-linear/internal/validate"
)

// Credentials reads and writes the API key.
type Credentials interface {
	APIKey() (string, bool, error)
	SetAPIKey(key string) error
}

// TeamStore is the team registry.
type TeamStore interface {
	AddTeamLink(alias, id, name string) error
	RemoveTeamLink(alias string) (bool, error)
	SetDefaultTeam(alias string) error
	ResolveTeam(alias string) (config.TeamLink, bool, error)
	ListTeamLinks() ([]config.TeamLink, error)
	LoadRegistry() (*config.Registry, error)
}

// Remote is the subset of the Linear API the session needs.
type Remote interface {
	Viewer(ctx context.Context) (*linear.Viewer, error)
	Teams(ctx context.Context) ([]linear.Team, error)
	CreateIssue(ctx context.Context, teamID, title, description string) (*linear.Issue, error)
}

// ClientFactory builds a Remote for an API key.
type ClientFactory func(apiKey string) Remote

// Session composes the stores and the remote client.
type Session struct {
	creds     Credentials
	teams     TeamStore
	newClient ClientFactory
}

// New returns a session.
func New(creds Credentials, teams TeamStore, newClient ClientFactory) *Session {
	return &Session{creds: creds, teams: teams, newClient: newClient}
}

// TeamEntry is a linked team as shown by ListTeams.
type TeamEntry struct {
	Alias   string `json:"alias" yaml:"alias"`
	ID      string `json:"id" yaml:"id"`
	Name    string `json:"name" yaml:"name"`
	Default bool   `json:"default" yaml:"default"`
}

// Authenticate validates key against the viewer query and stores it only
// when validation succeeds. A failed validation leaves any previously
// stored key untouched.
func (s *Session) Authenticate(ctx context.Context, key string) (*linear.Viewer, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, clierrors.New(clierrors.KindEmptyCredential, "API key cannot be empty").
			WithSuggestion("Create a personal API key at https://linear.app/settings/account/security")
	}

	viewer, err := s.newClient(key).Viewer(ctx)
	if err != nil {
		if ctx.Err() != nil || !linear.IsAuthFailure(err) {
			return nil, err
		}
		invalid := clierrors.New(clierrors.KindInvalidCredential, "API key validation failed").
			WithSuggestion("Check that the key is correct and has not been revoked")
		invalid.Err = err
		return nil, invalid
	}

	if err := s.creds.SetAPIKey(key); err != nil {
		return nil, fmt.Errorf("failed to store API key: %w", err)
	}
	slog.Debug("stored API key", "user", viewer.Name)
	return viewer, nil
}

// HasCredential reports whether an API key is available.
func (s *Session) HasCredential() (bool, error) {
	_, ok, err := s.creds.APIKey()
	return ok, err
}

// client returns a remote client for the stored key, or MissingCredential.
func (s *Session) client() (Remote, error) {
	key, ok, err := s.creds.APIKey()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, clierrors.MissingCredential()
	}
	return s.newClient(key), nil
}

// LinkableTeams fetches the remote teams available for linking.
func (s *Session) LinkableTeams(ctx context.Context) ([]linear.Team, error) {
	c, err := s.client()
	if err != nil {
		return nil, err
	}
	teams, err := c.Teams(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch teams: %w", err)
	}
	if len(teams) == 0 {
		return nil, clierrors.New(clierrors.KindNoTeamsAvailable, "no teams found in your Linear workspace")
	}
	return teams, nil
}

// DefaultAlias is the alias used when the caller does not choose one.
func DefaultAlias(team linear.Team) string {
	return strings.ToLower(team.Key)
}

// LinkTeam stores team under alias, or under DefaultAlias when alias is empty.
func (s *Session) LinkTeam(team linear.Team, alias string) (config.TeamLink, error) {
	alias = strings.TrimSpace(alias)
	if alias == "" {
		alias = DefaultAlias(team)
	}
	if err := validate.Alias(alias); err != nil {
		return config.TeamLink{}, clierrors.New(clierrors.KindUsage, err.Error()).
			WithSuggestion("Choose an alias without spaces, e.g. --alias " + DefaultAlias(team))
	}
	if err := s.teams.AddTeamLink(alias, team.ID, team.Name); err != nil {
		return config.TeamLink{}, err
	}
	return config.TeamLink{Alias: alias, ID: team.ID, Name: team.Name}, nil
}

// ListTeams returns the linked teams ordered by alias with the default marked.
func (s *Session) ListTeams() ([]TeamEntry, error) {
	reg, err := s.teams.LoadRegistry()
	if err != nil {
		return nil, err
	}
	links := reg.Links()
	entries := make([]TeamEntry, 0, len(links))
	for _, l := range links {
		entries = append(entries, TeamEntry{
			Alias:   l.Alias,
			ID:      l.ID,
			Name:    l.Name,
			Default: l.Alias == reg.DefaultTeam,
		})
	}
	return entries, nil
}

// UnlinkTeam removes alias. It fails with TeamNotFound when alias is not linked.
func (s *Session) UnlinkTeam(alias string) error {
	removed, err := s.teams.RemoveTeamLink(alias)
	if err != nil {
		return err
	}
	if !removed {
		return clierrors.TeamNotFound(alias)
	}
	return nil
}

// SetDefaultTeam makes a linked alias the default. It fails with
// TeamNotFound when alias is not linked.
func (s *Session) SetDefaultTeam(alias string) (config.TeamLink, error) {
	alias = strings.TrimSpace(alias)
	if err := s.teams.SetDefaultTeam(alias); err != nil {
		return config.TeamLink{}, err
	}
	return s.ResolveTeam(alias)
}

// ResolveTeam returns the link for alias, or the default team when alias is empty.
func (s *Session) ResolveTeam(alias string) (config.TeamLink, error) {
	link, ok, err := s.teams.ResolveTeam(alias)
	if err != nil {
		return config.TeamLink{}, err
	}
	if !ok {
		if alias == "" {
			return config.TeamLink{}, clierrors.NoDefaultTeam()
		}
		return config.TeamLink{}, clierrors.TeamNotFound(alias)
	}
	return link, nil
}

// CreateIssue creates an issue in the team resolved from alias. The title
// is checked before any network call.
func (s *Session) CreateIssue(ctx context.Context, alias, title, description string) (*linear.Issue, error) {
	c, err := s.client()
	if err != nil {
		return nil, err
	}
	team, err := s.ResolveTeam(alias)
	if err != nil {
		return nil, err
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, clierrors.New(clierrors.KindEmptyTitle, "issue title cannot be empty")
	}

	issue, err := c.CreateIssue(ctx, team.ID, title, strings.TrimSpace(description))
	if err != nil {
		return nil, fmt.Errorf("failed to create issue in %s: %w", team.Name, err)
	}
	slog.Debug("created issue", "identifier", issue.Identifier, "team", team.Alias)
	return issue, nil
}

// FindTeam returns the team whose key (case-insensitive) or ID matches ref.
func FindTeam(teams []linear.Team, ref string) (linear.Team, bool) {
	for _, t := range teams {
		if strings.EqualFold(t.Key, ref) || t.ID == ref {
			return t, true
		}
	}
	return linear.Team{}, false
}
