package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	clierrors "github.com/salmonumbrella/rofi-linear/internal/errors"
)

// Store owns the registry and credential records under one directory.
// A Store is built once per invocation; it keeps no in-memory cache and
// every operation goes back to disk.
type Store struct {
	dir string
}

// NewStore returns a store rooted at dir. Nothing is created until the
// first write.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Open returns a store rooted at DefaultDir.
func Open() (*Store, error) {
	dir, err := DefaultDir()
	if err != nil {
		return nil, err
	}
	return NewStore(dir), nil
}

// Dir returns the configuration directory.
func (s *Store) Dir() string {
	return s.dir
}

// RegistryPath returns the path of config.yaml.
func (s *Store) RegistryPath() string {
	return filepath.Join(s.dir, registryFile)
}

// CredentialsPath returns the path of creds.yaml.
func (s *Store) CredentialsPath() string {
	return filepath.Join(s.dir, credsFile)
}

// LoadRegistry reads config.yaml. A missing file is an empty registry.
func (s *Store) LoadRegistry() (*Registry, error) {
	path := s.RegistryPath()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &Registry{Teams: make(map[string]TeamLink)}, nil
	}
	if err != nil {
		return nil, clierrors.Wrap(clierrors.KindIO, err, "failed to read config")
	}
	return decodeRegistry(path, data)
}

// SaveRegistry replaces config.yaml atomically.
func (s *Store) SaveRegistry(reg *Registry) error {
	if err := reg.Validate(); err != nil {
		return err
	}
	data, err := yaml.Marshal(reg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return s.write(registryFile, data)
}

// LoadCredential reads creds.yaml. A missing file is an empty credential.
func (s *Store) LoadCredential() (*Credentials, error) {
	path := s.CredentialsPath()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &Credentials{}, nil
	}
	if err != nil {
		return nil, clierrors.Wrap(clierrors.KindIO, err, "failed to read credentials")
	}
	return decodeCredentials(path, data)
}

// SaveCredential replaces creds.yaml atomically.
func (s *Store) SaveCredential(creds *Credentials) error {
	data, err := yaml.Marshal(creds)
	if err != nil {
		return fmt.Errorf("failed to encode credentials: %w", err)
	}
	return s.write(credsFile, data)
}

// APIKey returns the stored API key and whether one is set.
func (s *Store) APIKey() (string, bool, error) {
	creds, err := s.LoadCredential()
	if err != nil {
		return "", false, err
	}
	return creds.APIKey, creds.APIKey != "", nil
}

// SetAPIKey overwrites the stored API key.
func (s *Store) SetAPIKey(key string) error {
	return s.withLock(func() error {
		creds, err := s.LoadCredential()
		if err != nil {
			return err
		}
		creds.APIKey = key
		return s.SaveCredential(creds)
	})
}

// AddTeamLink upserts a team under alias. The first link becomes the default.
func (s *Store) AddTeamLink(alias, id, name string) error {
	return s.withLock(func() error {
		reg, err := s.LoadRegistry()
		if err != nil {
			return err
		}
		reg.Add(alias, id, name)
		return s.SaveRegistry(reg)
	})
}

// RemoveTeamLink deletes alias and reports whether it was linked. Nothing
// is written when the alias is unknown.
func (s *Store) RemoveTeamLink(alias string) (bool, error) {
	if _, err := os.Stat(s.RegistryPath()); errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	var removed bool
	err := s.withLock(func() error {
		reg, err := s.LoadRegistry()
		if err != nil {
			return err
		}
		if removed = reg.Remove(alias); !removed {
			return nil
		}
		return s.SaveRegistry(reg)
	})
	return removed, err
}

// SetDefaultTeam makes alias the default team. It fails with TeamNotFound
// when alias is not linked.
func (s *Store) SetDefaultTeam(alias string) error {
	if _, err := os.Stat(s.RegistryPath()); errors.Is(err, os.ErrNotExist) {
		return clierrors.TeamNotFound(alias)
	}
	return s.withLock(func() error {
		reg, err := s.LoadRegistry()
		if err != nil {
			return err
		}
		if _, ok := reg.Link(alias); !ok {
			return clierrors.TeamNotFound(alias)
		}
		if reg.DefaultTeam == alias {
			return nil
		}
		reg.DefaultTeam = alias
		return s.SaveRegistry(reg)
	})
}

// ResolveTeam looks up alias, or the default team when alias is empty.
// The bool is false when the alias is not linked. It fails with
// NoDefaultTeam when neither an alias nor a default is available.
func (s *Store) ResolveTeam(alias string) (TeamLink, bool, error) {
	reg, err := s.LoadRegistry()
	if err != nil {
		return TeamLink{}, false, err
	}
	if alias == "" {
		alias = reg.DefaultTeam
	}
	if alias == "" {
		return TeamLink{}, false, clierrors.NoDefaultTeam()
	}
	link, ok := reg.Link(alias)
	return link, ok, nil
}

// ListTeamLinks returns every link ordered by alias.
func (s *Store) ListTeamLinks() ([]TeamLink, error) {
	reg, err := s.LoadRegistry()
	if err != nil {
		return nil, err
	}
	return reg.Links(), nil
}

// ensureDir creates the directory on first use, together with the
// .gitignore that keeps creds.yaml out of version control.
func (s *Store) ensureDir() error {
	_, err := os.Stat(s.dir)
	if err == nil {
		return nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return clierrors.Wrap(clierrors.KindIO, err, "failed to access config directory")
	}
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return clierrors.Wrap(clierrors.KindIO, err, "failed to create config directory")
	}
	if err := os.WriteFile(filepath.Join(s.dir, gitignoreFile), []byte(credsFile+"\n"), 0o600); err != nil {
		return clierrors.Wrap(clierrors.KindIO, err, "failed to write .gitignore")
	}
	return nil
}

// write replaces name with data via a temp file and rename, so readers
// never observe a partial record.
func (s *Store) write(name string, data []byte) error {
	if err := s.ensureDir(); err != nil {
		return err
	}
	path := filepath.Join(s.dir, name)

	tmp, err := os.CreateTemp(s.dir, "."+name+".*")
	if err != nil {
		return clierrors.Wrap(clierrors.KindIO, err, fmt.Sprintf("failed to write %s", name))
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return clierrors.Wrap(clierrors.KindIO, err, fmt.Sprintf("failed to write %s", name))
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return clierrors.Wrap(clierrors.KindIO, err, fmt.Sprintf("failed to sync %s", name))
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return clierrors.Wrap(clierrors.KindIO, err, fmt.Sprintf("failed to write %s", name))
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		cleanup()
		return clierrors.Wrap(clierrors.KindIO, err, fmt.Sprintf("failed to write %s", name))
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return clierrors.Wrap(clierrors.KindIO, err, fmt.Sprintf("failed to replace %s", name))
	}
	return nil
}
