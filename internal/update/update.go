// Package update tells interactive users when a newer rofi-linear release
// has been published. Failures never reach the user.
package update

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// Repo is the GitHub repository whose releases are checked.
	Repo = "salmonumbrella/rofi-linear"
	// DisableEnvVarName turns the check off when set to any value.
	DisableEnvVarName = "ROFI_LINEAR_NO_UPDATE_CHECK"

	checkInterval = 24 * time.Hour
	fetchTimeout  = 3 * time.Second
	stateFile     = "release-check.yaml"
)

// state is what the checker remembers between runs.
type state struct {
	CheckedAt time.Time `yaml:"checked_at"`
	Latest    string    `yaml:"latest"`
}

// HTTPDoer abstracts an HTTP client for testability.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Checker looks up the latest release at most once per interval.
type Checker struct {
	http     HTTPDoer
	endpoint string
	path     string
	now      func() time.Time
}

// NewChecker returns a Checker that caches its result under the user cache
// directory.
func NewChecker() *Checker {
	path := ""
	if dir, err := os.UserCacheDir(); err == nil {
		path = filepath.Join(dir, "rofi-linear", stateFile)
	}
	return &Checker{
		http:     &http.Client{Timeout: fetchTimeout},
		endpoint: fmt.Sprintf("https://api.github.com/repos/%s/releases/latest", Repo),
		path:     path,
		now:      time.Now,
	}
}

// Latest returns the newest published version, from cache when fresh.
func (c *Checker) Latest(ctx context.Context) (string, error) {
	cached := c.load()
	if cached.Latest != "" && c.now().Sub(cached.CheckedAt) < checkInterval {
		return cached.Latest, nil
	}

	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()
	latest, err := c.fetch(ctx)
	if err != nil {
		return "", fmt.Errorf("release check: %w", err)
	}
	if err := c.save(state{CheckedAt: c.now(), Latest: latest}); err != nil {
		slog.Debug("failed to cache release check", "path", c.path, "error", err)
	}
	return latest, nil
}

// Notice returns a two-line message when a release newer than current
// exists, or "".
func (c *Checker) Notice(ctx context.Context, current string) string {
	if !isRelease(current) {
		return ""
	}
	latest, err := c.Latest(ctx)
	if err != nil {
		slog.Debug("update check failed", "error", err)
		return ""
	}
	if !newer(latest, current) {
		return ""
	}
	return fmt.Sprintf("rofi-linear %s is available (you have %s)\nhttps://github.com/%s/releases/latest",
		latest, strings.TrimPrefix(current, "v"), Repo)
}

// Check is Notice with the default checker. It returns "" when the check
// is disabled via DisableEnvVarName.
func Check(ctx context.Context, current string) string {
	if os.Getenv(DisableEnvVarName) != "" {
		return ""
	}
	return NewChecker().Notice(ctx, current)
}

func (c *Checker) load() state {
	var s state
	if c.path == "" {
		return s
	}
	data, err := os.ReadFile(c.path)
	if err != nil {
		return s
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		slog.Debug("ignoring unreadable release cache", "path", c.path, "error", err)
		return state{}
	}
	return s
}

func (c *Checker) save(s state) error {
	if c.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o700); err != nil {
		return err
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(c.path, data, 0o600)
}

func (c *Checker) fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("GitHub returned HTTP %d", resp.StatusCode)
	}
	var release struct {
		TagName string `json:"tag_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return "", err
	}
	if release.TagName == "" {
		return "", fmt.Errorf("release has no tag")
	}
	return strings.TrimPrefix(release.TagName, "v"), nil
}

// isRelease reports whether v is a release version rather than a local build.
func isRelease(v string) bool {
	_, ok := versionParts(v)
	return ok
}

// newer reports whether latest sorts after current. Pre-release suffixes
// are ignored.
func newer(latest, current string) bool {
	l, ok := versionParts(latest)
	if !ok {
		return false
	}
	c, ok := versionParts(current)
	if !ok {
		return false
	}
	for i := 0; i < 3; i++ {
		if l[i] != c[i] {
			return l[i] > c[i]
		}
	}
	return false
}

func versionParts(v string) ([3]int, bool) {
	var out [3]int
	v = strings.TrimPrefix(strings.TrimSpace(v), "v")
	if i := strings.IndexAny(v, "-+"); i >= 0 {
		v = v[:i]
	}
	parts := strings.Split(v, ".")
	if len(parts) == 0 || len(parts) > 3 || parts[0] == "" {
		return out, false
	}
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return out, false
		}
		out[i] = n
	}
	return out, true
}
