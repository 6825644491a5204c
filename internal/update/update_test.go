package update

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

type fakeHTTPClient struct {
	status int
	body   string
	err    error
}

func (f fakeHTTPClient) Do(_ *http.Request) (*http.Response, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &http.Response{
		StatusCode: f.status,
		Body:       io.NopCloser(strings.NewReader(f.body)),
	}, nil
}

func testChecker(t *testing.T, client HTTPDoer, now time.Time) *Checker {
	t.Helper()
	return &Checker{
		http:     client,
		endpoint: "https://example.invalid/releases/latest",
		path:     filepath.Join(t.TempDir(), "cache", stateFile),
		now:      func() time.Time { return now },
	}
}

func TestNewer(t *testing.T) {
	tests := []struct {
		latest  string
		current string
		want    bool
	}{
		{"1.0.1", "1.0.0", true},
		{"1.0.0", "1.0.0", false},
		{"1.0.0", "1.0.1", false},
		{"2.0.0", "1.9.9", true},
		{"1.10.0", "1.9.0", true},
		{"1.1", "1.0.5", true},
		{"v1.2.0", "1.1.0", true},
		{"1.2.0-rc1", "1.1.0", true},
		{"1.0.0", "dev", false},
		{"1.0.0", "", false},
		{"garbage", "1.0.0", false},
	}

	for _, tt := range tests {
		if got := newer(tt.latest, tt.current); got != tt.want {
			t.Errorf("newer(%q, %q) = %v, want %v", tt.latest, tt.current, got, tt.want)
		}
	}
}

func TestNotice(t *testing.T) {
	now := time.Date(2026, time.March, 2, 10, 0, 0, 0, time.UTC)
	c := testChecker(t, fakeHTTPClient{status: http.StatusOK, body: `{"tag_name":"v1.3.0"}`}, now)

	got := c.Notice(context.Background(), "v1.2.0")
	want := "rofi-linear 1.3.0 is available (you have 1.2.0)\nhttps://github.com/salmonumbrella/rofi-linear/releases/latest"
	if got != want {
		t.Errorf("Notice() = %q, want %q", got, want)
	}

	if got := c.Notice(context.Background(), "1.3.0"); got != "" {
		t.Errorf("Notice(current) = %q, want empty", got)
	}
}

func TestNotice_DevBuildSkipsNetwork(t *testing.T) {
	c := testChecker(t, fakeHTTPClient{err: errors.New("must not be called")}, time.Now())

	if got := c.Notice(context.Background(), "dev"); got != "" {
		t.Errorf("Notice(dev) = %q", got)
	}
	if _, err := os.Stat(c.path); !os.IsNotExist(err) {
		t.Error("dev build wrote a cache file")
	}
}

func TestNotice_FetchErrorIsSilent(t *testing.T) {
	tests := []struct {
		name   string
		client fakeHTTPClient
	}{
		{"transport", fakeHTTPClient{err: errors.New("offline")}},
		{"status", fakeHTTPClient{status: http.StatusForbidden, body: `{"message":"rate limited"}`}},
		{"no tag", fakeHTTPClient{status: http.StatusOK, body: `{}`}},
		{"bad json", fakeHTTPClient{status: http.StatusOK, body: `{`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testChecker(t, tt.client, time.Now())
			if got := c.Notice(context.Background(), "1.0.0"); got != "" {
				t.Errorf("Notice() = %q, want empty", got)
			}
			if _, err := c.Latest(context.Background()); err == nil {
				t.Error("Latest() error = nil")
			}
		})
	}
}

func TestLatest_UsesCacheWithinInterval(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		if r.Header.Get("Accept") != "application/vnd.github+json" {
			t.Errorf("Accept = %q", r.Header.Get("Accept"))
		}
		_, _ = io.WriteString(w, `{"tag_name":"v2.0.0"}`)
	}))
	defer srv.Close()

	now := time.Date(2026, time.March, 2, 10, 0, 0, 0, time.UTC)
	c := testChecker(t, srv.Client(), now)
	c.endpoint = srv.URL

	for i := 0; i < 3; i++ {
		latest, err := c.Latest(context.Background())
		if err != nil || latest != "2.0.0" {
			t.Fatalf("Latest() = %q, %v", latest, err)
		}
	}
	if got := atomic.LoadInt32(&hits); got != 1 {
		t.Errorf("requests = %d, want 1", got)
	}

	c.now = func() time.Time { return now.Add(25 * time.Hour) }
	if _, err := c.Latest(context.Background()); err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	if got := atomic.LoadInt32(&hits); got != 2 {
		t.Errorf("requests after interval = %d, want 2", got)
	}
}

func TestLatest_CorruptCacheRefetches(t *testing.T) {
	c := testChecker(t, fakeHTTPClient{status: http.StatusOK, body: `{"tag_name":"1.4.0"}`}, time.Now())
	if err := os.MkdirAll(filepath.Dir(c.path), 0o700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(c.path, []byte("latest: [\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	latest, err := c.Latest(context.Background())
	if err != nil || latest != "1.4.0" {
		t.Errorf("Latest() = %q, %v", latest, err)
	}
}

func TestCheck_Disabled(t *testing.T) {
	t.Setenv(DisableEnvVarName, "1")
	if got := Check(context.Background(), "0.0.1"); got != "" {
		t.Errorf("Check() = %q, want empty", got)
	}
}
