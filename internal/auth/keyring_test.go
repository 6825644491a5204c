package auth

import (
	"fmt"
	"sync"
	"testing"

	"github.com/99designs/keyring"

	clierrors "github.com/salmonumbrella/rofi-linear/internal/errors"
)

type memKeyring struct {
	mu    sync.Mutex
	items map[string]keyring.Item
}

func (m *memKeyring) Get(key string) (keyring.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[key]
	if !ok {
		return keyring.Item{}, keyring.ErrKeyNotFound
	}
	return item, nil
}

func (m *memKeyring) Set(item keyring.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[item.Key] = item
	return nil
}

func (m *memKeyring) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}

func useProvider(t *testing.T, fn func(string) (KeyringProvider, error)) {
	t.Helper()
	prev := providerFor
	providerFor = fn
	t.Cleanup(func() { providerFor = prev })
}

func setupMockKeyring(t *testing.T) *memKeyring {
	t.Helper()
	mem := &memKeyring{items: map[string]keyring.Item{}}
	useProvider(t, func(string) (KeyringProvider, error) { return mem, nil })
	return mem
}

func setupNoKeyring(t *testing.T) {
	t.Helper()
	useProvider(t, func(string) (KeyringProvider, error) {
		return nil, fmt.Errorf("keyring not available")
	})
}

func TestKeyring_Empty(t *testing.T) {
	setupMockKeyring(t)

	key, ok, err := NewKeyring(t.TempDir()).APIKey()
	if err != nil {
		t.Fatalf("APIKey() error = %v", err)
	}
	if ok || key != "" {
		t.Errorf("APIKey() = %q, %v; want empty", key, ok)
	}
}

func TestKeyring_SetAndGet(t *testing.T) {
	mock := setupMockKeyring(t)
	k := NewKeyring(t.TempDir())

	if err := k.SetAPIKey("lin_api_one"); err != nil {
		t.Fatalf("SetAPIKey() error = %v", err)
	}
	if err := k.SetAPIKey("lin_api_two"); err != nil {
		t.Fatalf("SetAPIKey() error = %v", err)
	}

	key, ok, err := k.APIKey()
	if err != nil || !ok || key != "lin_api_two" {
		t.Errorf("APIKey() = %q, %v, %v; want lin_api_two", key, ok, err)
	}

	item, err := mock.Get(KeyName)
	if err != nil {
		t.Fatalf("mock.Get() error = %v", err)
	}
	if string(item.Data) != "lin_api_two" {
		t.Errorf("stored data = %q", item.Data)
	}
}

func TestKeyring_SetEmpty(t *testing.T) {
	setupMockKeyring(t)
	if err := NewKeyring(t.TempDir()).SetAPIKey(""); err == nil {
		t.Error("expected error for empty key")
	}
}

func TestKeyring_Unavailable(t *testing.T) {
	setupNoKeyring(t)

	_, _, err := NewKeyring(t.TempDir()).APIKey()
	if !clierrors.Is(err, clierrors.KindIO) {
		t.Errorf("APIKey() error = %v, want IO kind", err)
	}
	if err := NewKeyring(t.TempDir()).SetAPIKey("lin_api_x"); !clierrors.Is(err, clierrors.KindIO) {
		t.Errorf("SetAPIKey() error = %v, want IO kind", err)
	}
}

func TestShouldForceFileBackend(t *testing.T) {
	tests := []struct {
		goos string
		dbus string
		want bool
	}{
		{"linux", "", true},
		{"linux", "  ", true},
		{"linux", "unix:path=/run/user/1000/bus", false},
		{"darwin", "", false},
		{"windows", "", false},
	}
	for _, tt := range tests {
		if got := shouldForceFileBackend(tt.goos, tt.dbus); got != tt.want {
			t.Errorf("shouldForceFileBackend(%q, %q) = %v, want %v", tt.goos, tt.dbus, got, tt.want)
		}
	}
}

func TestKeyringFilePassword(t *testing.T) {
	t.Setenv(KeyringPasswordEnvVarName, "")
	if got := keyringFilePassword(); got != ServiceName {
		t.Errorf("default password = %q, want %q", got, ServiceName)
	}

	t.Setenv(KeyringPasswordEnvVarName, "hunter2")
	if got := keyringFilePassword(); got != "hunter2" {
		t.Errorf("password = %q, want hunter2", got)
	}
}
