package auth

import (
	"fmt"
	"os"
	"strings"
)

// EnvVarName overrides the stored API key on reads.
const EnvVarName = "LINEAR_API_KEY"

// CredentialStore reads and writes the API key. config.Store and Keyring
// both satisfy it.
type CredentialStore interface {
	APIKey() (string, bool, error)
	SetAPIKey(key string) error
}

// EnvOverride prefers LINEAR_API_KEY over Store on reads. Writes always go
// to Store.
type EnvOverride struct {
	Store CredentialStore
}

// APIKey returns $LINEAR_API_KEY when set, otherwise the stored key.
func (e EnvOverride) APIKey() (string, bool, error) {
	if key := strings.TrimSpace(os.Getenv(EnvVarName)); key != "" {
		return key, true, nil
	}
	return e.Store.APIKey()
}

// SetAPIKey writes to the wrapped store.
func (e EnvOverride) SetAPIKey(key string) error {
	return e.Store.SetAPIKey(key)
}

// Backend names a credential backend.
type Backend string

const (
	BackendFile    Backend = "file"
	BackendKeyring Backend = "keyring"

	// BackendEnvVarName selects the backend when --credential-store is not given.
	BackendEnvVarName = "ROFI_LINEAR_CREDENTIAL_STORE"
)

// ParseBackend validates a backend name. An empty name is BackendFile.
func ParseBackend(s string) (Backend, error) {
	switch Backend(strings.ToLower(strings.TrimSpace(s))) {
	case "", BackendFile:
		return BackendFile, nil
	case BackendKeyring:
		return BackendKeyring, nil
	default:
		return "", fmt.Errorf("unknown credential store %q (expected file or keyring)", s)
	}
}

// Select returns the credential store for backend, wrapped with EnvOverride.
// file is the creds.yaml store; configDir roots the keyring file fallback.
func Select(backend Backend, file CredentialStore, configDir string) CredentialStore {
	if backend == BackendKeyring {
		return EnvOverride{Store: NewKeyring(configDir)}
	}
	return EnvOverride{Store: file}
}
