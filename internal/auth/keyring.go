package auth

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/99designs/keyring"

	clierrors "github.com/salmonumbrella/rofi-linear/internal/errors"
)

const (
	// ServiceName is the keyring service name for rofi-linear
	ServiceName = "rofi-linear"
	// KeyName is the keyring key holding the API key
	KeyName = "linear-api-key"
	// KeyringPasswordEnvVarName sets the file keyring passphrase for non-interactive setups.
	KeyringPasswordEnvVarName = "ROFI_LINEAR_KEYRING_PASSWORD"
	// DBUSSessionAddressEnvVarName is used to detect Linux headless mode.
	DBUSSessionAddressEnvVarName = "DBUS_SESSION_BUS_ADDRESS"
)

// KeyringProvider is the subset of keyring.Keyring used here.
type KeyringProvider interface {
	Get(key string) (keyring.Item, error)
	Set(item keyring.Item) error
	Remove(key string) error
}

func keyringFilePassword() string {
	if password := strings.TrimSpace(os.Getenv(KeyringPasswordEnvVarName)); password != "" {
		return password
	}
	return ServiceName
}

// Headless Linux sessions have no Secret Service to talk to.
func shouldForceFileBackend(goos string, dbusAddr string) bool {
	return goos == "linux" && strings.TrimSpace(dbusAddr) == ""
}

// openKeyring opens the OS keyring, falling back to encrypted files under
// configDir/keyring.
func openKeyring(configDir string) (KeyringProvider, error) {
	cfg := keyring.Config{
		ServiceName:                    ServiceName,
		KeychainTrustApplication:       true,
		KeychainAccessibleWhenUnlocked: true,
		FileDir:                        filepath.Join(configDir, "keyring"),
		FilePasswordFunc: func(string) (string, error) {
			return keyringFilePassword(), nil
		},
	}
	if shouldForceFileBackend(runtime.GOOS, os.Getenv(DBUSSessionAddressEnvVarName)) {
		cfg.AllowedBackends = []keyring.BackendType{keyring.FileBackend}
	}
	return keyring.Open(cfg)
}

// providerFor is swapped out in tests.
var providerFor = openKeyring

// Keyring keeps the API key in the OS keyring.
type Keyring struct {
	configDir string
}

// NewKeyring returns a keyring backend whose file fallback lives under configDir.
func NewKeyring(configDir string) *Keyring {
	return &Keyring{configDir: configDir}
}

func (k *Keyring) open() (KeyringProvider, error) {
	provider, err := providerFor(k.configDir)
	if err != nil {
		return nil, clierrors.Wrap(clierrors.KindIO, err, "failed to open keyring")
	}
	return provider, nil
}

// APIKey returns the stored key and whether one is set.
func (k *Keyring) APIKey() (string, bool, error) {
	provider, err := k.open()
	if err != nil {
		return "", false, err
	}
	item, err := provider.Get(KeyName)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, clierrors.Wrap(clierrors.KindIO, err, "failed to read API key from keyring")
	}
	return string(item.Data), len(item.Data) > 0, nil
}

// SetAPIKey overwrites the stored key.
func (k *Keyring) SetAPIKey(key string) error {
	if key == "" {
		return fmt.Errorf("API key cannot be empty")
	}
	provider, err := k.open()
	if err != nil {
		return err
	}
	err = provider.Set(keyring.Item{
		Key:   KeyName,
		Label: "rofi-linear API key",
		Data:  []byte(key),
	})
	if err != nil {
		return clierrors.Wrap(clierrors.KindIO, err, "failed to store API key in keyring")
	}
	return nil
}
