// Package auth provides the credential backends for the Linear API key.
//
// The default backend is the creds.yaml record owned by internal/config.
// The keyring backend stores the key in the OS keyring (macOS Keychain,
// Windows Credential Manager, Linux Secret Service) via
// github.com/99designs/keyring, falling back to an encrypted file under the
// configuration directory on headless Linux.
//
// Either backend can be wrapped with EnvOverride so that LINEAR_API_KEY
// takes priority on reads, which keeps CI and scripts away from keychain
// prompts:
//
//	creds := auth.EnvOverride{Store: auth.NewKeyring(configDir)}
//	key, ok, err := creds.APIKey()
package auth
