package auth

import (
	"testing"
)

type memStore struct {
	key    string
	writes int
}

func (m *memStore) APIKey() (string, bool, error) { return m.key, m.key != "", nil }

func (m *memStore) SetAPIKey(key string) error {
	m.key = key
	m.writes++
	return nil
}

func TestEnvOverride(t *testing.T) {
	tests := []struct {
		name    string
		env     string
		stored  string
		wantKey string
		wantOK  bool
	}{
		{name: "env wins", env: "lin_api_env", stored: "lin_api_file", wantKey: "lin_api_env", wantOK: true},
		{name: "falls back to store", env: "", stored: "lin_api_file", wantKey: "lin_api_file", wantOK: true},
		{name: "whitespace env ignored", env: "   ", stored: "lin_api_file", wantKey: "lin_api_file", wantOK: true},
		{name: "nothing", env: "", stored: "", wantKey: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvVarName, tt.env)
			e := EnvOverride{Store: &memStore{key: tt.stored}}

			key, ok, err := e.APIKey()
			if err != nil {
				t.Fatalf("APIKey() error = %v", err)
			}
			if key != tt.wantKey || ok != tt.wantOK {
				t.Errorf("APIKey() = %q, %v; want %q, %v", key, ok, tt.wantKey, tt.wantOK)
			}
		})
	}
}

func TestEnvOverride_WritesGoToStore(t *testing.T) {
	t.Setenv(EnvVarName, "lin_api_env")
	store := &memStore{}
	e := EnvOverride{Store: store}

	if err := e.SetAPIKey("lin_api_new"); err != nil {
		t.Fatalf("SetAPIKey() error = %v", err)
	}
	if store.key != "lin_api_new" || store.writes != 1 {
		t.Errorf("store = %+v, want one write of lin_api_new", store)
	}
}

func TestParseBackend(t *testing.T) {
	tests := []struct {
		in      string
		want    Backend
		wantErr bool
	}{
		{"", BackendFile, false},
		{"file", BackendFile, false},
		{"Keyring", BackendKeyring, false},
		{"vault", "", true},
	}
	for _, tt := range tests {
		got, err := ParseBackend(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseBackend(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseBackend(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSelect(t *testing.T) {
	file := &memStore{}

	if s, ok := Select(BackendFile, file, t.TempDir()).(EnvOverride); !ok || s.Store != file {
		t.Errorf("file backend should wrap the file store, got %#v", s)
	}
	if s, ok := Select(BackendKeyring, file, t.TempDir()).(EnvOverride); !ok {
		t.Errorf("keyring backend should be wrapped with EnvOverride")
	} else if _, isKeyring := s.Store.(*Keyring); !isKeyring {
		t.Errorf("keyring backend store = %T, want *Keyring", s.Store)
	}
}
