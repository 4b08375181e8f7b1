// Package client is the portal SDK: a credential store that survives process
// restarts, an http.RoundTripper that transparently refreshes expired access
// tokens, a transfer manager for uploads and downloads, and typed facades
// over the REST surface.
package client

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
)

// Credential is the persisted session state: the short-lived access token,
// the long-lived refresh token, and the name shown in the UI header.
type Credential struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	DisplayName  string `json:"display_name"`
}

// CredentialStore owns the current Credential. The gateway is the only
// component that mutates it mid-session; facades Save on login and Clear on
// logout. Load reports absence through its second return value and never
// fails.
type CredentialStore interface {
	Load() (*Credential, bool)
	Save(cred *Credential) error
	UpdateAccessToken(token string) error
	Clear() error
}

// FileCredentialStore keeps the credential in a JSON file so a session
// survives process restarts. The file is written with 0600 permissions.
type FileCredentialStore struct {
	path string

	mu sync.Mutex
}

// NewFileCredentialStore creates a store backed by the given file path.
// The file does not need to exist yet.
func NewFileCredentialStore(path string) *FileCredentialStore {
	return &FileCredentialStore{path: path}
}

// Load reads the persisted credential. A missing or unreadable file is
// treated as "not logged in", not as an error.
func (s *FileCredentialStore) Load() (*Credential, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.read()
}

// read assumes the mutex is held.
func (s *FileCredentialStore) read() (*Credential, bool) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, false
	}

	var cred Credential
	if err := json.Unmarshal(data, &cred); err != nil {
		return nil, false
	}
	if cred.AccessToken == "" && cred.RefreshToken == "" {
		return nil, false
	}

	return &cred, true
}

// Save persists the credential, replacing any prior one.
func (s *FileCredentialStore) Save(cred *Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.write(cred)
}

// write assumes the mutex is held.
func (s *FileCredentialStore) write(cred *Credential) error {
	data, err := json.Marshal(cred)
	if err != nil {
		return errors.Wrap(err, "marshal credential")
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return errors.Wrap(err, "create credential dir")
		}
	}

	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return errors.Wrap(err, "write credential file")
	}

	return nil
}

// UpdateAccessToken replaces only the access token, keeping the refresh
// token and display name. Called by the gateway after a refresh cycle.
func (s *FileCredentialStore) UpdateAccessToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cred, ok := s.read()
	if !ok {
		return errors.New("no credential to update")
	}
	cred.AccessToken = token

	return s.write(cred)
}

// Clear removes the credential file. A missing file is not an error.
func (s *FileCredentialStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "remove credential file")
	}

	return nil
}

// MemoryCredentialStore is an in-process store for tests and short-lived
// tools that should not leave a credential on disk.
type MemoryCredentialStore struct {
	mu   sync.Mutex
	cred *Credential
}

// NewMemoryCredentialStore creates an empty in-memory store.
func NewMemoryCredentialStore() *MemoryCredentialStore {
	return &MemoryCredentialStore{}
}

func (s *MemoryCredentialStore) Load() (*Credential, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cred == nil {
		return nil, false
	}
	copied := *s.cred

	return &copied, true
}

func (s *MemoryCredentialStore) Save(cred *Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *cred
	s.cred = &copied

	return nil
}

func (s *MemoryCredentialStore) UpdateAccessToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cred == nil {
		return errors.New("no credential to update")
	}
	s.cred.AccessToken = token

	return nil
}

func (s *MemoryCredentialStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cred = nil

	return nil
}
