package client

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/sthmu/Student-Manager/models"
)

// Credentials is what gets persisted between CLI invocations: the raw
// token plus the public user projection the server returned with it.
type Credentials struct {
	Token string            `json:"token"`
	User  models.PublicUser `json:"user"`
}

// CredentialStore keeps credentials in a JSON file, the CLI's
// equivalent of the browser's localStorage.
type CredentialStore struct {
	path string
}

func NewCredentialStore(path string) *CredentialStore {
	return &CredentialStore{path: path}
}

func DefaultCredentialStore() (*CredentialStore, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return NewCredentialStore(filepath.Join(home, ".student-manager", "credentials.json")), nil
}

// Load returns (nil, nil) when no credentials are stored.
func (s *CredentialStore) Load() (*Credentials, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var creds Credentials
	if err := json.Unmarshal(b, &creds); err != nil {
		// An unreadable credential file is the same as no credentials.
		return nil, nil
	}
	if creds.Token == "" {
		return nil, nil
	}
	return &creds, nil
}

func (s *CredentialStore) Save(creds Credentials) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	b, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, b, 0o600)
}

func (s *CredentialStore) Clear() error {
	err := os.Remove(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
