// Package session persists the access/refresh token pair between runs.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Keys stored in the session file.
const (
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
)

// FileStore is a JSON key-value file holding the current session. Every
// Get re-reads the file, so an out-of-band login flow can replace tokens
// without restarting the server.
type FileStore struct {
	path string
}

// NewFileStore creates a store backed by the file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// DefaultPath returns the session file location under the user's home.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".jobtrack", "session.json"), nil
}

// Get returns the value stored under key. A missing file or key is an
// error; the caller is expected to log in first.
func (s *FileStore) Get(key string) (string, error) {
	values, err := s.read()
	if err != nil {
		return "", err
	}
	v, ok := values[key]
	if !ok {
		return "", fmt.Errorf("session key %q not found", key)
	}
	return v, nil
}

// Set stores value under key, creating the file and its directory on
// first use.
func (s *FileStore) Set(key, value string) error {
	values, err := s.read()
	if err != nil {
		values = map[string]string{}
	}
	values[key] = value

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}

func (s *FileStore) read() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("session file %s not found", s.path)
		}
		return nil, fmt.Errorf("read session file: %w", err)
	}
	var values map[string]string
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("parse session file %s: %w", s.path, err)
	}
	return values, nil
}
