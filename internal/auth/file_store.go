package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

type fileSession struct {
	Token   string  `json:"access_token,omitempty"`
	Profile Profile `json:"profile"`
}

// FileStore persists the session as a 0600 JSON file so that consecutive
// ticketctl invocations share one login
type FileStore struct {
	mu      sync.RWMutex
	path    string
	session fileSession
}

// NewFileStore opens the session file at path. A missing file is an
// anonymous session; a corrupt one is discarded.
func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{path: path}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	if err := json.Unmarshal(data, &s.session); err != nil {
		s.session = fileSession{}
	}
	return s, nil
}

// Path returns the location of the session file
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Token
}

func (s *FileStore) SetToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.Token = token
	return s.persist()
}

func (s *FileStore) Profile() Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Profile
}

func (s *FileStore) SetProfile(p Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.Profile = p
	return s.persist()
}

// Clear removes the session file
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = fileSession{}
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}

// persist writes through a temp file so a crash never leaves half a token
func (s *FileStore) persist() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	data, err := json.Marshal(s.session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace session file: %w", err)
	}
	return nil
}
