package auth

import (
	"sync"

	"event-ticketing-storefront/internal/models"
)

// Profile is the cached identity of the signed-in user
type Profile struct {
	UserID   int             `json:"user_id,omitempty"`
	Role     models.UserRole `json:"role,omitempty"`
	FullName string          `json:"full_name,omitempty"`
}

// IsAdmin reports whether the cached role is admin
func (p Profile) IsAdmin() bool {
	return p.Role == models.UserRoleAdmin
}

// Store holds the bearer token and cached profile of one client. Absence of
// a token means anonymous. Implementations must be safe for concurrent use.
type Store interface {
	Token() string
	SetToken(token string) error
	Profile() Profile
	SetProfile(p Profile) error
	Clear() error
}

// MemoryStore keeps the session in process memory
type MemoryStore struct {
	mu      sync.RWMutex
	token   string
	profile Profile
}

// NewMemoryStore creates an empty, anonymous store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *MemoryStore) SetToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *MemoryStore) Profile() Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile
}

func (s *MemoryStore) SetProfile(p Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = p
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.profile = Profile{}
	return nil
}
