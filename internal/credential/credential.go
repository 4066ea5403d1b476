// Package credential holds the bearer token used to authenticate requests
// against the assistant backend.
package credential

import (
	"strings"
	"sync"

	"github.com/golang-jwt/jwt/v5"
)

// Credential is an opaque bearer token. No expiry is tracked client-side.
type Credential string

// Subject returns the unverified "sub" claim when the token is a JWT. It is
// informational only (log fields, prompts); the backend remains the authority.
func (c Credential) Subject() string {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(string(c), claims); err != nil {
		return ""
	}
	sub, err := claims.GetSubject()
	if err != nil {
		return ""
	}
	return sub
}

// Source is the read side consumed by the HTTP client on every request.
// Get never fails; a missing token is reported as ok == false.
type Source interface {
	Get() (Credential, bool)
}

// Store adds the write path used by the login flow.
type Store interface {
	Source
	Set(Credential) error
	Clear() error
}

// MemoryStore keeps the token in process memory only.
type MemoryStore struct {
	mu    sync.RWMutex
	token Credential
}

// NewMemoryStore returns a store seeded with token (which may be empty).
func NewMemoryStore(token string) *MemoryStore {
	return &MemoryStore{token: Credential(strings.TrimSpace(token))}
}

func (s *MemoryStore) Get() (Credential, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.token != ""
}

func (s *MemoryStore) Set(c Credential) error {
	s.mu.Lock()
	s.token = Credential(strings.TrimSpace(string(c)))
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Clear() error {
	return s.Set("")
}
