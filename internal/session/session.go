// Package session holds the operator's bearer session. Tokens are issued by
// an external auth collaborator; this package only carries them and refuses
// writes once they are absent or expired. Signature verification happens at
// the store, not here, so tokens are parsed unverified.
package session

import (
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Session struct {
	mu    sync.RWMutex
	user  string
	token string
}

func New() *Session {
	return &Session{}
}

// Set installs the operator identity and bearer token for this process.
func (s *Session) Set(user, token string) {
	s.mu.Lock()
	s.user = user
	s.token = token
	s.mu.Unlock()
}

// Clear drops the current session.
func (s *Session) Clear() {
	s.Set("", "")
}

func (s *Session) User() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Valid reports whether a token is present and not expired at instant now.
// A token that does not parse as a JWT, or parses without an exp claim, is
// treated as opaque and assumed valid; the store is the authority.
func (s *Session) Valid(now time.Time) bool {
	token := s.Token()
	if token == "" {
		return false
	}

	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return true
	}
	if claims.ExpiresAt == nil {
		return true
	}
	return claims.ExpiresAt.After(now)
}
