package ui

import (
	"crypto/subtle"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	sessionCookie   = "commuteboard_session"
	sessionLifetime = 24 * time.Hour
)

// sessionStore tracks issued dashboard sessions in memory. Sessions are
// request-scoped state passed into handlers, not a process-wide flag; losing
// them on restart just means logging in again.
type sessionStore struct {
	mu       sync.Mutex
	sessions map[string]time.Time // token -> expiry
}

func newSessionStore() *sessionStore {
	return &sessionStore{sessions: make(map[string]time.Time)}
}

// Issue creates a new session token.
func (s *sessionStore) Issue() string {
	token := uuid.NewString()
	s.mu.Lock()
	s.sessions[token] = time.Now().Add(sessionLifetime)
	s.mu.Unlock()
	return token
}

// Valid reports whether the token names a live session, pruning it when
// expired.
func (s *sessionStore) Valid(token string) bool {
	if token == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	expiry, ok := s.sessions[token]
	if !ok {
		return false
	}
	if time.Now().After(expiry) {
		delete(s.sessions, token)
		return false
	}
	return true
}

// Revoke drops a session (logout).
func (s *sessionStore) Revoke(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// checkPassword compares the submitted password against the configured one
// in constant time.
func checkPassword(configured, submitted string) bool {
	return subtle.ConstantTimeCompare([]byte(configured), []byte(submitted)) == 1
}
