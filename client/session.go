package client

import (
	"sync"

	"chat-hub/auth"

	"github.com/golang-jwt/jwt/v5"
)

// Session carries the bearer token and the identity it encodes. The
// token is parsed locally so the UI knows who is logged in without an
// extra round trip.
type Session struct {
	mu     sync.RWMutex
	token  string
	userID string
	name   string
}

func NewSession() *Session {
	return &Session{}
}

// Open installs a fresh token, replacing any previous session. The
// claims are read without signature verification: only the server holds
// the key, and only the server's acceptance of the token matters.
func (s *Session) Open(token string) error {
	var claims auth.CustomClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.userID = claims.UserID
	s.name = claims.Name
	return nil
}

// Close forgets the token. Every subsequent API call is anonymous until
// the next Open.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.userID = ""
	s.name = ""
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID
}

func (s *Session) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

func (s *Session) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}
