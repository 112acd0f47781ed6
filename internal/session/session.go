// Package session tracks whether an interactive client is authenticated and as whom.
package session

import (
	"errors"

	"github.com/google/uuid"
)

// State is the authentication state of a session.
type State string

const (
	StateAnonymous     State = "anonymous"
	StateAuthenticated State = "authenticated"
)

var (
	// ErrSessionNotFound is returned when a session ID is unknown or expired.
	ErrSessionNotFound = errors.New("session not found")
	// ErrInvalidToken is returned for malformed, forged or expired tokens.
	ErrInvalidToken = errors.New("invalid session token")
)

// Session is the explicit per-client state passed through the assessment flow.
type Session struct {
	ID       string `json:"id"`
	Username string `json:"username,omitempty"`
	State    State  `json:"state"`
}

// New returns an anonymous session with a fresh ID.
func New() *Session {
	return &Session{ID: uuid.NewString(), State: StateAnonymous}
}

// Authenticate moves the session to Authenticated(username).
func (s *Session) Authenticate(username string) {
	s.Username = username
	s.State = StateAuthenticated
}

// Logout moves the session back to Anonymous.
func (s *Session) Logout() {
	s.Username = ""
	s.State = StateAnonymous
}

func (s *Session) IsAuthenticated() bool {
	return s != nil && s.State == StateAuthenticated && s.Username != ""
}
