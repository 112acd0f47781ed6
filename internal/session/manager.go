package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "careerai"

type claims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// Manager issues bearer tokens for authenticated sessions and resolves them back.
type Manager struct {
	store  Store
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewManager(store Store, secret string, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Manager{
		store:  store,
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Start authenticates a new session as username and returns it with its token.
func (m *Manager) Start(ctx context.Context, username string) (*Session, string, error) {
	s := New()
	s.Authenticate(username)
	if err := m.store.Save(ctx, s, m.ttl); err != nil {
		return nil, "", err
	}

	now := m.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		SessionID: s.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	})
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return nil, "", fmt.Errorf("sign session token: %w", err)
	}
	return s, signed, nil
}

// Resolve validates the token and loads its session.
func (m *Manager) Resolve(ctx context.Context, token string) (*Session, error) {
	var c claims
	parsed, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !parsed.Valid || c.SessionID == "" {
		return nil, ErrInvalidToken
	}

	s, err := m.store.Get(ctx, c.SessionID)
	if err != nil {
		return nil, err
	}
	if s.Username != c.Subject {
		return nil, ErrInvalidToken
	}
	return s, nil
}

// Logout ends the session; its token no longer resolves.
func (m *Manager) Logout(ctx context.Context, s *Session) error {
	if s == nil {
		return nil
	}
	if err := m.store.Delete(ctx, s.ID); err != nil && !errors.Is(err, ErrSessionNotFound) {
		return err
	}
	s.Logout()
	return nil
}
