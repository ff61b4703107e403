// Package auth gates the dashboard behind a shared password and issues per-login sessions.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials is returned when the supplied password does not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthorized is returned for a missing, unknown or expired session token.
	ErrUnauthorized = errors.New("unauthorized")
)

// Session is the result of a successful login. It travels in the request context.
type Session struct {
	ID        string    `json:"session_id"`
	Token     string    `json:"token"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session is no longer valid at now.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Authenticator checks the dashboard password and tracks issued sessions.
type Authenticator struct {
	hash []byte
	ttl  time.Duration
	now  func() time.Time

	mu       sync.Mutex
	sessions map[string]Session
}

// NewAuthenticator builds an authenticator from a bcrypt hash, or from a plaintext
// password that is hashed immediately. The hash wins when both are given.
func NewAuthenticator(password, passwordHash string, ttl time.Duration) (*Authenticator, error) {
	var hash []byte
	switch {
	case passwordHash != "":
		if _, err := bcrypt.Cost([]byte(passwordHash)); err != nil {
			return nil, fmt.Errorf("invalid password hash: %w", err)
		}
		hash = []byte(passwordHash)
	case password != "":
		h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		hash = h
	default:
		return nil, errors.New("no dashboard credential configured")
	}
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Authenticator{hash: hash, ttl: ttl, now: time.Now, sessions: make(map[string]Session)}, nil
}

// Login issues a new session when password matches the configured secret exactly.
func (a *Authenticator) Login(password string) (Session, error) {
	if err := bcrypt.CompareHashAndPassword(a.hash, []byte(password)); err != nil {
		return Session{}, ErrInvalidCredentials
	}

	token, err := randomHex(32)
	if err != nil {
		return Session{}, err
	}
	id, err := randomHex(8)
	if err != nil {
		return Session{}, err
	}
	now := a.now()
	s := Session{ID: id, Token: token, IssuedAt: now, ExpiresAt: now.Add(a.ttl)}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.pruneLocked(now)
	a.sessions[token] = s
	return s, nil
}

// Verify returns the session for token.
func (a *Authenticator) Verify(token string) (Session, error) {
	if token == "" {
		return Session{}, ErrUnauthorized
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	s, ok := a.sessions[token]
	if !ok {
		return Session{}, ErrUnauthorized
	}
	if s.Expired(a.now()) {
		delete(a.sessions, token)
		return Session{}, ErrUnauthorized
	}
	return s, nil
}

// Logout ends the session for token. Unknown tokens are ignored.
func (a *Authenticator) Logout(token string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.sessions, token)
}

// ActiveSessions counts sessions that have not expired.
func (a *Authenticator) ActiveSessions() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pruneLocked(a.now())
	return len(a.sessions)
}

func (a *Authenticator) pruneLocked(now time.Time) {
	for token, s := range a.sessions {
		if s.Expired(now) {
			delete(a.sessions, token)
		}
	}
}

func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

type sessionKey struct{}

// WithSession returns a context carrying s.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// FromContext returns the session stored by WithSession.
func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(Session)
	return s, ok
}
