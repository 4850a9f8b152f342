// Package session keeps signed-in users and their selected branch. Both
// stores are explicit objects created at startup and handed to whoever
// needs them; a session ends on logout, on expiry or on a backend 401.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Simplici0/printdesk/internal/apiclient"
)

var ErrNoSession = errors.New("no active session")

// Session is one signed-in user of the console.
type Session struct {
	ID        string
	User      apiclient.User
	Token     string
	ExpiresAt time.Time
	Client    *apiclient.Client
	Branch    *BranchSelection
}

// Expired reports whether the backend token has passed its exp claim.
// Tokens without exp never expire here; the backend still answers 401.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// Manager owns all live sessions.
type Manager struct {
	backend *apiclient.Client
	now     func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
	onEnd    []func(*Session)
}

// NewManager returns an empty store; backend is the anonymous client each
// session derives its authenticated client from.
func NewManager(backend *apiclient.Client) *Manager {
	return &Manager{
		backend:  backend,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// OnEnd registers fn to run after a session is torn down.
func (m *Manager) OnEnd(fn func(*Session)) {
	m.mu.Lock()
	m.onEnd = append(m.onEnd, fn)
	m.mu.Unlock()
}

// Start opens a session for a successful login.
func (m *Manager) Start(login apiclient.LoginResult) *Session {
	s := &Session{
		ID:        uuid.NewString(),
		User:      login.User,
		Token:     login.Token,
		ExpiresAt: tokenExpiry(login.Token),
		Branch:    NewBranchSelection(login.User.BranchID),
	}
	id := s.ID
	s.Client = m.backend.WithToken(login.Token, func() {
		log.Warn().Str("session", id).Msg("backend rejected token, ending session")
		m.End(id)
	})

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	log.Info().Str("session", s.ID).Str("user", s.User.Email).Str("role", string(s.User.Role)).Msg("session started")
	return s
}

// Get returns the live session with id. Expired sessions are ended.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNoSession
	}
	if s.Expired(m.now()) {
		m.End(id)
		return nil, ErrNoSession
	}
	return s, nil
}

// End tears down the session with id; unknown ids are ignored.
func (m *Manager) End(id string) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	hooks := append([]func(*Session){}, m.onEnd...)
	m.mu.Unlock()

	if !ok {
		return
	}
	for _, fn := range hooks {
		fn(s)
	}
	log.Info().Str("session", id).Msg("session ended")
}

// Close ends every session.
func (m *Manager) Close() {
	m.mu.RLock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	m.mu.RUnlock()

	for _, id := range ids {
		m.End(id)
	}
}

// Sessions returns the live sessions in no particular order.
func (m *Manager) Sessions() []*Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	return out
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// tokenExpiry reads the exp claim of a backend JWT without verifying it;
// the console is not the token's audience, the backend is.
func tokenExpiry(token string) time.Time {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}
	}
	if claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time
}
