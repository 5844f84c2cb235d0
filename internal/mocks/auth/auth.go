package auth

// Package auth contains simple hand-written test doubles for identity ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"errors"
	"sync"
	"time"

	domainauth "github.com/tripmate/tripmate-client/internal/domain/auth"
	apperrors "github.com/tripmate/tripmate-client/internal/errors"
	"github.com/tripmate/tripmate-client/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.Authenticator = (*MockAuthenticator)(nil)
	_ ports.SessionStore  = (*MemorySessionStore)(nil)
)

// MockAuthenticator simulates an identity service for tests.
type MockAuthenticator struct {
	AuthenticateFunc func(ctx context.Context) (domainauth.Identity, error)

	// DefaultIdentity is returned when AuthenticateFunc is nil.
	DefaultIdentity domainauth.Identity

	mu    sync.Mutex
	calls int
}

// NewMockAuthenticator creates a MockAuthenticator returning principal p.
func NewMockAuthenticator(p domainauth.Principal) *MockAuthenticator {
	return &MockAuthenticator{
		DefaultIdentity: domainauth.Identity{
			Principal:   p,
			Credential:  "token-" + string(p),
			DisplayName: "Mock User",
			Email:       "mock.user@example.com",
		},
	}
}

func (m *MockAuthenticator) Authenticate(ctx context.Context) (domainauth.Identity, error) {
	m.mu.Lock()
	m.calls++
	fn := m.AuthenticateFunc
	id := m.DefaultIdentity
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx)
	}
	if id.Principal == "" {
		id.Principal = "mock-principal-1"
		id.Credential = "mock-token"
	}
	id.ExpiresAt = time.Now().Add(time.Hour)
	return id, nil
}

// Calls returns how many times Authenticate ran.
func (m *MockAuthenticator) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// MemorySessionStore is an in-memory session store for unit tests.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]domainauth.Session

	// SaveErr and DeleteErr, when set, are returned instead of mutating the store.
	SaveErr   error
	DeleteErr error
}

// NewMemorySessionStore creates a new in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]domainauth.Session),
	}
}

func (m *MemorySessionStore) Save(_ context.Context, sess domainauth.Session) error {
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.sessions[sess.ID] = sess
	return nil
}

func (m *MemorySessionStore) Get(_ context.Context, id string) (domainauth.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[id]
	if id == "" || !ok {
		return domainauth.Session{}, apperrors.NotFound("session not found")
	}
	return sess, nil
}

func (m *MemorySessionStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	delete(m.sessions, id)
	return nil
}

// Len returns the number of stored sessions.
func (m *MemorySessionStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
