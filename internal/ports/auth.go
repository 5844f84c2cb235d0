package ports

// Package ports defines interfaces (hexagonal ports) for identity and session behavior.
// Implementations live in internal/adapters; orchestration in internal/identity.

import (
	"context"

	domainauth "github.com/tripmate/tripmate-client/internal/domain/auth"
)

// Authenticator runs an interactive login against an external identity service.
type Authenticator interface {
	// Authenticate blocks until the user completes (or abandons) the login flow.
	Authenticate(ctx context.Context) (domainauth.Identity, error)
}

// SessionStore persists and retrieves local sessions.
// Get returns an errors.ErrCodeNotFound AppError when no session exists.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, id string) (domainauth.Session, error)
	Delete(ctx context.Context, id string) error
}

// CredentialVerifier validates a bearer credential presented to the remote store and
// returns the principal it belongs to.
type CredentialVerifier interface {
	Verify(ctx context.Context, credential string) (domainauth.Principal, error)
}
