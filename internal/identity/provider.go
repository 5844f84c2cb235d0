// Package identity tracks who is logged in: it runs logins through an external
// authenticator, persists the resulting session locally, and broadcasts changes.
package identity

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/tripmate/tripmate-client/internal/broadcast"
	domainauth "github.com/tripmate/tripmate-client/internal/domain/auth"
	apperrors "github.com/tripmate/tripmate-client/internal/errors"
	"github.com/tripmate/tripmate-client/internal/ports"
)

// DefaultSessionName is the store key used when none is configured.
const DefaultSessionName = "default"

// ProviderOptions groups dependencies for Provider.
type ProviderOptions struct {
	Authenticator ports.Authenticator
	Sessions      ports.SessionStore
	// SessionName is the key the session is stored under.
	SessionName string
	Logger      *slog.Logger
	Now         func() time.Time
}

// Provider is the identity provider. It is safe for concurrent use.
type Provider struct {
	authenticator ports.Authenticator
	sessions      ports.SessionStore
	name          string
	logger        *slog.Logger
	now           func() time.Time

	mu      sync.Mutex
	status  domainauth.LoginStatus
	session *domainauth.Session
	lastErr error
	// attempt invalidates in-flight logins when Clear runs.
	attempt uint64

	changes *broadcast.Broadcaster
}

// NewProvider constructs a Provider in the idle, anonymous state.
func NewProvider(opts ProviderOptions) (*Provider, error) {
	if opts.Authenticator == nil {
		return nil, fmt.Errorf("identity provider: authenticator is required")
	}
	if opts.Sessions == nil {
		return nil, fmt.Errorf("identity provider: session store is required")
	}
	name := strings.TrimSpace(opts.SessionName)
	if name == "" {
		name = DefaultSessionName
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Provider{
		authenticator: opts.Authenticator,
		sessions:      opts.Sessions,
		name:          name,
		logger:        logger.With("component", "identity"),
		now:           now,
		status:        domainauth.StatusIdle,
		changes:       broadcast.New(),
	}, nil
}

// Subscribe returns a coalescing change feed for identity and status.
func (p *Provider) Subscribe() (func(), <-chan struct{}) { return p.changes.Subscribe() }

// Close closes every subscription.
func (p *Provider) Close() { p.changes.Close() }

// Identity returns the current principal, or the anonymous principal.
func (p *Provider) Identity() domainauth.Principal {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.session == nil {
		return domainauth.AnonymousPrincipal
	}
	return p.session.Principal
}

// Current returns the full identity including its credential.
func (p *Provider) Current() domainauth.Identity {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.session == nil {
		return domainauth.Anonymous()
	}
	return p.session.Identity()
}

// Session returns the live session, if any.
func (p *Provider) Session() (domainauth.Session, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.session == nil {
		return domainauth.Session{}, false
	}
	return *p.session, true
}

// LoginStatus returns the progress indicator.
func (p *Provider) LoginStatus() domainauth.LoginStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// LastError returns the error that put the provider in the error status.
func (p *Provider) LastError() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastErr
}

func (p *Provider) setStatus(s domainauth.LoginStatus, err error) {
	p.mu.Lock()
	p.status = s
	p.lastErr = err
	p.mu.Unlock()
	p.changes.Notify()
}

// advance moves to status s unless a Clear superseded the attempt.
func (p *Provider) advance(attempt uint64, s domainauth.LoginStatus) bool {
	p.mu.Lock()
	ok := p.attempt == attempt
	if ok {
		p.status = s
	}
	p.mu.Unlock()
	if ok {
		p.changes.Notify()
	}
	return ok
}

func errSuperseded() error {
	return apperrors.Wrap(context.Canceled, apperrors.ErrCodeCanceled, "login superseded by logout")
}

// fail records err unless a Clear superseded the attempt.
func (p *Provider) fail(attempt uint64, err error) error {
	p.mu.Lock()
	if p.attempt == attempt {
		p.status = domainauth.StatusError
		p.lastErr = err
	}
	p.mu.Unlock()
	p.changes.Notify()
	p.logger.Warn("login failed", "error", err)
	return err
}

// Login runs the interactive login. It fails with an already-authenticated error
// when a local session exists, live or persisted.
func (p *Provider) Login(ctx context.Context) error {
	p.mu.Lock()
	if p.session != nil {
		p.mu.Unlock()
		return apperrors.AlreadyAuthenticated()
	}
	if p.status == domainauth.StatusLoggingIn || p.status == domainauth.StatusInitializing {
		p.mu.Unlock()
		return apperrors.Conflict("login already in progress")
	}
	p.status = domainauth.StatusLoggingIn
	p.lastErr = nil
	attempt := p.attempt
	p.mu.Unlock()
	p.changes.Notify()

	if stored, err := p.sessions.Get(ctx, p.name); err == nil && !stored.Expired(p.now()) {
		return p.fail(attempt, apperrors.AlreadyAuthenticated())
	}

	id, err := p.authenticator.Authenticate(ctx)
	if err != nil {
		return p.fail(attempt, fmt.Errorf("authenticate: %w", apperrors.FromContext(err)))
	}
	if id.IsAnonymous() {
		return p.fail(attempt, apperrors.Internal("authenticator returned an anonymous identity"))
	}

	if !p.advance(attempt, domainauth.StatusInitializing) {
		return errSuperseded()
	}

	sess := domainauth.Session{
		ID:          p.name,
		Principal:   id.Principal,
		Credential:  id.Credential,
		DisplayName: id.DisplayName,
		Email:       id.Email,
		CreatedAt:   p.now().UTC(),
		ExpiresAt:   id.ExpiresAt,
	}
	if err := p.sessions.Save(ctx, sess); err != nil {
		return p.fail(attempt, fmt.Errorf("save session: %w", err))
	}

	p.mu.Lock()
	if p.attempt != attempt {
		p.mu.Unlock()
		// Clear ran meanwhile.
		if derr := p.sessions.Delete(ctx, p.name); derr != nil {
			p.logger.Warn("failed to delete superseded session", "error", derr)
		}
		return errSuperseded()
	}
	p.session = &sess
	p.status = domainauth.StatusAuthenticated
	p.mu.Unlock()
	p.changes.Notify()

	p.logger.Info("logged in", "principal", sess.Principal.String())
	return nil
}

// Restore loads a persisted session at startup. Expired sessions are deleted.
// A missing session is not an error.
func (p *Provider) Restore(ctx context.Context) error {
	p.mu.Lock()
	attempt := p.attempt
	p.mu.Unlock()
	p.setStatus(domainauth.StatusInitializing, nil)

	sess, err := p.sessions.Get(ctx, p.name)
	switch {
	case apperrors.IsNotFound(err):
		p.setStatus(domainauth.StatusIdle, nil)
		return nil
	case err != nil:
		p.setStatus(domainauth.StatusIdle, nil)
		return fmt.Errorf("restore session: %w", err)
	case sess.Expired(p.now()):
		if derr := p.sessions.Delete(ctx, p.name); derr != nil {
			p.logger.Warn("failed to delete expired session", "error", derr)
		}
		p.setStatus(domainauth.StatusIdle, nil)
		return nil
	}

	p.mu.Lock()
	if p.attempt == attempt {
		p.session = &sess
		p.status = domainauth.StatusAuthenticated
	}
	p.mu.Unlock()
	p.changes.Notify()
	p.logger.Debug("session restored", "principal", sess.Principal.String())
	return nil
}

// Clear forgets the identity locally and in the session store. It cannot fail:
// store errors are logged.
func (p *Provider) Clear(ctx context.Context) {
	p.mu.Lock()
	p.session = nil
	p.status = domainauth.StatusIdle
	p.lastErr = nil
	p.attempt++
	p.mu.Unlock()

	if err := p.sessions.Delete(ctx, p.name); err != nil && !apperrors.IsNotFound(err) {
		p.logger.Warn("failed to delete stored session", "error", err)
	}
	p.changes.Notify()
}
