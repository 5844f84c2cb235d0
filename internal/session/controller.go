package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/tripmate/tripmate-client/internal/broadcast"
	"github.com/tripmate/tripmate-client/internal/domain/auth"
	"github.com/tripmate/tripmate-client/internal/domain/model"
	apperrors "github.com/tripmate/tripmate-client/internal/errors"
	"github.com/tripmate/tripmate-client/internal/observability/notify"
	"github.com/tripmate/tripmate-client/internal/ports"
	"github.com/tripmate/tripmate-client/internal/querycache"
	"github.com/tripmate/tripmate-client/internal/repository"
)

// DefaultLoginRetryDelay separates the recovery logout from the retried login.
const DefaultLoginRetryDelay = 300 * time.Millisecond

// IdentityProvider is the slice of the identity provider the controller drives.
type IdentityProvider interface {
	Login(ctx context.Context) error
	Clear(ctx context.Context)
	Identity() auth.Principal
	LoginStatus() auth.LoginStatus
	LastError() error
	Subscribe() (unsubscribe func(), ch <-chan struct{})
}

// ControllerOptions groups dependencies for Controller.
type ControllerOptions struct {
	Identity IdentityProvider
	Binding  ports.BindingSource
	Cache    *querycache.Client
	Profiles *repository.Profiles
	Notifier notify.Sink
	Logger   *slog.Logger
	// LoginRetryDelay is the pause before the single retried login.
	LoginRetryDelay time.Duration
	Now             func() time.Time
}

// Controller owns the session state machine. It is safe for concurrent use.
type Controller struct {
	identity IdentityProvider
	binding  ports.BindingSource
	cache    *querycache.Client
	notifier notify.Sink
	logger   *slog.Logger
	delay    time.Duration
	now      func() time.Time

	profile *querycache.Observer[*model.UserProfile]

	mu   sync.Mutex
	last Kind

	changes *broadcast.Broadcaster
	stop    context.CancelFunc
	done    chan struct{}
	once    sync.Once
}

// NewController constructs a Controller and starts following its inputs.
func NewController(opts ControllerOptions) (*Controller, error) {
	switch {
	case opts.Identity == nil:
		return nil, fmt.Errorf("session controller: identity provider is required")
	case opts.Binding == nil:
		return nil, fmt.Errorf("session controller: binding source is required")
	case opts.Cache == nil:
		return nil, fmt.Errorf("session controller: query cache is required")
	case opts.Profiles == nil:
		return nil, fmt.Errorf("session controller: profile repository is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = notify.Discard
	}
	delay := opts.LoginRetryDelay
	if delay <= 0 {
		delay = DefaultLoginRetryDelay
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		identity: opts.Identity,
		binding:  opts.Binding,
		cache:    opts.Cache,
		notifier: notifier,
		logger:   logger.With("component", "session"),
		delay:    delay,
		now:      now,
		profile:  opts.Profiles.ObserveCaller(),
		changes:  broadcast.New(),
		stop:     cancel,
		done:     make(chan struct{}),
	}
	c.last = c.State().Kind()
	go c.watch(ctx)
	return c, nil
}

func (c *Controller) watch(ctx context.Context) {
	defer close(c.done)
	unsubID, idCh := c.identity.Subscribe()
	defer unsubID()
	unsubB, bCh := c.binding.Subscribe()
	defer unsubB()
	profCh := c.profile.Updates()

	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-idCh:
			if !ok {
				idCh = nil
			}
		case _, ok := <-bCh:
			if !ok {
				bCh = nil
			}
		case _, ok := <-profCh:
			if !ok {
				profCh = nil
			}
		}
		c.publish()
	}
}

// publish signals subscribers and logs state kind transitions.
func (c *Controller) publish() {
	kind := c.State().Kind()
	c.mu.Lock()
	prev := c.last
	c.last = kind
	c.mu.Unlock()
	if prev != kind {
		c.logger.Debug("session state changed", "from", prev.String(), "status", kind.String())
	}
	c.changes.Notify()
}

// Snapshot gathers the current inputs.
func (c *Controller) Snapshot() Snapshot {
	principal := c.identity.Identity()
	snap := Snapshot{
		Principal:   principal,
		LoginStatus: c.identity.LoginStatus(),
		LoginErr:    c.identity.LastError(),
	}
	b := c.binding.Current()
	if b.Principal != principal {
		// binder has not caught up with the identity yet
		return snap
	}
	if !b.Fetching {
		snap.BindErr = b.Err
	}
	res := c.profile.Result()
	snap.ProfileFetched = res.IsFetched
	snap.Profile = res.Data
	snap.ProfileErr = res.Err
	return snap
}

// State returns the current session state.
func (c *Controller) State() State { return Derive(c.Snapshot()) }

// Subscribe returns a coalescing change feed. Read State after each signal.
func (c *Controller) Subscribe() (func(), <-chan struct{}) { return c.changes.Subscribe() }

// WaitFor blocks until pred holds for the state.
func (c *Controller) WaitFor(ctx context.Context, pred func(State) bool) (State, error) {
	unsub, ch := c.Subscribe()
	defer unsub()
	for {
		s := c.State()
		if pred(s) {
			return s, nil
		}
		select {
		case <-ctx.Done():
			return s, apperrors.FromContext(ctx.Err())
		case _, ok := <-ch:
			if !ok {
				return c.State(), fmt.Errorf("session controller closed")
			}
		}
	}
}

// Settled reports whether s is no longer resolving, or stalled on a failure.
func Settled(s State) bool {
	if in, ok := s.(Initializing); ok {
		return in.Err != nil
	}
	if un, ok := s.(Unauthenticated); ok {
		return un.Status != auth.StatusLoggingIn
	}
	return true
}

// Login logs in. When a session already exists it runs one recovery cycle: clear
// the identity, pause, and log in once more. A failure of the retried login is
// reported and returned, never retried again.
func (c *Controller) Login(ctx context.Context) error {
	err := c.identity.Login(ctx)
	if err == nil {
		return nil
	}
	if !apperrors.IsAlreadyAuthenticated(err) {
		c.loginFailed(ctx, err)
		return err
	}

	c.logger.Info("session already exists, clearing before one retried login")
	c.identity.Clear(ctx)

	t := time.NewTimer(c.delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return apperrors.FromContext(ctx.Err())
	case <-t.C:
	}

	if err := c.identity.Login(ctx); err != nil {
		c.loginFailed(ctx, err)
		return err
	}
	return nil
}

func (c *Controller) loginFailed(ctx context.Context, err error) {
	c.logger.Warn("login failed", "error", err)
	c.notifier.Notify(ctx, notify.Notification{
		Level:      notify.LevelError,
		Operation:  "login",
		Message:    apperrors.RemoteMessage(err, "Login failed"),
		OccurredAt: c.now(),
	})
}

// Logout clears the identity and, once the binder has let go of it, drops every
// cached query.
func (c *Controller) Logout(ctx context.Context) error {
	c.identity.Clear(ctx)
	if err := c.awaitUnbound(ctx); err != nil {
		return err
	}
	c.cache.Clear()
	c.logger.Info("logged out")
	return nil
}

// awaitUnbound waits until the binding no longer belongs to an authenticated principal.
func (c *Controller) awaitUnbound(ctx context.Context) error {
	unsub, ch := c.binding.Subscribe()
	defer unsub()
	for !c.binding.Current().Principal.IsAnonymous() {
		select {
		case <-ctx.Done():
			return apperrors.FromContext(ctx.Err())
		case _, ok := <-ch:
			if !ok {
				return nil
			}
		}
	}
	return nil
}

// Refresh refetches the caller's profile and returns the resulting state.
func (c *Controller) Refresh(ctx context.Context) (State, error) {
	if _, err := c.profile.Refetch(ctx); err != nil && !errors.Is(err, querycache.ErrQueryDisabled) {
		return c.State(), err
	}
	return c.State(), nil
}

// Close stops following inputs and closes subscriptions.
func (c *Controller) Close() {
	c.once.Do(func() {
		c.stop()
		<-c.done
		c.profile.Close()
		c.changes.Close()
	})
}
