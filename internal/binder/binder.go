// Package binder keeps a remote client bound to the current identity.
package binder

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/tripmate/tripmate-client/internal/broadcast"
	domainauth "github.com/tripmate/tripmate-client/internal/domain/auth"
	"github.com/tripmate/tripmate-client/internal/ports"
)

// IdentitySource is the slice of the identity provider the binder watches.
type IdentitySource interface {
	Current() domainauth.Identity
	Subscribe() (unsubscribe func(), ch <-chan struct{})
}

// Options groups dependencies for Binder.
type Options struct {
	Identity IdentitySource
	Factory  ports.ClientFactory
	Logger   *slog.Logger
	// BindTimeout bounds one client construction.
	BindTimeout time.Duration
}

// Binder constructs a ports.RemoteClient for every identity the provider reports and
// publishes the result as a ports.Binding. A construction that finishes after its
// identity was replaced is discarded. It is safe for concurrent use.
type Binder struct {
	identity IdentitySource
	factory  ports.ClientFactory
	logger   *slog.Logger
	timeout  time.Duration

	mu      sync.Mutex
	current ports.Binding
	bound   domainauth.Identity
	cancel  context.CancelFunc
	started bool
	closed  bool

	changes *broadcast.Broadcaster
	stop    context.CancelFunc
	done    chan struct{}
}

var _ ports.BindingSource = (*Binder)(nil)

// New constructs a Binder. Call Start to bind the current identity and follow changes.
func New(opts Options) (*Binder, error) {
	if opts.Identity == nil {
		return nil, fmt.Errorf("binder: identity source is required")
	}
	if opts.Factory == nil {
		return nil, fmt.Errorf("binder: client factory is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	timeout := opts.BindTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Binder{
		identity: opts.Identity,
		factory:  opts.Factory,
		logger:   logger.With("component", "binder"),
		timeout:  timeout,
		current:  ports.Binding{Principal: domainauth.AnonymousPrincipal},
		changes:  broadcast.New(),
		done:     make(chan struct{}),
	}, nil
}

// Start binds the current identity and follows identity changes until Close.
func (b *Binder) Start() {
	b.mu.Lock()
	if b.started || b.closed {
		b.mu.Unlock()
		return
	}
	b.started = true
	ctx, cancel := context.WithCancel(context.Background())
	b.stop = cancel
	b.mu.Unlock()

	unsub, ch := b.identity.Subscribe()
	b.sync()
	go b.watch(ctx, ch, unsub)
}

func (b *Binder) watch(ctx context.Context, ch <-chan struct{}, unsub func()) {
	defer close(b.done)
	defer unsub()
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-ch:
			if !ok {
				return
			}
			b.sync()
		}
	}
}

// Close stops following the identity and abandons any construction in flight.
func (b *Binder) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	started := b.started
	if b.cancel != nil {
		b.cancel()
	}
	b.mu.Unlock()

	if started {
		b.stop()
		<-b.done
	}
	b.changes.Close()
}

// Current returns the binding snapshot.
func (b *Binder) Current() ports.Binding {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}

// Client returns the bound client when the binding is ready.
func (b *Binder) Client() (ports.RemoteClient, bool) {
	cur := b.Current()
	return cur.Client, cur.Ready()
}

// IsFetching reports whether a client construction is in flight.
func (b *Binder) IsFetching() bool { return b.Current().Fetching }

// Ready reports whether a client is bound and no construction is in flight.
func (b *Binder) Ready() bool { return b.Current().Ready() }

// Identity returns the principal the binding belongs to.
func (b *Binder) Identity() domainauth.Principal { return b.Current().Principal }

// Subscribe returns a coalescing change feed for the binding.
func (b *Binder) Subscribe() (func(), <-chan struct{}) { return b.changes.Subscribe() }

// WaitReady blocks until the binding is ready or construction failed.
func (b *Binder) WaitReady(ctx context.Context) (ports.Binding, error) {
	unsub, ch := b.Subscribe()
	defer unsub()
	for {
		cur := b.Current()
		if cur.Ready() {
			return cur, nil
		}
		if !cur.Fetching && cur.Err != nil {
			return cur, cur.Err
		}
		select {
		case <-ctx.Done():
			return cur, ctx.Err()
		case _, ok := <-ch:
			if !ok {
				return b.Current(), fmt.Errorf("binder closed")
			}
		}
	}
}

// sync rebinds when the identity's principal or credential changed.
func (b *Binder) sync() {
	id := b.identity.Current()
	if id.Principal.IsAnonymous() {
		id = domainauth.Anonymous()
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	if b.current.Generation > 0 && id.Principal == b.bound.Principal && id.Credential == b.bound.Credential {
		b.mu.Unlock()
		return
	}
	if b.cancel != nil {
		b.cancel()
	}
	ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
	b.cancel = cancel
	b.bound = id
	gen := b.current.Generation + 1
	b.current = ports.Binding{Principal: id.Principal, Fetching: true, Generation: gen}
	b.mu.Unlock()
	b.changes.Notify()

	b.logger.Debug("binding client", "principal", id.Principal.String(), "generation", gen)
	go b.construct(ctx, cancel, id, gen)
}

func (b *Binder) construct(ctx context.Context, cancel context.CancelFunc, id domainauth.Identity, gen uint64) {
	defer cancel()
	client, err := b.factory.NewClient(ctx, id)

	b.mu.Lock()
	if b.closed || b.current.Generation != gen {
		b.mu.Unlock()
		b.logger.Debug("discarding superseded client", "principal", id.Principal.String(), "generation", gen)
		return
	}
	b.current.Fetching = false
	if err != nil {
		b.current.Err = fmt.Errorf("bind client for %s: %w", id.Principal, err)
		b.logger.Warn("client construction failed", "principal", id.Principal.String(), "error", err)
	} else {
		b.current.Client = client
	}
	b.mu.Unlock()
	b.changes.Notify()
}
