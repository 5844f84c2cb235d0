package querycache

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"

	"github.com/tripmate/tripmate-client/internal/broadcast"
	"github.com/tripmate/tripmate-client/internal/domain/auth"
	apperrors "github.com/tripmate/tripmate-client/internal/errors"
	"github.com/tripmate/tripmate-client/internal/ports"
)

// ErrQueryDisabled is returned by one-shot reads whose query is not enabled, e.g.
// before the binder is ready or for a key with an empty parameter.
var ErrQueryDisabled = errors.New("querycache: query disabled")

// ErrObserverClosed is returned by Observer.Wait after Close.
var ErrObserverClosed = errors.New("querycache: observer closed")

type fetchFunc func(ctx context.Context, rc ports.RemoteClient) (any, error)

func erase[T any](f Fetcher[T]) fetchFunc {
	return func(ctx context.Context, rc ports.RemoteClient) (any, error) {
		return f(ctx, rc)
	}
}

// entry is the cached state of one key for one principal.
type entry struct {
	id    string
	key   Key
	fetch fetchFunc
	opts  QueryOptions

	data    any
	hasData bool
	err     error
	fetched bool
	updated time.Time
	invalid bool
	// dropped marks an unobserved entry removed by Invalidate. Fetches that were
	// running for it complete without writing back.
	dropped bool

	// flight is the singleflight key of the newest fetch; flying reports whether
	// it is still running. inflight counts every running fetch, newest or not.
	flight   string
	flying   bool
	inflight int

	regs map[*registration]struct{}
}

// registration is one observer's interest in a key. It survives identity resets
// by being re-attached to the new principal's entry.
type registration struct {
	key     Key
	fetch   fetchFunc
	opts    QueryOptions
	entry   *entry
	changes *broadcast.Broadcaster
}

// Client is the query cache. It is safe for concurrent use.
type Client struct {
	binding ports.BindingSource
	opts    Options
	logger  *slog.Logger
	group   singleflight.Group

	mu      sync.Mutex
	stamp   auth.Principal
	epoch   uint64
	flights uint64
	ready   bool
	active  map[string]*entry
	idle    *expirable.LRU[string, *entry]
	regs    map[*registration]struct{}
	closed  bool

	stop context.CancelFunc
	done chan struct{}
}

// New constructs a Client that follows binding: identity changes reset the cache
// and readiness transitions release fetches held back while the binder was busy.
func New(binding ports.BindingSource, opts Options) *Client {
	opts = opts.withDefaults()
	c := &Client{
		binding: binding,
		opts:    opts,
		logger:  opts.Logger.With("component", "querycache"),
		stamp:   normalize(binding.Current().Principal),
		active:  make(map[string]*entry),
		idle:    expirable.NewLRU[string, *entry](opts.Size, nil, opts.GCTime),
		regs:    make(map[*registration]struct{}),
		done:    make(chan struct{}),
	}

	ctx, cancel := context.WithCancel(context.Background())
	c.stop = cancel
	unsub, ch := binding.Subscribe()
	go c.watch(ctx, ch, unsub)
	c.reconcile()
	return c
}

func normalize(p auth.Principal) auth.Principal {
	if p.IsAnonymous() {
		return auth.AnonymousPrincipal
	}
	return p
}

func (c *Client) watch(ctx context.Context, ch <-chan struct{}, unsub func()) {
	defer close(c.done)
	defer unsub()
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-ch:
			if !ok {
				return
			}
			c.reconcile()
		}
	}
}

// Close stops following the binding. Observers keep their last results.
func (c *Client) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()

	c.stop()
	<-c.done
}

// reconcile aligns the cache with the binder: a new principal resets every entry and
// a not-ready to ready transition fetches each observed key once.
func (c *Client) reconcile() ports.Binding {
	b := c.binding.Current()
	p := normalize(b.Principal)

	c.mu.Lock()
	defer c.mu.Unlock()

	if p != c.stamp {
		c.logger.Debug("identity changed, resetting cache", "from", c.stamp.String(), "to", p.String())
		c.resetLocked(p)
	}
	ready := b.Ready()
	if ready && !c.ready {
		c.flushLocked(b)
	}
	c.ready = ready
	return b
}

// ResetIdentity discards every entry and re-keys observers under p.
func (c *Client) ResetIdentity(p auth.Principal) {
	c.mu.Lock()
	c.resetLocked(normalize(p))
	c.ready = false
	c.mu.Unlock()
	c.reconcile()
}

// Clear discards every entry for the current identity. Observers are re-attached
// to empty entries and refetch when enabled.
func (c *Client) Clear() {
	c.mu.Lock()
	c.resetLocked(c.stamp)
	c.ready = false
	c.mu.Unlock()
	c.reconcile()
}

// Len returns the number of cached entries.
func (c *Client) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.active) + c.idle.Len()
}

// Identity returns the principal entries are currently stamped with.
func (c *Client) Identity() auth.Principal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stamp
}

func (c *Client) resetLocked(p auth.Principal) {
	c.epoch++
	c.stamp = p
	for _, e := range c.active {
		if e.flying {
			c.group.Forget(e.flight)
		}
	}
	c.active = make(map[string]*entry)
	c.idle.Purge()
	for r := range c.regs {
		c.attachLocked(r)
		r.changes.Notify()
	}
}

func (c *Client) flushLocked(b ports.Binding) {
	for _, e := range c.active {
		if !e.flying && c.entryEnabledLocked(e, b) && c.needsFetchLocked(e, e.opts) {
			c.startLocked(e, b.Client)
		}
	}
}

func (c *Client) lookupLocked(id string) *entry {
	if e, ok := c.active[id]; ok {
		return e
	}
	if e, ok := c.idle.Get(id); ok {
		return e
	}
	return nil
}

func (c *Client) entryLocked(k Key) *entry {
	id := stampedID(c.stamp, k)
	if e := c.lookupLocked(id); e != nil {
		return e
	}
	e := &entry{id: id, key: k, regs: make(map[*registration]struct{})}
	c.idle.Add(id, e)
	return e
}

func (c *Client) attachLocked(r *registration) {
	e := c.entryLocked(r.key)
	if len(e.regs) == 0 {
		c.idle.Remove(e.id)
		c.active[e.id] = e
	}
	e.regs[r] = struct{}{}
	e.fetch = r.fetch
	e.opts = r.opts
	r.entry = e
}

func (c *Client) detachLocked(r *registration) {
	e := r.entry
	if e == nil {
		return
	}
	r.entry = nil
	delete(e.regs, r)
	if len(e.regs) > 0 {
		return
	}
	if cur, ok := c.active[e.id]; ok && cur == e {
		delete(c.active, e.id)
		c.idle.Add(e.id, e)
	}
}

func (c *Client) enabledLocked(opts QueryOptions, k Key, b ports.Binding) bool {
	if !b.Ready() || normalize(b.Principal) != c.stamp || !k.complete() {
		return false
	}
	if opts.RequireIdentity && c.stamp.IsAnonymous() {
		return false
	}
	return opts.Enabled == nil || opts.Enabled()
}

func (c *Client) entryEnabledLocked(e *entry, b ports.Binding) bool {
	for r := range e.regs {
		if c.enabledLocked(r.opts, r.key, b) {
			return true
		}
	}
	return false
}

func (c *Client) needsFetchLocked(e *entry, opts QueryOptions) bool {
	if e.invalid || !e.fetched || e.err != nil {
		return true
	}
	stale := c.opts.StaleTime
	if opts.StaleTime > 0 {
		stale = opts.StaleTime
	}
	return c.opts.Now().Sub(e.updated) >= stale
}

// startLocked joins the running fetch for e, or starts one. Completion is
// written to the cache before the returned channel fires.
func (c *Client) startLocked(e *entry, rc ports.RemoteClient) <-chan singleflight.Result {
	if e.flying {
		return c.group.DoChan(e.flight, nil)
	}

	c.flights++
	flight := e.id + "#" + strconv.FormatUint(c.epoch, 10) + "#" + strconv.FormatUint(c.flights, 10)
	e.flight = flight
	e.flying = true
	e.inflight++
	for r := range e.regs {
		r.changes.Notify()
	}

	fetch, opts, epoch, started := e.fetch, e.opts, c.epoch, e
	return c.group.DoChan(flight, func() (any, error) {
		ctx, cancel := context.WithTimeout(context.Background(), c.opts.FetchTimeout)
		defer cancel()

		began := c.opts.Now()
		v, err := c.withRetry(ctx, opts.Retry, func() (any, error) { return fetch(ctx, rc) })
		if c.opts.Metrics != nil {
			c.opts.Metrics.FetchCompleted(started.key.Entity, c.opts.Now().Sub(began), err)
		}
		c.store(started, flight, epoch, v, err)
		return v, err
	})
}

// store records a completed fetch. Results from before an identity reset are dropped;
// otherwise completions are applied in the order they finish.
func (c *Client) store(started *entry, flight string, epoch uint64, v any, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if started.inflight > 0 {
		started.inflight--
	}
	if started.flight == flight {
		started.flying = false
	}
	if epoch != c.epoch {
		c.logger.Debug("dropping result from previous identity", "key", started.key.String())
		return
	}

	if started.dropped {
		c.logger.Debug("dropping result for invalidated entry", "key", started.key.String())
		return
	}

	e := c.lookupLocked(started.id)
	if e == nil {
		e = started
		c.idle.Add(e.id, e)
	}
	latest := e.flight == flight
	if err != nil {
		e.err = err
		c.logger.Debug("fetch failed", "key", e.key.String(), "error", err)
	} else {
		e.data = v
		e.hasData = true
		e.err = nil
		if latest {
			e.invalid = false
		}
	}
	e.fetched = true
	e.updated = c.opts.Now()
	for r := range e.regs {
		r.changes.Notify()
	}
}

func (c *Client) withRetry(ctx context.Context, policy RetryPolicy, op func() (any, error)) (any, error) {
	if policy == RetryNever || c.opts.RetryCount == 0 {
		return op()
	}

	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = c.opts.RetryBaseDelay
	eb.MaxInterval = c.opts.RetryMaxDelay
	eb.MaxElapsedTime = 0

	var v any
	err := backoff.Retry(func() error {
		var opErr error
		v, opErr = op()
		if opErr != nil && !retryable(opErr) {
			return backoff.Permanent(opErr)
		}
		return opErr
	}, backoff.WithContext(backoff.WithMaxRetries(eb, uint64(c.opts.RetryCount)), ctx))
	return v, err
}

func retryable(err error) bool {
	switch apperrors.GetCode(err) {
	case apperrors.ErrCodeValidation, apperrors.ErrCodeForbidden,
		apperrors.ErrCodeClientUnavailable, apperrors.ErrCodeCanceled:
		return false
	}
	return !errors.Is(err, context.Canceled)
}

// Invalidate marks every entry matching any pattern as invalid. Observed, enabled
// entries are refetched and Invalidate waits for those refetches; other matching
// entries are dropped and refetched on next use.
func (c *Client) Invalidate(ctx context.Context, patterns ...Key) error {
	if len(patterns) == 0 {
		return nil
	}
	b := c.reconcile()

	var waits []<-chan singleflight.Result
	c.mu.Lock()
	for _, e := range c.active {
		if !matchesAny(patterns, e.key) {
			continue
		}
		e.invalid = true
		c.forgetLocked(e)
		if c.entryEnabledLocked(e, b) {
			waits = append(waits, c.startLocked(e, b.Client))
		}
	}
	for _, id := range c.idle.Keys() {
		if e, ok := c.idle.Peek(id); ok && matchesAny(patterns, e.key) {
			e.invalid = true
			e.dropped = true
			c.forgetLocked(e)
			c.idle.Remove(id)
		}
	}
	c.mu.Unlock()

	for _, ch := range waits {
		select {
		case <-ch:
		case <-ctx.Done():
			return apperrors.FromContext(ctx.Err())
		}
	}
	return nil
}

// forgetLocked detaches e from its running fetch so the fetch's completion no
// longer counts as the latest result.
func (c *Client) forgetLocked(e *entry) {
	if e.flying {
		c.group.Forget(e.flight)
		e.flying = false
	}
	e.flight = ""
}

func matchesAny(patterns []Key, k Key) bool {
	for _, p := range patterns {
		if p.Matches(k) {
			return true
		}
	}
	return false
}

// Query is a one-shot read through the cache: fresh cached data is returned as is,
// otherwise the key is fetched (joining any fetch already running for it).
func Query[T any](ctx context.Context, c *Client, key Key, fetch Fetcher[T], opts QueryOptions) (T, error) {
	var zero T
	b := c.reconcile()

	c.mu.Lock()
	if !c.enabledLocked(opts, key, b) {
		c.mu.Unlock()
		return zero, ErrQueryDisabled
	}
	e := c.entryLocked(key)
	if !c.needsFetchLocked(e, opts) {
		v, _ := e.data.(T)
		c.mu.Unlock()
		if c.opts.Metrics != nil {
			c.opts.Metrics.CacheHit(key.Entity)
		}
		return v, nil
	}
	if !e.flying && len(e.regs) == 0 {
		e.fetch = erase(fetch)
		e.opts = opts
	}
	ch := c.startLocked(e, b.Client)
	c.mu.Unlock()

	select {
	case <-ctx.Done():
		return zero, apperrors.FromContext(ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		v, _ := res.Val.(T)
		return v, nil
	}
}
