package querycache

import (
	"context"
	"sync"

	"github.com/tripmate/tripmate-client/internal/broadcast"
	apperrors "github.com/tripmate/tripmate-client/internal/errors"
)

// Observer is one call site's live view of a query. Results follow the bound
// identity: after an identity change the observer reads the new identity's entry.
type Observer[T any] struct {
	c   *Client
	reg *registration

	unsub   func()
	updates <-chan struct{}

	closeOnce sync.Once
}

// Observe registers an observer for key and fetches it when the query is enabled
// and the cached data (if any) needs refreshing.
func Observe[T any](c *Client, key Key, fetch Fetcher[T], opts QueryOptions) *Observer[T] {
	b := c.reconcile()

	r := &registration{key: key, fetch: erase(fetch), opts: opts, changes: broadcast.New()}
	unsub, ch := r.changes.Subscribe()

	c.mu.Lock()
	c.regs[r] = struct{}{}
	c.attachLocked(r)
	if e := r.entry; !e.flying && c.enabledLocked(opts, key, b) && c.needsFetchLocked(e, opts) {
		c.startLocked(e, b.Client)
	}
	c.mu.Unlock()

	return &Observer[T]{c: c, reg: r, unsub: unsub, updates: ch}
}

// Key returns the observed key.
func (o *Observer[T]) Key() Key { return o.reg.key }

// Result returns the current snapshot.
func (o *Observer[T]) Result() Result[T] {
	b := o.c.reconcile()

	o.c.mu.Lock()
	defer o.c.mu.Unlock()

	r := Result[T]{Enabled: o.c.enabledLocked(o.reg.opts, o.reg.key, b)}
	e := o.reg.entry
	if e == nil {
		return r
	}
	if v, ok := e.data.(T); ok {
		r.Data = v
	}
	r.Err = e.err
	r.IsFetching = e.inflight > 0
	r.IsFetched = e.fetched
	r.UpdatedAt = e.updated
	switch {
	case e.fetched && e.err != nil:
		r.Status = StatusError
	case e.fetched:
		r.Status = StatusSuccess
	case r.Enabled || r.IsFetching:
		r.Status = StatusPending
	default:
		r.Status = StatusIdle
	}
	return r
}

// Updates signals whenever the observed entry may have changed. Signals coalesce;
// read Result after each one. The channel closes on Close.
func (o *Observer[T]) Updates() <-chan struct{} { return o.updates }

// Wait blocks until a fetch has completed and none is running.
func (o *Observer[T]) Wait(ctx context.Context) (Result[T], error) {
	for {
		r := o.Result()
		if r.Settled() && !r.IsFetching {
			return r, nil
		}
		select {
		case <-ctx.Done():
			return r, apperrors.FromContext(ctx.Err())
		case _, ok := <-o.updates:
			if !ok {
				return o.Result(), ErrObserverClosed
			}
		}
	}
}

// Refetch fetches the key now (joining a running fetch) and waits for it.
func (o *Observer[T]) Refetch(ctx context.Context) (Result[T], error) {
	b := o.c.reconcile()

	o.c.mu.Lock()
	e := o.reg.entry
	if e == nil || !o.c.enabledLocked(o.reg.opts, o.reg.key, b) {
		o.c.mu.Unlock()
		return o.Result(), ErrQueryDisabled
	}
	ch := o.c.startLocked(e, b.Client)
	o.c.mu.Unlock()

	select {
	case <-ctx.Done():
		return o.Result(), apperrors.FromContext(ctx.Err())
	case <-ch:
		return o.Result(), nil
	}
}

// Close unregisters the observer. A running fetch still completes and populates
// the cache. Close is idempotent.
func (o *Observer[T]) Close() {
	o.closeOnce.Do(func() {
		o.c.mu.Lock()
		delete(o.c.regs, o.reg)
		o.c.detachLocked(o.reg)
		o.c.mu.Unlock()
		o.unsub()
	})
}
