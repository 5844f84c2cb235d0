package querycache

import (
	"context"
	"time"

	apperrors "github.com/tripmate/tripmate-client/internal/errors"
	"github.com/tripmate/tripmate-client/internal/observability/notify"
	"github.com/tripmate/tripmate-client/internal/ports"
)

// Mutation describes a write: its name, the keys it invalidates on success, and
// the user-visible messages for either outcome.
type Mutation struct {
	Name           string
	Invalidates    []Key
	SuccessMessage string
	// FallbackError is shown when a failure carries no message of its own.
	FallbackError string
}

// MutationFunc performs a write against the bound remote client.
type MutationFunc[In, Out any] func(ctx context.Context, rc ports.RemoteClient, in In) (Out, error)

// Mutate runs fn against the bound client. Without a ready binding it fails with a
// client-unavailable error and makes no call. On success every key in
// m.Invalidates is invalidated (observed keys are refetched before Mutate returns)
// and a success notification is emitted; on failure the cache is untouched and a
// single error notification is emitted.
//
// The call runs on a context detached from ctx: cancelling ctx stops the wait but
// not the write or its invalidations.
func Mutate[In, Out any](ctx context.Context, c *Client, m Mutation, fn MutationFunc[In, Out], in In) (Out, error) {
	var zero Out
	b := c.reconcile()
	if !b.Ready() {
		return zero, c.unavailable(ctx, m)
	}

	type outcome struct {
		out Out
		err error
	}
	done := make(chan outcome, 1)

	go func() {
		mctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.opts.MutationTimeout)
		defer cancel()

		began := c.opts.Now()
		out, err := fn(mctx, b.Client, in)
		if err != nil {
			err = asRemoteFailure(err, m.FallbackError)
			c.mutationFailed(mctx, m, err, c.opts.Now().Sub(began))
			done <- outcome{err: err}
			return
		}

		if ierr := c.Invalidate(mctx, m.Invalidates...); ierr != nil {
			c.logger.Warn("invalidation after mutation did not finish", "mutation", m.Name, "error", ierr)
		}
		if m.SuccessMessage != "" {
			c.opts.Notifier.Notify(mctx, notify.Notification{
				Level:      notify.LevelSuccess,
				Operation:  m.Name,
				Message:    m.SuccessMessage,
				OccurredAt: c.opts.Now(),
			})
		}
		if c.opts.Metrics != nil {
			c.opts.Metrics.MutationCompleted(m.Name, c.opts.Now().Sub(began), nil)
		}
		done <- outcome{out: out}
	}()

	select {
	case <-ctx.Done():
		return zero, apperrors.FromContext(ctx.Err())
	case o := <-done:
		return o.out, o.err
	}
}

// CheckAvailable fails m with a client-unavailable error, notified like any other
// mutation failure, when no client is bound. Callers that validate input locally
// run it first so an unbound client is reported ahead of input errors.
func (c *Client) CheckAvailable(ctx context.Context, m Mutation) error {
	if c.reconcile().Ready() {
		return nil
	}
	return c.unavailable(ctx, m)
}

func (c *Client) unavailable(ctx context.Context, m Mutation) error {
	err := apperrors.ClientUnavailable()
	c.mutationFailed(ctx, m, err, 0)
	return err
}

func asRemoteFailure(err error, fallback string) error {
	if apperrors.GetCode(err) != "" {
		return err
	}
	return apperrors.RemoteFailure(err, fallback)
}

func (c *Client) mutationFailed(ctx context.Context, m Mutation, err error, d time.Duration) {
	c.logger.Warn("mutation failed", "mutation", m.Name, "error", err)
	c.opts.Notifier.Notify(ctx, notify.Notification{
		Level:      notify.LevelError,
		Operation:  m.Name,
		Message:    apperrors.RemoteMessage(err, m.FallbackError),
		OccurredAt: c.opts.Now(),
	})
	if c.opts.Metrics != nil {
		c.opts.Metrics.MutationCompleted(m.Name, d, err)
	}
}
