package querycache

import (
	"context"
	"log/slog"
	"time"

	"github.com/tripmate/tripmate-client/internal/observability/notify"
	"github.com/tripmate/tripmate-client/internal/ports"
)

// RetryPolicy selects how failed fetches are retried.
type RetryPolicy int

const (
	// RetryDefault retries with exponential backoff up to Options.RetryCount times.
	RetryDefault RetryPolicy = iota
	// RetryNever surfaces the first failure.
	RetryNever
)

// Fetcher reads a value from the bound remote client.
type Fetcher[T any] func(ctx context.Context, rc ports.RemoteClient) (T, error)

// QueryOptions tune one query. The zero value is an always-enabled query with the
// default retry policy and the client's stale time.
type QueryOptions struct {
	// Enabled, when set, must report true for the query to fetch.
	Enabled func() bool
	// RequireIdentity disables the query while the bound identity is anonymous.
	RequireIdentity bool
	Retry           RetryPolicy
	// StaleTime overrides Options.StaleTime when positive.
	StaleTime time.Duration
}

// Metrics receives cache telemetry. Implementations must be safe for concurrent use.
type Metrics interface {
	FetchCompleted(entity string, d time.Duration, err error)
	CacheHit(entity string)
	MutationCompleted(name string, d time.Duration, err error)
}

// Options configure a Client.
type Options struct {
	Logger   *slog.Logger
	Notifier notify.Sink
	Metrics  Metrics

	// Size bounds the number of cached entries that have no observer.
	Size int
	// StaleTime is how long fetched data is served without refetching.
	StaleTime time.Duration
	// GCTime is how long an entry without observers is retained.
	GCTime time.Duration
	// FetchTimeout bounds one fetch including retries.
	FetchTimeout time.Duration
	// MutationTimeout bounds one mutation including its invalidation refetches.
	MutationTimeout time.Duration

	RetryCount     int
	RetryBaseDelay time.Duration
	RetryMaxDelay  time.Duration

	Now func() time.Time
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() Options {
	return Options{
		Size:            256,
		GCTime:          5 * time.Minute,
		FetchTimeout:    30 * time.Second,
		MutationTimeout: 30 * time.Second,
		RetryCount:      3,
		RetryBaseDelay:  time.Second,
		RetryMaxDelay:   30 * time.Second,
		Now:             time.Now,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Notifier == nil {
		o.Notifier = notify.Discard
	}
	if o.Size <= 0 {
		o.Size = d.Size
	}
	if o.StaleTime < 0 {
		o.StaleTime = 0
	}
	if o.GCTime <= 0 {
		o.GCTime = d.GCTime
	}
	if o.FetchTimeout <= 0 {
		o.FetchTimeout = d.FetchTimeout
	}
	if o.MutationTimeout <= 0 {
		o.MutationTimeout = d.MutationTimeout
	}
	if o.RetryCount < 0 {
		o.RetryCount = 0
	}
	if o.RetryBaseDelay <= 0 {
		o.RetryBaseDelay = d.RetryBaseDelay
	}
	if o.RetryMaxDelay < o.RetryBaseDelay {
		o.RetryMaxDelay = o.RetryBaseDelay
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}
