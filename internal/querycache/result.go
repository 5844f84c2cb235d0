package querycache

import "time"

// Status is the lifecycle state of a query result.
type Status int

const (
	// StatusIdle: disabled and never fetched.
	StatusIdle Status = iota
	// StatusPending: enabled (or fetching) with no completed fetch yet.
	StatusPending
	// StatusSuccess: the last completed fetch succeeded.
	StatusSuccess
	// StatusError: the last completed fetch failed.
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusPending:
		return "pending"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Result is a snapshot of a query as seen by one observer.
type Result[T any] struct {
	Status Status
	// Data is the last successfully fetched value; it survives later failures.
	Data       T
	Err        error
	IsFetching bool
	// IsFetched reports whether any fetch has completed for the key.
	IsFetched bool
	UpdatedAt time.Time
	Enabled   bool
}

// Settled reports whether a fetch has completed.
func (r Result[T]) Settled() bool {
	return r.Status == StatusSuccess || r.Status == StatusError
}

// IsLoading reports whether the first fetch is still outstanding.
func (r Result[T]) IsLoading() bool {
	return r.Status == StatusPending && r.IsFetching
}
