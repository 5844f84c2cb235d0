package notify

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"
)

// Level classifies a user-visible notification.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notification is a transient, user-visible message about the outcome of an
// operation (a "toast").
type Notification struct {
	Level      Level
	Operation  string
	Message    string
	OccurredAt time.Time
}

// Sink describes a destination for user-visible notifications.
type Sink interface {
	Notify(ctx context.Context, n Notification)
}

// SinkFunc adapts a function to the Sink interface (useful for tests).
type SinkFunc func(ctx context.Context, n Notification)

// Notify implements the Sink interface.
func (f SinkFunc) Notify(ctx context.Context, n Notification) {
	if f == nil {
		return
	}
	f(ctx, n)
}

// Discard drops every notification.
var Discard Sink = SinkFunc(func(context.Context, Notification) {})

// LogSink writes notifications to a structured logger.
type LogSink struct {
	Logger *slog.Logger
}

// Notify implements the Sink interface.
func (s LogSink) Notify(ctx context.Context, n Notification) {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	level := slog.LevelInfo
	if n.Level == LevelError {
		level = slog.LevelWarn
	}
	logger.Log(ctx, level, n.Message, "operation", n.Operation, "outcome", string(n.Level))
}

// WriterSink prints notifications as single lines, e.g. to a terminal.
type WriterSink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterSink constructs a WriterSink over w.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

// Notify implements the Sink interface.
func (s *WriterSink) Notify(_ context.Context, n Notification) {
	mark := "✓"
	if n.Level == LevelError {
		mark = "✗"
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = fmt.Fprintf(s.w, "%s %s\n", mark, n.Message)
}

// Multi fans a notification out to several sinks in order.
func Multi(sinks ...Sink) Sink {
	return SinkFunc(func(ctx context.Context, n Notification) {
		for _, s := range sinks {
			if s != nil {
				s.Notify(ctx, n)
			}
		}
	})
}

// Recorder collects notifications for assertions in tests.
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

// Notify implements the Sink interface.
func (r *Recorder) Notify(_ context.Context, n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, n)
}

// All returns a copy of the recorded notifications.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.items))
	copy(out, r.items)
	return out
}

// Count returns how many notifications with level l were recorded.
func (r *Recorder) Count(l Level) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, it := range r.items {
		if it.Level == l {
			n++
		}
	}
	return n
}

// Reset drops every recorded notification.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = nil
}
