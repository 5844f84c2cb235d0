package testutil

import (
	"sync"

	"github.com/tripmate/tripmate-client/internal/broadcast"
	"github.com/tripmate/tripmate-client/internal/domain/auth"
	"github.com/tripmate/tripmate-client/internal/ports"
)

// StaticBinding is a ports.BindingSource whose binding the test sets directly.
type StaticBinding struct {
	mu      sync.Mutex
	current ports.Binding
	changes *broadcast.Broadcaster
}

var _ ports.BindingSource = (*StaticBinding)(nil)

// NewStaticBinding returns a source publishing b.
func NewStaticBinding(b ports.Binding) *StaticBinding {
	return &StaticBinding{current: b, changes: broadcast.New()}
}

// ReadyBinding returns a source with rc bound to principal p.
func ReadyBinding(p auth.Principal, rc ports.RemoteClient) *StaticBinding {
	return NewStaticBinding(ports.Binding{Principal: p, Client: rc, Generation: 1})
}

// Current implements ports.BindingSource.
func (s *StaticBinding) Current() ports.Binding {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Subscribe implements ports.BindingSource.
func (s *StaticBinding) Subscribe() (func(), <-chan struct{}) { return s.changes.Subscribe() }

// Set publishes b and notifies subscribers.
func (s *StaticBinding) Set(b ports.Binding) {
	s.mu.Lock()
	s.current = b
	s.mu.Unlock()
	s.changes.Notify()
}

// Rebind publishes rc bound to p under the next generation.
func (s *StaticBinding) Rebind(p auth.Principal, rc ports.RemoteClient) {
	s.mu.Lock()
	gen := s.current.Generation + 1
	s.mu.Unlock()
	s.Set(ports.Binding{Principal: p, Client: rc, Generation: gen})
}

// StartFetching marks a construction in flight for p.
func (s *StaticBinding) StartFetching(p auth.Principal) {
	s.mu.Lock()
	gen := s.current.Generation + 1
	s.mu.Unlock()
	s.Set(ports.Binding{Principal: p, Fetching: true, Generation: gen})
}
