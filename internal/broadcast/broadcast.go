// Package broadcast provides coalescing change notifications for state holders.
package broadcast

import "sync"

// Broadcaster fans a "something changed" signal out to subscribers. Each subscriber
// channel buffers one signal; signals sent while one is pending are coalesced, so
// receivers must re-read the state they care about after waking.
type Broadcaster struct {
	mu     sync.Mutex
	subs   map[chan struct{}]struct{}
	closed bool
}

// New constructs an empty Broadcaster.
func New() *Broadcaster {
	return &Broadcaster{subs: make(map[chan struct{}]struct{})}
}

// Subscribe registers a subscriber. The returned function unsubscribes and closes
// the channel; it is safe to call more than once.
func (b *Broadcaster) Subscribe() (func(), <-chan struct{}) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan struct{}, 1)
	if b.closed {
		close(ch)
		return func() {}, ch
	}
	b.subs[ch] = struct{}{}

	unsub := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if _, ok := b.subs[ch]; !ok {
			return
		}
		delete(b.subs, ch)
		drainAndClose(ch)
	}
	return unsub, ch
}

// Notify wakes every subscriber without blocking.
func (b *Broadcaster) Notify() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for ch := range b.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Len returns the number of live subscribers.
func (b *Broadcaster) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Close closes every subscriber channel. Later subscriptions receive a closed channel.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for ch := range b.subs {
		drainAndClose(ch)
		delete(b.subs, ch)
	}
}

// drainAndClose removes any buffered signal before closing the channel so
// receivers observe a closed channel immediately.
func drainAndClose(ch chan struct{}) {
	for {
		select {
		case <-ch:
		default:
			close(ch)
			return
		}
	}
}
