// internal/domain/session/session.go
package session

import (
	"context"
	"sync"

	"github.com/your-org/fireplay-backend/internal/domain/identity"
)

// EventKind tells subscribers what changed
type EventKind int

const (
	SignedIn EventKind = iota + 1
	SignedOut
	Updated
)

// Event is pushed to subscribers on every identity change
type Event struct {
	Kind     EventKind
	Identity identity.Identity
}

// Listener receives session events
type Listener func(ctx context.Context, ev Event)

// Session is the observable current identity of one user
type Session struct {
	mu        sync.RWMutex
	current   *identity.Identity
	listeners []subscription
	nextID    int
}

type subscription struct {
	id int
	fn Listener
}

// New creates a signed-out session
func New() *Session {
	return &Session{}
}

// Current returns the signed-in identity, if any
func (s *Session) Current() (identity.Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return identity.Identity{}, false
	}
	return *s.current, true
}

// SignIn sets the current identity. Signing in again with the same uid
// only refreshes the identity fields.
func (s *Session) SignIn(ctx context.Context, id identity.Identity) {
	s.mu.Lock()
	kind := SignedIn
	if s.current != nil && s.current.UID == id.UID {
		kind = Updated
	}
	s.current = &id
	s.mu.Unlock()

	s.notify(ctx, Event{Kind: kind, Identity: id})
}

// SignOut clears the current identity
func (s *Session) SignOut(ctx context.Context) {
	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return
	}
	prev := *s.current
	s.current = nil
	s.mu.Unlock()

	s.notify(ctx, Event{Kind: SignedOut, Identity: prev})
}

// Subscribe registers fn for future events and returns its unsubscribe func
func (s *Session) Subscribe(fn Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, subscription{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() { s.unsubscribe(id) })
	}
}

func (s *Session) unsubscribe(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, sub := range s.listeners {
		if sub.id == id {
			s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
			return
		}
	}
}

// notify calls listeners outside the lock, in registration order
func (s *Session) notify(ctx context.Context, ev Event) {
	s.mu.RLock()
	subs := make([]subscription, len(s.listeners))
	copy(subs, s.listeners)
	s.mu.RUnlock()

	for _, sub := range subs {
		sub.fn(ctx, ev)
	}
}
