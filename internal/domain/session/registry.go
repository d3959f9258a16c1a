package session

import (
	"context"
	"sync"

	"github.com/your-org/fireplay-backend/internal/domain/identity"
)

// Registry owns one Session per signed-in user, together with the view
// state built for it
type Registry[V any] struct {
	mu      sync.Mutex
	build   func(*Session) V
	entries map[string]*entry[V]
}

type entry[V any] struct {
	session *Session
	view    V
}

// NewRegistry creates a registry. build is called once per new session,
// before the session is signed in, so the view can subscribe to it.
func NewRegistry[V any](build func(*Session) V) *Registry[V] {
	return &Registry[V]{
		build:   build,
		entries: make(map[string]*entry[V]),
	}
}

// Acquire returns the session and view for an authenticated identity,
// creating and signing them in on first use
func (r *Registry[V]) Acquire(ctx context.Context, id identity.Identity) (*Session, V) {
	r.mu.Lock()
	e, ok := r.entries[id.UID]
	if !ok {
		sess := New()
		e = &entry[V]{session: sess, view: r.build(sess)}
		r.entries[id.UID] = e
	}
	r.mu.Unlock()

	cur, signedIn := e.session.Current()
	if !signedIn || cur != id {
		e.session.SignIn(ctx, id)
	}
	return e.session, e.view
}

// Lookup returns the session of a uid without creating it
func (r *Registry[V]) Lookup(uid string) (*Session, V, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[uid]
	if !ok {
		var zero V
		return nil, zero, false
	}
	return e.session, e.view, true
}

// Release signs the session out and forgets it
func (r *Registry[V]) Release(ctx context.Context, uid string) {
	r.mu.Lock()
	e, ok := r.entries[uid]
	delete(r.entries, uid)
	r.mu.Unlock()

	if ok {
		e.session.SignOut(ctx)
	}
}

// Len returns the number of live sessions
func (r *Registry[V]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
