package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/fireplay-backend/internal/domain/identity"
)

var alice = identity.Identity{UID: "alice", Email: "alice@example.com", DisplayName: "Alice"}

func TestSessionStartsSignedOut(t *testing.T) {
	_, ok := New().Current()
	assert.False(t, ok)
}

func TestSubscribersNotifiedInOrder(t *testing.T) {
	ctx := context.Background()
	s := New()

	var got []string
	s.Subscribe(func(_ context.Context, ev Event) { got = append(got, "first") })
	s.Subscribe(func(_ context.Context, ev Event) { got = append(got, "second") })

	s.SignIn(ctx, alice)
	assert.Equal(t, []string{"first", "second"}, got)

	cur, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, alice, cur)
}

func TestEventKinds(t *testing.T) {
	ctx := context.Background()
	s := New()

	var kinds []EventKind
	s.Subscribe(func(_ context.Context, ev Event) { kinds = append(kinds, ev.Kind) })

	s.SignIn(ctx, alice)
	renamed := alice
	renamed.Email = "alice@new.example.com"
	s.SignIn(ctx, renamed)
	s.SignOut(ctx)
	s.SignOut(ctx) // already signed out, no event

	assert.Equal(t, []EventKind{SignedIn, Updated, SignedOut}, kinds)
}

func TestUnsubscribe(t *testing.T) {
	ctx := context.Background()
	s := New()

	calls := 0
	unsubscribe := s.Subscribe(func(context.Context, Event) { calls++ })
	s.SignIn(ctx, alice)
	unsubscribe()
	unsubscribe()
	s.SignOut(ctx)

	assert.Equal(t, 1, calls)
}

func TestListenerMayUnsubscribeDuringNotify(t *testing.T) {
	ctx := context.Background()
	s := New()

	var unsubscribe func()
	calls := 0
	unsubscribe = s.Subscribe(func(context.Context, Event) {
		calls++
		unsubscribe()
	})

	s.SignIn(ctx, alice)
	s.SignOut(ctx)
	assert.Equal(t, 1, calls)
}

func TestRegistry(t *testing.T) {
	ctx := context.Background()
	builds := 0
	r := NewRegistry(func(s *Session) *[]EventKind {
		builds++
		var seen []EventKind
		s.Subscribe(func(_ context.Context, ev Event) { seen = append(seen, ev.Kind) })
		return &seen
	})

	s1, v1 := r.Acquire(ctx, alice)
	s2, v2 := r.Acquire(ctx, alice)
	assert.Same(t, s1, s2)
	assert.Same(t, v1, v2)
	assert.Equal(t, 1, builds)
	assert.Equal(t, []EventKind{SignedIn}, *v1)
	assert.Equal(t, 1, r.Len())

	_, _, ok := r.Lookup("alice")
	assert.True(t, ok)

	r.Release(ctx, "alice")
	assert.Equal(t, []EventKind{SignedIn, SignedOut}, *v1)
	assert.Equal(t, 0, r.Len())
	_, signedIn := s1.Current()
	assert.False(t, signedIn)

	_, _, ok = r.Lookup("alice")
	assert.False(t, ok)
}
