package firestore

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/fireplay-backend/internal/domain/cart"
	"github.com/your-org/fireplay-backend/internal/domain/catalog"
	"github.com/your-org/fireplay-backend/internal/domain/favorite"
	"github.com/your-org/fireplay-backend/internal/domain/order"
	"github.com/your-org/fireplay-backend/internal/domain/user"
	"github.com/your-org/fireplay-backend/internal/pkg/logger"
)

// newEmulatorStore connects to the Firestore emulator, skipping the test
// when FIRESTORE_EMULATOR_HOST is not set
func newEmulatorStore(t *testing.T) (*Store, string) {
	t.Helper()
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}

	client, err := NewClient(context.Background(), "fireplay-test", "", logger.Discard())
	require.NoError(t, err)

	s := NewStore(client)
	t.Cleanup(func() { _ = s.Close() })
	return s, "user-" + uuid.NewString()
}

func TestDocumentConversions(t *testing.T) {
	added := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	fav := favorite.Entry{ID: 1, Name: "Doom", Slug: "doom", Genres: []catalog.GenreRef{{Name: "Shooter"}}, AddedAt: added}
	assert.Equal(t, fav, favoriteDocFromDomain(fav).toDomain())

	entry := cart.Entry{ID: 2, Name: "Quake", Slug: "quake", Price: 44, AddedAt: added}
	assert.Equal(t, entry, cartDocFromDomain(entry).toDomain())

	o := order.New("u1", []cart.Entry{entry}, added)
	got := orderDocFromDomain(o).toDomain("o1", "u1")
	assert.Equal(t, "o1", got.ID)
	assert.Equal(t, o.Items, got.Items)
	assert.Equal(t, 44, got.Total)

	p := &user.Profile{UserID: "u1", DisplayName: "Alice", Email: "a@example.com", Gender: user.GenderFemale}
	assert.Equal(t, p, profileDocFromDomain(p).toDomain("u1"))
}

func TestDocItemID(t *testing.T) {
	assert.Equal(t, 12, docItemID(12, "99"))
	assert.Equal(t, 99, docItemID(0, "99"))
	assert.Equal(t, 0, docItemID(0, "abc"))
}

func TestEmulatorCheckout(t *testing.T) {
	ctx := context.Background()
	s, uid := newEmulatorStore(t)

	require.NoError(t, s.PutCartEntry(ctx, uid, cart.Entry{ID: 1, Name: "A", Price: 45}))
	require.NoError(t, s.PutCartEntry(ctx, uid, cart.Entry{ID: 2, Name: "B", Price: 72}))
	require.NoError(t, s.PutFavorite(ctx, uid, favorite.Entry{ID: 1, Slug: "a"}))

	entries, err := s.ListCart(ctx, uid)
	require.NoError(t, err)
	// a skewed local clock does not leak into the stored date
	o := order.New(uid, entries, time.Now().Add(-48*time.Hour))
	require.NoError(t, s.PlaceOrder(ctx, o))
	assert.WithinDuration(t, time.Now(), o.Date, time.Minute)

	remaining, err := s.ListCart(ctx, uid)
	require.NoError(t, err)
	assert.Empty(t, remaining)

	favs, err := s.ListFavorites(ctx, uid)
	require.NoError(t, err)
	assert.Len(t, favs, 1)

	got, err := s.GetOrder(ctx, uid, o.ID)
	require.NoError(t, err)
	assert.Equal(t, 117, got.Total)
	assert.True(t, o.Date.Equal(got.Date))

	_, err = s.GetOrder(ctx, uid, "missing")
	assert.ErrorIs(t, err, order.ErrNotFound)
}

func TestEmulatorProfile(t *testing.T) {
	ctx := context.Background()
	s, uid := newEmulatorStore(t)

	_, err := s.GetProfile(ctx, uid)
	assert.ErrorIs(t, err, user.ErrProfileNotFound)

	require.NoError(t, s.PutProfile(ctx, &user.Profile{UserID: uid, Email: "a@example.com", Birthday: "1990-01-01"}))
	p, err := s.GetProfile(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, "1990-01-01", p.Birthday)
}
