package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/fireplay-backend/internal/domain/cart"
	"github.com/your-org/fireplay-backend/internal/domain/catalog"
	"github.com/your-org/fireplay-backend/internal/domain/favorite"
	"github.com/your-org/fireplay-backend/internal/domain/order"
	"github.com/your-org/fireplay-backend/internal/domain/user"
	"github.com/your-org/fireplay-backend/internal/pkg/logger"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestStore opens an in-memory SQLite database with the store tables
func newTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every connection to :memory: is a new database
	sqlDB.SetMaxOpenConns(1)

	m := NewMigration(db, logger.Discard())
	require.NoError(t, m.RunAutoMigrations())
	require.NoError(t, m.CreateIndexes())

	s := NewStore(db)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestFavoritesRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	require.NoError(t, s.Ping(ctx))

	added := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	entry := favorite.Entry{
		ID:      3498,
		Name:    "Grand Theft Auto V",
		Slug:    "grand-theft-auto-v",
		Rating:  4.47,
		Genres:  []catalog.GenreRef{{Name: "Action"}, {Name: "Adventure"}},
		AddedAt: added,
	}
	require.NoError(t, s.PutFavorite(ctx, "u1", entry))
	// writing the same id again replaces the row
	require.NoError(t, s.PutFavorite(ctx, "u1", entry))

	favs, err := s.ListFavorites(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, favs, 1)
	assert.Equal(t, entry.Genres, favs[0].Genres)
	assert.True(t, favs[0].AddedAt.Equal(added))

	require.NoError(t, s.DeleteFavorite(ctx, "u1", 3498))
	favs, err = s.ListFavorites(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, favs)
}

func TestCartIndependentFromFavorites(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.PutFavorite(ctx, "u1", favorite.Entry{ID: 7, Slug: "x"}))
	require.NoError(t, s.PutCartEntry(ctx, "u1", cart.Entry{ID: 7, Price: 33}))
	require.NoError(t, s.DeleteFavorite(ctx, "u1", 7))

	entries, err := s.ListCart(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 33, entries[0].Price)
}

func TestPlaceOrderIsAtomic(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.PutCartEntry(ctx, "u1", cart.Entry{ID: 1, Name: "A", Price: 45}))
	require.NoError(t, s.PutCartEntry(ctx, "u1", cart.Entry{ID: 2, Name: "B", Price: 72}))
	require.NoError(t, s.PutCartEntry(ctx, "u2", cart.Entry{ID: 1, Name: "A", Price: 50}))

	entries, err := s.ListCart(ctx, "u1")
	require.NoError(t, err)

	o := order.New("u1", entries, time.Now())
	require.NoError(t, s.PlaceOrder(ctx, o))
	require.NotEmpty(t, o.ID)

	remaining, err := s.ListCart(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, remaining)

	other, err := s.ListCart(ctx, "u2")
	require.NoError(t, err)
	assert.Len(t, other, 1)

	got, err := s.GetOrder(ctx, "u1", o.ID)
	require.NoError(t, err)
	assert.Equal(t, 117, got.Total)
	assert.Equal(t, []int{1, 2}, got.ItemIDs())

	// another user cannot read the order
	_, err = s.GetOrder(ctx, "u2", o.ID)
	assert.ErrorIs(t, err, order.ErrNotFound)
}

func TestPlaceOrderRollsBackOnFailure(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.PutCartEntry(ctx, "u1", cart.Entry{ID: 1, Price: 45}))
	first := order.New("u1", []cart.Entry{{ID: 1, Price: 45}}, time.Now())
	require.NoError(t, s.PlaceOrder(ctx, first))

	require.NoError(t, s.PutCartEntry(ctx, "u1", cart.Entry{ID: 2, Price: 60}))
	dup := order.New("u1", []cart.Entry{{ID: 2, Price: 60}}, time.Now())
	dup.ID = first.ID // primary key collision aborts the transaction
	require.Error(t, s.PlaceOrder(ctx, dup))

	entries, err := s.ListCart(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []int{2}, cart.IDs(entries))

	orders, err := s.ListOrders(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}

func TestListOrdersNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	older := order.New("u1", []cart.Entry{{ID: 1, Price: 30}}, base)
	newer := order.New("u1", []cart.Entry{{ID: 2, Price: 40}, {ID: 3, Price: 50}}, base.Add(24*time.Hour))
	require.NoError(t, s.PlaceOrder(ctx, older))
	require.NoError(t, s.PlaceOrder(ctx, newer))

	orders, err := s.ListOrders(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, newer.ID, orders[0].ID)
	assert.Equal(t, []int{2, 3}, orders[0].ItemIDs())
}

func TestProfiles(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.GetProfile(ctx, "u1")
	assert.ErrorIs(t, err, user.ErrProfileNotFound)

	p := &user.Profile{UserID: "u1", DisplayName: "Alice", Email: "a@example.com", Birthday: "1990-04-12", Gender: user.GenderFemale}
	require.NoError(t, s.PutProfile(ctx, p))
	p.Gender = user.GenderOther
	require.NoError(t, s.PutProfile(ctx, p))

	got, err := s.GetProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, user.GenderOther, got.Gender)
	assert.Equal(t, "1990-04-12", got.Birthday)
}

func TestDropAllTables(t *testing.T) {
	s := newTestStore(t)
	m := NewMigration(s.db, logger.Discard())

	require.NoError(t, m.DropAllTables())
	assert.False(t, s.db.Migrator().HasTable(&OrderRecord{}))
}
