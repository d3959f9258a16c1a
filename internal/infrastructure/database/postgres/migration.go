// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Migration handles database migrations
type Migration struct {
	db  *gorm.DB
	log logrus.FieldLogger
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB, log logrus.FieldLogger) *Migration {
	return &Migration{
		db:  db,
		log: log,
	}
}

// Models returns the store tables in dependency order
func Models() []interface{} {
	return []interface{}{
		&ProfileRecord{},
		&FavoriteRecord{},
		&CartEntryRecord{},
		&OrderRecord{},
		&OrderItemRecord{},
	}
}

// RunAutoMigrations runs GORM auto-migrations for the store tables and any
// extra models owned by other packages
func (m *Migration) RunAutoMigrations(extra ...interface{}) error {
	m.log.Info("🔄 Running database auto-migrations...")

	models := append(Models(), extra...)

	// Run auto-migration for each model
	for _, model := range models {
		m.log.Debugf("Migrating model: %T", model)
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	m.log.Info("✅ Database auto-migrations completed successfully")
	return nil
}

// CreateIndexes creates additional indexes for the listing queries
func (m *Migration) CreateIndexes() error {
	m.log.Info("🔄 Creating additional database indexes...")

	indexes := []string{
		// Favorites and cart are listed per user
		"CREATE INDEX IF NOT EXISTS idx_favorites_user_added ON favorites(user_id, added_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_cart_entries_user_added ON cart_entries(user_id, added_at DESC)",

		// Order history is listed newest first
		"CREATE INDEX IF NOT EXISTS idx_orders_user_placed ON orders(user_id, placed_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_order_items_order_position ON order_items(order_id, position)",
	}

	successCount := 0
	failCount := 0

	for _, indexSQL := range indexes {
		if err := m.db.Exec(indexSQL).Error; err != nil {
			m.log.WithError(err).Warn("⚠️ Failed to create index")
			failCount++
		} else {
			successCount++
		}
	}

	m.log.Infof("✅ Created %d indexes successfully (%d failed)", successCount, failCount)
	return nil
}

// DropAllTables drops the store tables, most dependent first
func (m *Migration) DropAllTables(extra ...interface{}) error {
	m.log.Warn("⚠️ WARNING: Dropping all database tables...")

	models := append(Models(), extra...)
	for i := len(models) - 1; i >= 0; i-- {
		if err := m.db.Migrator().DropTable(models[i]); err != nil {
			return fmt.Errorf("failed to drop table for %T: %w", models[i], err)
		}
	}

	m.log.Info("✅ All tables dropped successfully")
	return nil
}
