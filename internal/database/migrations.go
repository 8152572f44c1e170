package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AddIndexes adds the composite indexes used by the per-user list queries
func AddIndexes(db *gorm.DB, log *zap.Logger) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// People are always filtered by owner and deletion flag
		{"people", "idx_people_user_deleted", "user_id, is_deleted"},
		{"people", "idx_people_user_names", "user_id, family_name, given_name"},

		// Relationship lookups by pair
		{"relationships", "idx_relationships_pair", "person1_id, person2_id"},

		// Event listing per owner
		{"events", "idx_events_user_date", "user_id, event_date"},

		// Session cleanup by owner
		{"sessions", "idx_sessions_user_expires", "user_id, expires_at"},
	}

	for _, idx := range indexes {
		if db.Migrator().HasIndex(idx.table, idx.name) {
			log.Debug("index already exists, skipping", zap.String("index", idx.name))
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Info("created index", zap.String("index", idx.name), zap.String("table", idx.table))
	}

	return nil
}
