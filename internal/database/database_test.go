package database_test

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/familytree-api/internal/config"
	"github.com/yukikurage/familytree-api/internal/database"
	"github.com/yukikurage/familytree-api/internal/models"
	"github.com/yukikurage/familytree-api/internal/repository"
	"github.com/yukikurage/familytree-api/internal/services"
	"github.com/yukikurage/familytree-api/internal/testutil"
	"github.com/yukikurage/familytree-api/internal/utils"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestConnectAndMigrate_SQLite(t *testing.T) {
	cfg := config.Default()
	cfg.DBPath = filepath.Join(t.TempDir(), "nested", "familytree.db")
	cfg.GinMode = "release"

	log := zap.NewNop()
	db, err := database.Connect(cfg, testutil.FixedClock(), log)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db, log))
	// Second run finds every index and is a no-op.
	require.NoError(t, database.Migrate(db, log))

	for _, table := range []string{"users", "sessions", "people", "relationships", "events"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
	assert.True(t, db.Migrator().HasIndex("people", "idx_people_user_deleted"))
	assert.NoError(t, database.Ping(context.Background(), db))
}

func TestConnect_UnknownDriver(t *testing.T) {
	cfg := config.Default()
	cfg.DBDriver = "oracle"

	_, err := database.Connect(cfg, testutil.FixedClock(), zap.NewNop())
	require.Error(t, err)
}

func TestScopes(t *testing.T) {
	db := testutil.NewTestDB(t, testutil.FixedClock())

	for _, userID := range []uint64{1, 1, 1, 2} {
		require.NoError(t, db.Create(&models.Person{
			UserID:     userID,
			GivenName:  "Jane",
			FamilyName: "Doe",
		}).Error)
	}

	var owned []models.Person
	require.NoError(t, db.Scopes(database.OwnedBy(1)).Order("id").Find(&owned).Error)
	assert.Len(t, owned, 3)

	var page []models.Person
	require.NoError(t, db.Scopes(database.OwnedBy(1), database.Paginate(utils.NewPaginationParams(2, 2))).
		Order("id").Find(&page).Error)
	require.Len(t, page, 1)
	assert.Equal(t, owned[2].ID, page[0].ID)

	var row models.Person
	require.NoError(t, db.Scopes(database.OwnedRow(2, 4)).Take(&row).Error)
	assert.Equal(t, uint64(2), row.UserID)
	assert.Error(t, db.Scopes(database.OwnedRow(1, 4)).Take(&row).Error)
}

func TestConnect_QueryLogOmitsSessionToken(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := zap.New(core)

	cfg := config.Default()
	cfg.DBPath = filepath.Join(t.TempDir(), "familytree.db")
	require.False(t, cfg.IsRelease())

	clk := testutil.FixedClock()
	db, err := database.Connect(cfg, clk, log)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, database.Migrate(db, log))

	user := models.User{Username: "alice", PasswordHash: "stored-bcrypt-digest", IsActive: true}
	require.NoError(t, db.Create(&user).Error)

	sessions := services.NewSessionManager(repository.NewSessionRepository(db), clk, time.Hour, log)
	session, err := sessions.Issue(context.Background(), user.ID)
	require.NoError(t, err)
	_, ok := sessions.Validate(context.Background(), session.Token)
	require.True(t, ok)

	var sawSessionQuery bool
	for _, entry := range logs.All() {
		line := entry.Message + fmt.Sprint(entry.ContextMap())
		assert.NotContains(t, line, session.Token)
		assert.NotContains(t, line, "stored-bcrypt-digest")
		if strings.Contains(line, "sessions") && strings.Contains(line, "?") {
			sawSessionQuery = true
		}
	}
	assert.True(t, sawSessionQuery, "session statements should still be logged")
}
