package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/familytree-api/internal/config"
	"github.com/yukikurage/familytree-api/internal/models"
	"github.com/yukikurage/familytree-api/internal/repository"
	"github.com/yukikurage/familytree-api/internal/storage"
	"github.com/yukikurage/familytree-api/internal/testutil"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const testSessionTTL = 7 * 24 * time.Hour

type serviceTestEnv struct {
	db            *gorm.DB
	clock         *testutil.StubClock
	store         *storage.MemoryStore
	sessions      *SessionManager
	auth          *AuthService
	people        *PersonService
	relationships *RelationshipService
	events        *EventService
	photos        *PhotoService
}

func setupServiceTestEnv(t *testing.T) serviceTestEnv {
	t.Helper()

	clk := testutil.FixedClock()
	db := testutil.NewTestDB(t, clk)
	log := zap.NewNop()
	store := storage.NewMemoryStore()

	userRepo := repository.NewUserRepository(db)
	personRepo := repository.NewPersonRepository(db)
	sessions := NewSessionManager(repository.NewSessionRepository(db), clk, testSessionTTL, log)

	return serviceTestEnv{
		db:            db,
		clock:         clk,
		store:         store,
		sessions:      sessions,
		auth:          NewAuthService(userRepo, sessions, clk, 6),
		people:        NewPersonService(personRepo, clk),
		relationships: NewRelationshipService(repository.NewRelationshipRepository(db), config.DefaultRelationTypes),
		events:        NewEventService(repository.NewEventRepository(db)),
		photos:        NewPhotoService(userRepo, personRepo, store, 64, 1<<20, log),
	}
}

func (env serviceTestEnv) register(t *testing.T, username string) *models.User {
	t.Helper()

	user, err := env.auth.Register(context.Background(), RegisterInput{
		Username: username,
		Password: "secret1",
	})
	require.NoError(t, err)
	return user
}

func (env serviceTestEnv) person(t *testing.T, userID uint64, given, family string) *models.Person {
	t.Helper()

	person, err := env.people.CreatePerson(context.Background(), userID, PersonInput{
		GivenName:  given,
		FamilyName: family,
	})
	require.NoError(t, err)
	return person
}

func (env serviceTestEnv) countRows(t *testing.T, model interface{}) int64 {
	t.Helper()

	var count int64
	require.NoError(t, env.db.Model(model).Count(&count).Error)
	return count
}
