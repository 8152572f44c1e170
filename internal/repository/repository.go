package repository

import (
	"context"
	"errors"
	"time"

	"github.com/yukikurage/familytree-api/internal/models"
	"github.com/yukikurage/familytree-api/internal/utils"
)

var (
	// ErrPersonReferenceNotFound is returned when a write references a person
	// that is missing, soft-deleted, or owned by another user.
	ErrPersonReferenceNotFound = errors.New("repository: referenced person not found")
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(ctx context.Context, username string) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// UpdateFields applies a partial update to a user
	UpdateFields(ctx context.Context, id uint64, fields map[string]interface{}) error

	// Deactivate disables the account and removes its sessions
	Deactivate(ctx context.Context, id uint64, at time.Time) error
}

// SessionRepository defines the interface for session data access
type SessionRepository interface {
	// Create stores a new session
	Create(ctx context.Context, session *models.Session) error

	// FindByToken finds a session by exact token match with its user loaded
	FindByToken(ctx context.Context, token string) (*models.Session, error)

	// DeleteByToken removes the session with the given token, if any
	DeleteByToken(ctx context.Context, token string) error

	// DeleteByUserID removes every session of a user except keepToken
	DeleteByUserID(ctx context.Context, userID uint64, keepToken string) error
}

// PersonRepository defines the interface for person data access.
// Every method is scoped to the owning user.
type PersonRepository interface {
	// Create creates a new person
	Create(ctx context.Context, person *models.Person) error

	// FindOwned finds a non-deleted person owned by userID
	FindOwned(ctx context.Context, userID, id uint64) (*models.Person, error)

	// List retrieves non-deleted people of a user, ordered by name
	List(ctx context.Context, userID uint64, params utils.PaginationParams) ([]models.Person, int64, error)

	// Update overwrites the editable fields of a person
	Update(ctx context.Context, person *models.Person) error

	// SoftDelete marks a person as deleted. Deleting an already deleted
	// person is a no-op.
	SoftDelete(ctx context.Context, userID, id uint64, at time.Time) error

	// SetPhoto stores the photo key of a person
	SetPhoto(ctx context.Context, userID, id uint64, key string) error
}

// RelationshipRepository defines the interface for relationship data access.
// A relationship is visible only while both of its people are live and
// owned by the caller.
type RelationshipRepository interface {
	// List retrieves relationships of a user, newest first
	List(ctx context.Context, userID uint64) ([]models.Relationship, error)

	// FindOwned finds a relationship visible to userID
	FindOwned(ctx context.Context, userID, id uint64) (*models.Relationship, error)

	// Create verifies both people and inserts the relationship atomically
	Create(ctx context.Context, userID uint64, rel *models.Relationship) error

	// Update verifies ownership of the row and both people, then updates it
	Update(ctx context.Context, userID uint64, rel *models.Relationship) error

	// Delete permanently removes a relationship visible to userID
	Delete(ctx context.Context, userID, id uint64) error
}

// EventRepository defines the interface for event data access
type EventRepository interface {
	// List retrieves events of a user, dated events first, newest first
	List(ctx context.Context, userID uint64) ([]models.Event, error)

	// FindOwned finds an event owned by userID with its creator loaded
	FindOwned(ctx context.Context, userID, id uint64) (*models.Event, error)

	// Create verifies the creator person and inserts the event atomically
	Create(ctx context.Context, userID uint64, event *models.Event) error

	// Update verifies ownership of the row and the creator, then updates it
	Update(ctx context.Context, userID uint64, event *models.Event) error

	// Delete permanently removes an event owned by userID
	Delete(ctx context.Context, userID, id uint64) error
}
