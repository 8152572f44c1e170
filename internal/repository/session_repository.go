package repository

import (
	"context"

	"github.com/yukikurage/familytree-api/internal/models"
	"gorm.io/gorm"
)

// GormSessionRepository is a GORM implementation of SessionRepository
type GormSessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository creates a new SessionRepository
func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &GormSessionRepository{db: db}
}

// Create stores a new session
func (r *GormSessionRepository) Create(ctx context.Context, session *models.Session) error {
	return r.db.WithContext(ctx).Omit("User").Create(session).Error
}

// FindByToken finds a session by exact token match with its user loaded.
// Expiry is not filtered here; callers decide validity.
func (r *GormSessionRepository) FindByToken(ctx context.Context, token string) (*models.Session, error) {
	var session models.Session
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("token = ?", token).
		Take(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

// DeleteByToken removes the session with the given token, if any
func (r *GormSessionRepository) DeleteByToken(ctx context.Context, token string) error {
	return r.db.WithContext(ctx).Where("token = ?", token).Delete(&models.Session{}).Error
}

// DeleteByUserID removes every session of a user except keepToken
func (r *GormSessionRepository) DeleteByUserID(ctx context.Context, userID uint64, keepToken string) error {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if keepToken != "" {
		query = query.Where("token <> ?", keepToken)
	}
	return query.Delete(&models.Session{}).Error
}
