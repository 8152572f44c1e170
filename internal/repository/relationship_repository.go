package repository

import (
	"context"

	"github.com/yukikurage/familytree-api/internal/models"
	"gorm.io/gorm"
)

// GormRelationshipRepository is a GORM implementation of RelationshipRepository
type GormRelationshipRepository struct {
	db *gorm.DB
}

// NewRelationshipRepository creates a new RelationshipRepository
func NewRelationshipRepository(db *gorm.DB) RelationshipRepository {
	return &GormRelationshipRepository{db: db}
}

// visibleRelationships joins both people and keeps rows whose people are
// live and owned by userID
func visibleRelationships(userID uint64) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.
			Select("relationships.*").
			Joins("JOIN people p1 ON p1.id = relationships.person1_id").
			Joins("JOIN people p2 ON p2.id = relationships.person2_id").
			Where("p1.user_id = ? AND p2.user_id = ?", userID, userID).
			Where("p1.is_deleted = ? AND p2.is_deleted = ?", false, false)
	}
}

// List retrieves relationships of a user, newest first
func (r *GormRelationshipRepository) List(ctx context.Context, userID uint64) ([]models.Relationship, error) {
	var rels []models.Relationship
	if err := r.db.WithContext(ctx).
		Scopes(visibleRelationships(userID)).
		Preload("Person1").
		Preload("Person2").
		Order("relationships.created_at DESC, relationships.id DESC").
		Find(&rels).Error; err != nil {
		return nil, err
	}
	return rels, nil
}

// FindOwned finds a relationship visible to userID
func (r *GormRelationshipRepository) FindOwned(ctx context.Context, userID, id uint64) (*models.Relationship, error) {
	var rel models.Relationship
	if err := r.db.WithContext(ctx).
		Scopes(visibleRelationships(userID)).
		Preload("Person1").
		Preload("Person2").
		Where("relationships.id = ?", id).
		Take(&rel).Error; err != nil {
		return nil, err
	}
	return &rel, nil
}

// Create verifies both people and inserts the relationship atomically
func (r *GormRelationshipRepository) Create(ctx context.Context, userID uint64, rel *models.Relationship) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensurePeopleOwned(tx, userID, rel.Person1ID, rel.Person2ID); err != nil {
			return err
		}

		return tx.Omit("Person1", "Person2").Create(rel).Error
	})
}

// Update verifies ownership of the row and both people, then updates it
func (r *GormRelationshipRepository) Update(ctx context.Context, userID uint64, rel *models.Relationship) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Relationship
		if err := tx.Scopes(visibleRelationships(userID)).
			Where("relationships.id = ?", rel.ID).
			Take(&existing).Error; err != nil {
			return err
		}

		if err := ensurePeopleOwned(tx, userID, rel.Person1ID, rel.Person2ID); err != nil {
			return err
		}

		return tx.Model(&models.Relationship{}).
			Where("id = ?", rel.ID).
			Updates(map[string]interface{}{
				"person1_id": rel.Person1ID,
				"person2_id": rel.Person2ID,
				"type":       rel.Type,
				"details":    rel.Details,
				"start_date": rel.StartDate,
				"end_date":   rel.EndDate,
			}).Error
	})
}

// Delete permanently removes a relationship visible to userID
func (r *GormRelationshipRepository) Delete(ctx context.Context, userID, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Relationship
		if err := tx.Scopes(visibleRelationships(userID)).
			Where("relationships.id = ?", id).
			Take(&existing).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Relationship{}, id).Error
	})
}
