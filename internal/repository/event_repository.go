package repository

import (
	"context"

	"github.com/yukikurage/familytree-api/internal/database"
	"github.com/yukikurage/familytree-api/internal/models"
	"gorm.io/gorm"
)

// GormEventRepository is a GORM implementation of EventRepository
type GormEventRepository struct {
	db *gorm.DB
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(db *gorm.DB) EventRepository {
	return &GormEventRepository{db: db}
}

// List retrieves events of a user, dated events first, newest first
func (r *GormEventRepository) List(ctx context.Context, userID uint64) ([]models.Event, error) {
	var events []models.Event
	if err := r.db.WithContext(ctx).
		Preload("Creator").
		Scopes(database.OwnedBy(userID)).
		Order("CASE WHEN event_date IS NULL OR event_date = '' THEN 1 ELSE 0 END, event_date DESC, id DESC").
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// FindOwned finds an event owned by userID with its creator loaded
func (r *GormEventRepository) FindOwned(ctx context.Context, userID, id uint64) (*models.Event, error) {
	var event models.Event
	if err := r.db.WithContext(ctx).
		Preload("Creator").
		Scopes(database.OwnedRow(userID, id)).
		Take(&event).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

// Create verifies the creator person and inserts the event atomically
func (r *GormEventRepository) Create(ctx context.Context, userID uint64, event *models.Event) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensurePeopleOwned(tx, userID, event.CreatedBy); err != nil {
			return err
		}

		event.UserID = userID
		return tx.Omit("Creator").Create(event).Error
	})
}

// Update verifies ownership of the row and the creator, then updates it
func (r *GormEventRepository) Update(ctx context.Context, userID uint64, event *models.Event) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Event
		if err := tx.Scopes(database.OwnedRow(userID, event.ID)).Take(&existing).Error; err != nil {
			return err
		}

		if err := ensurePeopleOwned(tx, userID, event.CreatedBy); err != nil {
			return err
		}

		return tx.Model(&models.Event{}).
			Scopes(database.OwnedRow(userID, event.ID)).
			Updates(map[string]interface{}{
				"title":       event.Title,
				"event_date":  event.EventDate,
				"place":       event.Place,
				"place_lat":   event.PlaceLat,
				"place_lng":   event.PlaceLng,
				"description": event.Description,
				"created_by":  event.CreatedBy,
			}).Error
	})
}

// Delete permanently removes an event owned by userID
func (r *GormEventRepository) Delete(ctx context.Context, userID, id uint64) error {
	res := r.db.WithContext(ctx).Scopes(database.OwnedRow(userID, id)).Delete(&models.Event{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
