package repository

import (
	"context"
	"time"

	"github.com/yukikurage/familytree-api/internal/database"
	"github.com/yukikurage/familytree-api/internal/models"
	"github.com/yukikurage/familytree-api/internal/utils"
	"gorm.io/gorm"
)

// GormPersonRepository is a GORM implementation of PersonRepository
type GormPersonRepository struct {
	db *gorm.DB
}

// NewPersonRepository creates a new PersonRepository
func NewPersonRepository(db *gorm.DB) PersonRepository {
	return &GormPersonRepository{db: db}
}

// livePeople restricts a query to non-deleted people of userID
func livePeople(userID uint64) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("people.user_id = ? AND people.is_deleted = ?", userID, false)
	}
}

// Create creates a new person
func (r *GormPersonRepository) Create(ctx context.Context, person *models.Person) error {
	return r.db.WithContext(ctx).Create(person).Error
}

// FindOwned finds a non-deleted person owned by userID
func (r *GormPersonRepository) FindOwned(ctx context.Context, userID, id uint64) (*models.Person, error) {
	var person models.Person
	if err := r.db.WithContext(ctx).
		Scopes(livePeople(userID)).
		Where("people.id = ?", id).
		Take(&person).Error; err != nil {
		return nil, err
	}
	return &person, nil
}

// List retrieves non-deleted people of a user, ordered by name
func (r *GormPersonRepository) List(ctx context.Context, userID uint64, params utils.PaginationParams) ([]models.Person, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Person{}).Scopes(livePeople(userID))

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var people []models.Person
	if err := query.
		Order("people.family_name, people.given_name, people.id").
		Scopes(database.Paginate(params)).
		Find(&people).Error; err != nil {
		return nil, 0, err
	}

	return people, total, nil
}

// Update overwrites the editable fields of a live person
func (r *GormPersonRepository) Update(ctx context.Context, person *models.Person) error {
	res := r.db.WithContext(ctx).
		Model(&models.Person{}).
		Scopes(livePeople(person.UserID)).
		Where("people.id = ?", person.ID).
		Updates(map[string]interface{}{
			"given_name":  person.GivenName,
			"family_name": person.FamilyName,
			"other_names": person.OtherNames,
			"gender":      person.Gender,
			"birth_date":  person.BirthDate,
			"death_date":  person.DeathDate,
			"birth_place": person.BirthPlace,
			"bio":         person.Bio,
			"relation":    person.Relation,
		})
	return res.Error
}

// SoftDelete marks a person as deleted. A person already marked deleted is
// left untouched; a person owned by someone else is not found.
func (r *GormPersonRepository) SoftDelete(ctx context.Context, userID, id uint64, at time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var person models.Person
		if err := tx.Scopes(database.OwnedRow(userID, id)).Take(&person).Error; err != nil {
			return err
		}

		if person.IsDeleted {
			return nil
		}

		return tx.Model(&models.Person{}).
			Scopes(database.OwnedRow(userID, id)).
			Updates(map[string]interface{}{
				"is_deleted": true,
				"updated_at": at,
			}).Error
	})
}

// SetPhoto stores the photo key of a live person
func (r *GormPersonRepository) SetPhoto(ctx context.Context, userID, id uint64, key string) error {
	res := r.db.WithContext(ctx).
		Model(&models.Person{}).
		Scopes(livePeople(userID)).
		Where("people.id = ?", id).
		Update("photo_key", key)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ensurePeopleOwned verifies that every id is a live person of userID.
// It must run on the transaction that performs the dependent write.
func ensurePeopleOwned(tx *gorm.DB, userID uint64, ids ...uint64) error {
	unique := uniqueUint64(ids)

	var count int64
	if err := tx.Model(&models.Person{}).
		Scopes(livePeople(userID)).
		Where("people.id IN ?", unique).
		Count(&count).Error; err != nil {
		return err
	}

	if int(count) != len(unique) {
		return ErrPersonReferenceNotFound
	}
	return nil
}

// uniqueUint64 removes duplicate values from a slice of uint64
func uniqueUint64(values []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(values))
	result := make([]uint64, 0, len(values))

	for _, v := range values {
		if _, exists := seen[v]; exists {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}

	return result
}
