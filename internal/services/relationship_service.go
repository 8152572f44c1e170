package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/familytree-api/internal/models"
	"github.com/yukikurage/familytree-api/internal/repository"
	"gorm.io/gorm"
)

// RelationshipService provides business logic for relationship operations.
type RelationshipService struct {
	relRepo       repository.RelationshipRepository
	relationTypes []string
}

// NewRelationshipService creates a new RelationshipService. relationTypes
// must already be lowercase.
func NewRelationshipService(relRepo repository.RelationshipRepository, relationTypes []string) *RelationshipService {
	return &RelationshipService{
		relRepo:       relRepo,
		relationTypes: append([]string(nil), relationTypes...),
	}
}

// RelationshipInput holds every editable relationship field.
type RelationshipInput struct {
	Person1ID uint64
	Person2ID uint64
	Type      string
	Details   string
	StartDate string
	EndDate   string
}

// RelationTypes returns the accepted relationship types.
func (s *RelationshipService) RelationTypes() []string {
	return append([]string(nil), s.relationTypes...)
}

// normalize validates input and returns the lowercased type. The
// self-reference check runs before the type check.
func (s *RelationshipService) normalize(input RelationshipInput) (string, error) {
	if input.Person1ID == 0 {
		return "", fieldError("person1_id", "both people are required")
	}
	if input.Person2ID == 0 {
		return "", fieldError("person2_id", "both people are required")
	}
	if input.Person1ID == input.Person2ID {
		return "", ErrSelfRelationship
	}

	relType := strings.ToLower(strings.TrimSpace(input.Type))
	if relType == "" {
		return "", nil
	}
	for _, allowed := range s.relationTypes {
		if relType == allowed {
			return relType, nil
		}
	}
	return "", ErrInvalidRelationType
}

func (input RelationshipInput) apply(rel *models.Relationship, relType string) {
	rel.Person1ID = input.Person1ID
	rel.Person2ID = input.Person2ID
	rel.Type = relType
	rel.Details = input.Details
	rel.StartDate = strings.TrimSpace(input.StartDate)
	rel.EndDate = strings.TrimSpace(input.EndDate)
}

// ListRelationships returns the relationships visible to userID.
func (s *RelationshipService) ListRelationships(ctx context.Context, userID uint64) ([]models.Relationship, error) {
	rels, err := s.relRepo.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list relationships: %w", err)
	}
	return rels, nil
}

// GetRelationship returns a relationship visible to userID.
func (s *RelationshipService) GetRelationship(ctx context.Context, userID, id uint64) (*models.Relationship, error) {
	rel, err := s.relRepo.FindOwned(ctx, userID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRelationshipNotFound
		}
		return nil, fmt.Errorf("failed to find relationship: %w", err)
	}
	return rel, nil
}

// CreateRelationship links two live people of userID.
func (s *RelationshipService) CreateRelationship(ctx context.Context, userID uint64, input RelationshipInput) (*models.Relationship, error) {
	relType, err := s.normalize(input)
	if err != nil {
		return nil, err
	}

	rel := &models.Relationship{}
	input.apply(rel, relType)

	if err := s.relRepo.Create(ctx, userID, rel); err != nil {
		if errors.Is(err, repository.ErrPersonReferenceNotFound) {
			return nil, ErrRelatedPeopleNotFound
		}
		return nil, fmt.Errorf("failed to create relationship: %w", err)
	}

	return s.GetRelationship(ctx, userID, rel.ID)
}

// UpdateRelationship replaces every editable field of a relationship.
func (s *RelationshipService) UpdateRelationship(ctx context.Context, userID, id uint64, input RelationshipInput) (*models.Relationship, error) {
	relType, err := s.normalize(input)
	if err != nil {
		return nil, err
	}

	rel := &models.Relationship{ID: id}
	input.apply(rel, relType)

	if err := s.relRepo.Update(ctx, userID, rel); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, ErrRelationshipNotFound
		case errors.Is(err, repository.ErrPersonReferenceNotFound):
			return nil, ErrRelatedPeopleNotFound
		default:
			return nil, fmt.Errorf("failed to update relationship: %w", err)
		}
	}

	return s.GetRelationship(ctx, userID, id)
}

// DeleteRelationship permanently removes a relationship.
func (s *RelationshipService) DeleteRelationship(ctx context.Context, userID, id uint64) error {
	if err := s.relRepo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRelationshipNotFound
		}
		return fmt.Errorf("failed to delete relationship: %w", err)
	}
	return nil
}
