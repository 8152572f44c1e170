package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/familytree-api/internal/clock"
	"github.com/yukikurage/familytree-api/internal/models"
	"github.com/yukikurage/familytree-api/internal/repository"
	"github.com/yukikurage/familytree-api/internal/utils"
	"gorm.io/gorm"
)

// PersonService provides business logic for person operations.
type PersonService struct {
	personRepo repository.PersonRepository
	clock      clock.Clock
}

// NewPersonService creates a new PersonService.
func NewPersonService(personRepo repository.PersonRepository, clk clock.Clock) *PersonService {
	return &PersonService{
		personRepo: personRepo,
		clock:      clk,
	}
}

// PersonInput holds every editable person field.
type PersonInput struct {
	GivenName  string
	FamilyName string
	OtherNames string
	Gender     string
	BirthDate  string
	DeathDate  string
	BirthPlace string
	Bio        string
	Relation   string
}

func (in PersonInput) validate() error {
	if strings.TrimSpace(in.GivenName) == "" {
		return fieldError("given_name", "given name is required")
	}
	if strings.TrimSpace(in.FamilyName) == "" {
		return fieldError("family_name", "family name is required")
	}
	return nil
}

func (in PersonInput) apply(p *models.Person) {
	p.GivenName = strings.TrimSpace(in.GivenName)
	p.FamilyName = strings.TrimSpace(in.FamilyName)
	p.OtherNames = strings.TrimSpace(in.OtherNames)
	p.Gender = strings.TrimSpace(in.Gender)
	p.BirthDate = strings.TrimSpace(in.BirthDate)
	p.DeathDate = strings.TrimSpace(in.DeathDate)
	p.BirthPlace = strings.TrimSpace(in.BirthPlace)
	p.Bio = in.Bio
	p.Relation = strings.TrimSpace(in.Relation)
}

// CreatePerson creates a person owned by userID.
func (s *PersonService) CreatePerson(ctx context.Context, userID uint64, input PersonInput) (*models.Person, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	person := &models.Person{UserID: userID}
	input.apply(person)

	if err := s.personRepo.Create(ctx, person); err != nil {
		return nil, fmt.Errorf("failed to create person: %w", err)
	}
	return person, nil
}

// GetPerson returns a live person owned by userID.
func (s *PersonService) GetPerson(ctx context.Context, userID, id uint64) (*models.Person, error) {
	person, err := s.personRepo.FindOwned(ctx, userID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPersonNotFound
		}
		return nil, fmt.Errorf("failed to find person: %w", err)
	}
	return person, nil
}

// ListPeople returns a page of live people owned by userID.
func (s *PersonService) ListPeople(ctx context.Context, userID uint64, params utils.PaginationParams) ([]models.Person, int64, error) {
	people, total, err := s.personRepo.List(ctx, userID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list people: %w", err)
	}
	return people, total, nil
}

// UpdatePerson replaces every editable field of a person.
func (s *PersonService) UpdatePerson(ctx context.Context, userID, id uint64, input PersonInput) (*models.Person, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	person, err := s.GetPerson(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	input.apply(person)
	if err := s.personRepo.Update(ctx, person); err != nil {
		return nil, fmt.Errorf("failed to update person: %w", err)
	}

	return s.GetPerson(ctx, userID, id)
}

// DeletePerson soft deletes a person. Repeating the call is harmless.
func (s *PersonService) DeletePerson(ctx context.Context, userID, id uint64) error {
	if err := s.personRepo.SoftDelete(ctx, userID, id, s.clock.Now()); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPersonNotFound
		}
		return fmt.Errorf("failed to delete person: %w", err)
	}
	return nil
}
