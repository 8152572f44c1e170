package dto

import (
	"time"

	"github.com/yukikurage/familytree-api/internal/models"
	"github.com/yukikurage/familytree-api/internal/utils"
)

// PersonDTO represents a person in API responses
type PersonDTO struct {
	ID         uint64    `json:"id"`
	GivenName  string    `json:"given_name"`
	FamilyName string    `json:"family_name"`
	OtherNames string    `json:"other_names"`
	Gender     string    `json:"gender"`
	BirthDate  string    `json:"birth_date"`
	DeathDate  string    `json:"death_date"`
	BirthPlace string    `json:"birth_place"`
	Bio        string    `json:"bio"`
	Relation   string    `json:"relation"`
	HasPhoto   bool      `json:"has_photo"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// PersonListResponse represents a paginated list of people
type PersonListResponse struct {
	People     []PersonDTO              `json:"people"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// ToPersonDTO converts a Person model to PersonDTO
func ToPersonDTO(p models.Person) PersonDTO {
	return PersonDTO{
		ID:         p.ID,
		GivenName:  p.GivenName,
		FamilyName: p.FamilyName,
		OtherNames: p.OtherNames,
		Gender:     p.Gender,
		BirthDate:  p.BirthDate,
		DeathDate:  p.DeathDate,
		BirthPlace: p.BirthPlace,
		Bio:        p.Bio,
		Relation:   p.Relation,
		HasPhoto:   p.PhotoKey != "",
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

// ToPersonListResponse converts a page of people to PersonListResponse
func ToPersonListResponse(people []models.Person, params utils.PaginationParams, total int64) PersonListResponse {
	dtos := make([]PersonDTO, len(people))
	for i, p := range people {
		dtos[i] = ToPersonDTO(p)
	}

	return PersonListResponse{
		People:     dtos,
		Pagination: params.Response(total),
	}
}
