package dto

import (
	"time"

	"github.com/yukikurage/familytree-api/internal/models"
)

// RelationshipDTO represents a relationship with both people named
type RelationshipDTO struct {
	ID          uint64    `json:"id"`
	Person1ID   uint64    `json:"person1_id"`
	Person2ID   uint64    `json:"person2_id"`
	Person1Name string    `json:"person1_name"`
	Person2Name string    `json:"person2_name"`
	Type        string    `json:"type"`
	Details     string    `json:"details"`
	StartDate   string    `json:"start_date"`
	EndDate     string    `json:"end_date"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// RelationshipListResponse represents every visible relationship
type RelationshipListResponse struct {
	Relationships []RelationshipDTO `json:"relationships"`
}

// RelationTypesResponse lists the accepted relationship types
type RelationTypesResponse struct {
	Types []string `json:"types"`
}

// ToRelationshipDTO converts a Relationship with loaded people to RelationshipDTO
func ToRelationshipDTO(rel models.Relationship) RelationshipDTO {
	return RelationshipDTO{
		ID:          rel.ID,
		Person1ID:   rel.Person1ID,
		Person2ID:   rel.Person2ID,
		Person1Name: rel.Person1.FullName(),
		Person2Name: rel.Person2.FullName(),
		Type:        rel.Type,
		Details:     rel.Details,
		StartDate:   rel.StartDate,
		EndDate:     rel.EndDate,
		CreatedAt:   rel.CreatedAt,
		UpdatedAt:   rel.UpdatedAt,
	}
}

// ToRelationshipListResponse converts relationships to RelationshipListResponse
func ToRelationshipListResponse(rels []models.Relationship) RelationshipListResponse {
	dtos := make([]RelationshipDTO, len(rels))
	for i, rel := range rels {
		dtos[i] = ToRelationshipDTO(rel)
	}
	return RelationshipListResponse{Relationships: dtos}
}
