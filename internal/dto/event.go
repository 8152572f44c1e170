package dto

import (
	"time"

	"github.com/yukikurage/familytree-api/internal/models"
)

// EventDTO represents an event in API responses. PersonName is empty and
// CreatorDeleted is set once the creator person has been deleted.
type EventDTO struct {
	ID             uint64    `json:"id"`
	Title          string    `json:"title"`
	EventDate      string    `json:"event_date"`
	Place          string    `json:"place"`
	PlaceLat       *float64  `json:"place_lat"`
	PlaceLng       *float64  `json:"place_lng"`
	Description    string    `json:"description"`
	CreatedBy      uint64    `json:"created_by"`
	PersonName     string    `json:"person_name"`
	CreatorDeleted bool      `json:"creator_deleted"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// EventListResponse represents every event of the caller
type EventListResponse struct {
	Events []EventDTO `json:"events"`
}

// ToEventDTO converts an Event with its creator loaded to EventDTO
func ToEventDTO(e models.Event) EventDTO {
	dto := EventDTO{
		ID:             e.ID,
		Title:          e.Title,
		EventDate:      e.EventDate,
		Place:          e.Place,
		PlaceLat:       e.PlaceLat,
		PlaceLng:       e.PlaceLng,
		Description:    e.Description,
		CreatedBy:      e.CreatedBy,
		CreatorDeleted: e.Creator.IsDeleted,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
	if !e.Creator.IsDeleted && e.Creator.ID != 0 {
		dto.PersonName = e.Creator.FullName()
	}
	return dto
}

// ToEventListResponse converts events to EventListResponse
func ToEventListResponse(events []models.Event) EventListResponse {
	dtos := make([]EventDTO, len(events))
	for i, e := range events {
		dtos[i] = ToEventDTO(e)
	}
	return EventListResponse{Events: dtos}
}
