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

// EventService provides business logic for event operations.
type EventService struct {
	eventRepo repository.EventRepository
}

// NewEventService creates a new EventService.
func NewEventService(eventRepo repository.EventRepository) *EventService {
	return &EventService{
		eventRepo: eventRepo,
	}
}

// EventInput holds every editable event field.
type EventInput struct {
	Title       string
	EventDate   string
	Place       string
	PlaceLat    *float64
	PlaceLng    *float64
	Description string
	CreatedBy   uint64
}

func (in EventInput) validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return fieldError("title", "title is required")
	}
	if in.CreatedBy == 0 {
		return fieldError("created_by", "person is required")
	}
	if in.PlaceLat != nil && (*in.PlaceLat < -90 || *in.PlaceLat > 90) {
		return fieldError("place_lat", "latitude must be between -90 and 90")
	}
	if in.PlaceLng != nil && (*in.PlaceLng < -180 || *in.PlaceLng > 180) {
		return fieldError("place_lng", "longitude must be between -180 and 180")
	}
	return nil
}

func (in EventInput) apply(e *models.Event) {
	e.Title = strings.TrimSpace(in.Title)
	e.EventDate = strings.TrimSpace(in.EventDate)
	e.Place = strings.TrimSpace(in.Place)
	e.PlaceLat = in.PlaceLat
	e.PlaceLng = in.PlaceLng
	e.Description = in.Description
	e.CreatedBy = in.CreatedBy
}

// ListEvents returns every event of userID.
func (s *EventService) ListEvents(ctx context.Context, userID uint64) ([]models.Event, error) {
	events, err := s.eventRepo.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

// GetEvent returns an event owned by userID.
func (s *EventService) GetEvent(ctx context.Context, userID, id uint64) (*models.Event, error) {
	event, err := s.eventRepo.FindOwned(ctx, userID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to find event: %w", err)
	}
	return event, nil
}

// CreateEvent records an event attributed to a live person of userID.
func (s *EventService) CreateEvent(ctx context.Context, userID uint64, input EventInput) (*models.Event, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	event := &models.Event{}
	input.apply(event)

	if err := s.eventRepo.Create(ctx, userID, event); err != nil {
		if errors.Is(err, repository.ErrPersonReferenceNotFound) {
			return nil, ErrCreatorNotFound
		}
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	return s.GetEvent(ctx, userID, event.ID)
}

// UpdateEvent replaces every editable field of an event.
func (s *EventService) UpdateEvent(ctx context.Context, userID, id uint64, input EventInput) (*models.Event, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	event := &models.Event{ID: id}
	input.apply(event)

	if err := s.eventRepo.Update(ctx, userID, event); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, ErrEventNotFound
		case errors.Is(err, repository.ErrPersonReferenceNotFound):
			return nil, ErrCreatorNotFound
		default:
			return nil, fmt.Errorf("failed to update event: %w", err)
		}
	}

	return s.GetEvent(ctx, userID, id)
}

// DeleteEvent permanently removes an event.
func (s *EventService) DeleteEvent(ctx context.Context, userID, id uint64) error {
	if err := s.eventRepo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEventNotFound
		}
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return nil
}
