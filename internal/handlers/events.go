package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/familytree-api/internal/dto"
	"github.com/yukikurage/familytree-api/internal/services"
	"go.uber.org/zap"
)

// EventHandler serves dated events recorded against a person.
type EventHandler struct {
	eventService *services.EventService
	log          *zap.Logger
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(eventService *services.EventService, log *zap.Logger) *EventHandler {
	return &EventHandler{
		eventService: eventService,
		log:          log,
	}
}

type eventRequest struct {
	Title       string   `json:"title" binding:"required"`
	EventDate   string   `json:"event_date"`
	Place       string   `json:"place"`
	PlaceLat    *float64 `json:"place_lat" binding:"omitempty,gte=-90,lte=90"`
	PlaceLng    *float64 `json:"place_lng" binding:"omitempty,gte=-180,lte=180"`
	Description string   `json:"description"`
	CreatedBy   uint64   `json:"created_by" binding:"required"`
}

func (r eventRequest) input() services.EventInput {
	return services.EventInput{
		Title:       r.Title,
		EventDate:   r.EventDate,
		Place:       r.Place,
		PlaceLat:    r.PlaceLat,
		PlaceLng:    r.PlaceLng,
		Description: r.Description,
		CreatedBy:   r.CreatedBy,
	}
}

// ListEvents returns every event of the caller
func (h *EventHandler) ListEvents(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	events, err := h.eventService.ListEvents(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToEventListResponse(events))
}

// GetEvent returns one event
func (h *EventHandler) GetEvent(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	event, err := h.eventService.GetEvent(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToEventDTO(*event))
}

// CreateEvent records an event for one of the caller's people
func (h *EventHandler) CreateEvent(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req eventRequest
	if !bindJSON(c, &req) {
		return
	}

	event, err := h.eventService.CreateEvent(c.Request.Context(), userID, req.input())
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToEventDTO(*event))
}

// UpdateEvent replaces every editable field of an event
func (h *EventHandler) UpdateEvent(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req eventRequest
	if !bindJSON(c, &req) {
		return
	}

	event, err := h.eventService.UpdateEvent(c.Request.Context(), userID, id, req.input())
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToEventDTO(*event))
}

// DeleteEvent removes an event permanently
func (h *EventHandler) DeleteEvent(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.eventService.DeleteEvent(c.Request.Context(), userID, id); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Event deleted successfully"})
}
