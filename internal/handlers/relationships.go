package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/familytree-api/internal/dto"
	"github.com/yukikurage/familytree-api/internal/services"
	"go.uber.org/zap"
)

// RelationshipHandler serves links between two people.
type RelationshipHandler struct {
	relService *services.RelationshipService
	log        *zap.Logger
}

// NewRelationshipHandler creates a new RelationshipHandler.
func NewRelationshipHandler(relService *services.RelationshipService, log *zap.Logger) *RelationshipHandler {
	return &RelationshipHandler{
		relService: relService,
		log:        log,
	}
}

// person ids are validated by the service so the self check runs first
type relationshipRequest struct {
	Person1ID uint64 `json:"person1_id"`
	Person2ID uint64 `json:"person2_id"`
	Type      string `json:"type"`
	Details   string `json:"details"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func (r relationshipRequest) input() services.RelationshipInput {
	return services.RelationshipInput{
		Person1ID: r.Person1ID,
		Person2ID: r.Person2ID,
		Type:      r.Type,
		Details:   r.Details,
		StartDate: r.StartDate,
		EndDate:   r.EndDate,
	}
}

// ListTypes returns the accepted relationship types
func (h *RelationshipHandler) ListTypes(c *gin.Context) {
	c.JSON(http.StatusOK, dto.RelationTypesResponse{Types: h.relService.RelationTypes()})
}

// ListRelationships returns every relationship between live people
func (h *RelationshipHandler) ListRelationships(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	rels, err := h.relService.ListRelationships(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToRelationshipListResponse(rels))
}

// GetRelationship returns one relationship
func (h *RelationshipHandler) GetRelationship(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	rel, err := h.relService.GetRelationship(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToRelationshipDTO(*rel))
}

// CreateRelationship links two of the caller's people
func (h *RelationshipHandler) CreateRelationship(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req relationshipRequest
	if !bindJSON(c, &req) {
		return
	}

	rel, err := h.relService.CreateRelationship(c.Request.Context(), userID, req.input())
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToRelationshipDTO(*rel))
}

// UpdateRelationship replaces every editable field of a relationship
func (h *RelationshipHandler) UpdateRelationship(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req relationshipRequest
	if !bindJSON(c, &req) {
		return
	}

	rel, err := h.relService.UpdateRelationship(c.Request.Context(), userID, id, req.input())
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToRelationshipDTO(*rel))
}

// DeleteRelationship removes a relationship permanently
func (h *RelationshipHandler) DeleteRelationship(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.relService.DeleteRelationship(c.Request.Context(), userID, id); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Relationship deleted successfully"})
}
