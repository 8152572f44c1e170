package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/familytree-api/internal/constants"
	"github.com/yukikurage/familytree-api/internal/dto"
	"github.com/yukikurage/familytree-api/internal/services"
	"github.com/yukikurage/familytree-api/internal/utils"
	"go.uber.org/zap"
)

// PersonHandler serves the people of the caller's family tree.
type PersonHandler struct {
	personService  *services.PersonService
	photoService   *services.PhotoService
	maxUploadBytes int64
	log            *zap.Logger
}

// NewPersonHandler creates a new PersonHandler.
func NewPersonHandler(personService *services.PersonService, photoService *services.PhotoService, maxUploadBytes int64, log *zap.Logger) *PersonHandler {
	return &PersonHandler{
		personService:  personService,
		photoService:   photoService,
		maxUploadBytes: maxUploadBytes,
		log:            log,
	}
}

type personRequest struct {
	GivenName  string `json:"given_name" binding:"required"`
	FamilyName string `json:"family_name" binding:"required"`
	OtherNames string `json:"other_names"`
	Gender     string `json:"gender"`
	BirthDate  string `json:"birth_date"`
	DeathDate  string `json:"death_date"`
	BirthPlace string `json:"birth_place"`
	Bio        string `json:"bio"`
	Relation   string `json:"relation"`
}

func (r personRequest) input() services.PersonInput {
	return services.PersonInput{
		GivenName:  r.GivenName,
		FamilyName: r.FamilyName,
		OtherNames: r.OtherNames,
		Gender:     r.Gender,
		BirthDate:  r.BirthDate,
		DeathDate:  r.DeathDate,
		BirthPlace: r.BirthPlace,
		Bio:        r.Bio,
		Relation:   r.Relation,
	}
}

// ListPeople returns a page of the caller's live people
func (h *PersonHandler) ListPeople(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)

	people, total, err := h.personService.ListPeople(c.Request.Context(), userID, params)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPersonListResponse(people, params, total))
}

// GetPerson returns one person
func (h *PersonHandler) GetPerson(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	person, err := h.personService.GetPerson(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPersonDTO(*person))
}

// CreatePerson adds a person to the caller's tree
func (h *PersonHandler) CreatePerson(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req personRequest
	if !bindJSON(c, &req) {
		return
	}

	person, err := h.personService.CreatePerson(c.Request.Context(), userID, req.input())
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToPersonDTO(*person))
}

// UpdatePerson replaces every editable field of a person
func (h *PersonHandler) UpdatePerson(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req personRequest
	if !bindJSON(c, &req) {
		return
	}

	person, err := h.personService.UpdatePerson(c.Request.Context(), userID, id, req.input())
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPersonDTO(*person))
}

// DeletePerson hides a person. Repeating the call succeeds.
func (h *PersonHandler) DeletePerson(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.personService.DeletePerson(c.Request.Context(), userID, id); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Person deleted successfully"})
}

// UploadPhoto stores a resized portrait of a person
func (h *PersonHandler) UploadPhoto(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	filename, data, ok := readUpload(c, h.maxUploadBytes)
	if !ok {
		return
	}

	if _, err := h.photoService.SetPersonPhoto(c.Request.Context(), userID, id, filename, data); err != nil {
		respondError(c, h.log, err)
		return
	}

	person, err := h.personService.GetPerson(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPersonDTO(*person))
}

// GetPhoto streams a person's portrait
func (h *PersonHandler) GetPhoto(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	data, err := h.photoService.PersonPhoto(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.Data(http.StatusOK, constants.PhotoContentType, data)
}
