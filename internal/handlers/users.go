package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/familytree-api/internal/constants"
	"github.com/yukikurage/familytree-api/internal/dto"
	"github.com/yukikurage/familytree-api/internal/services"
	"go.uber.org/zap"
)

// UserHandler serves account level operations beyond authentication.
type UserHandler struct {
	authService    *services.AuthService
	photoService   *services.PhotoService
	maxUploadBytes int64
	log            *zap.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(authService *services.AuthService, photoService *services.PhotoService, maxUploadBytes int64, log *zap.Logger) *UserHandler {
	return &UserHandler{
		authService:    authService,
		photoService:   photoService,
		maxUploadBytes: maxUploadBytes,
		log:            log,
	}
}

// UploadProfilePhoto stores a resized copy of the uploaded image.
func (h *UserHandler) UploadProfilePhoto(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	filename, data, ok := readUpload(c, h.maxUploadBytes)
	if !ok {
		return
	}

	key, err := h.photoService.SetProfilePhoto(c.Request.Context(), userID, filename, data)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ProfilePhotoResponse{ProfilePhoto: key})
}

// GetProfilePhoto streams the caller's profile photo.
func (h *UserHandler) GetProfilePhoto(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	data, err := h.photoService.ProfilePhoto(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.Data(http.StatusOK, constants.PhotoContentType, data)
}

// Deactivate disables the caller's account and ends every session.
func (h *UserHandler) Deactivate(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.authService.Deactivate(c.Request.Context(), userID); err != nil {
		respondError(c, h.log, err)
		return
	}

	h.log.Info("user deactivated", zap.Uint64("user_id", userID))
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Account deactivated"})
}
