package dto

import (
	"time"

	"github.com/yukikurage/familytree-api/internal/auth"
	"github.com/yukikurage/familytree-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID              uint64 `json:"id"`
	Username        string `json:"username"`
	Email           string `json:"email"`
	FullName        string `json:"full_name"`
	HasProfilePhoto bool   `json:"has_profile_photo"`
}

// RegisterResponse is returned after a successful registration
type RegisterResponse struct {
	UserID uint64 `json:"user_id"`
}

// LoginResponse carries the bearer token and its owner
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      UserDTO   `json:"user"`
}

// ProfilePhotoResponse is returned after a photo upload
type ProfilePhotoResponse struct {
	ProfilePhoto string `json:"profile_photo"`
}

// MessageResponse is a plain acknowledgement
type MessageResponse struct {
	Message string `json:"message"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:              user.ID,
		Username:        user.Username,
		Email:           user.EmailValue(),
		FullName:        user.FullName,
		HasProfilePhoto: user.ProfilePhoto != "",
	}
}

// FromAuthUser converts the session identity to UserDTO
func FromAuthUser(user *auth.User) UserDTO {
	return UserDTO{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		FullName: user.FullName,
	}
}
