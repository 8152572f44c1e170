package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/yukikurage/familytree-api/internal/clock"
	"github.com/yukikurage/familytree-api/internal/constants"
	"github.com/yukikurage/familytree-api/internal/models"
	"github.com/yukikurage/familytree-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService handles authentication related business logic.
type AuthService struct {
	userRepo          repository.UserRepository
	sessions          *SessionManager
	clock             clock.Clock
	minPasswordLength int
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, sessions *SessionManager, clk clock.Clock, minPasswordLength int) *AuthService {
	return &AuthService{
		userRepo:          userRepo,
		sessions:          sessions,
		clock:             clk,
		minPasswordLength: minPasswordLength,
	}
}

func (s *AuthService) passwordTooShort() error {
	return fmt.Errorf("%w: must be at least %d characters", ErrPasswordTooShort, s.minPasswordLength)
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	Username string
	Password string
	Email    string
	FullName string
}

// Register creates a new active user.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, fieldError("username", "username is required")
	}
	if n := utf8.RuneCountInString(username); n < constants.MinUsernameLength || n > constants.MaxUsernameLength {
		return nil, fieldError("username", fmt.Sprintf("username must be between %d and %d characters",
			constants.MinUsernameLength, constants.MaxUsernameLength))
	}
	if input.Password == "" {
		return nil, fieldError("password", "password is required")
	}
	if len(input.Password) < s.minPasswordLength {
		return nil, s.passwordTooShort()
	}

	if _, err := s.userRepo.FindByUsername(ctx, username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	email := strings.TrimSpace(input.Email)
	if email != "" {
		if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
			return nil, ErrEmailTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		Username:     username,
		PasswordHash: string(hashedPassword),
		FullName:     strings.TrimSpace(input.FullName),
		IsActive:     true,
	}
	if email != "" {
		user.Email = &email
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAccountExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Username string
	Password string
}

// Login verifies credentials and opens a new session. No session is created
// when verification fails.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*models.Session, *models.User, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" || input.Password == "" {
		return nil, nil, fieldError("username", "username and password are required")
	}

	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, nil, ErrInvalidCredentials
	}

	session, err := s.sessions.Issue(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}

	return session, user, nil
}

// Logout revokes the session identified by token.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Revoke(ctx, token)
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(ctx context.Context, id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

// UpdateProfileInput carries optional profile changes. Nil fields are left
// unchanged; an empty email clears it.
type UpdateProfileInput struct {
	Email    *string
	FullName *string
	Password *string
}

// UpdateProfile applies the given changes. A password change revokes every
// other session of the user, keeping currentToken alive.
func (s *AuthService) UpdateProfile(ctx context.Context, userID uint64, currentToken string, input UpdateProfileInput) (*models.User, error) {
	fields := map[string]interface{}{}

	if input.Email != nil {
		email := strings.TrimSpace(*input.Email)
		if email == "" {
			fields["email"] = nil
		} else {
			existing, err := s.userRepo.FindByEmail(ctx, email)
			if err == nil && existing.ID != userID {
				return nil, ErrEmailTaken
			} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("failed to check email: %w", err)
			}
			fields["email"] = email
		}
	}

	if input.FullName != nil {
		fields["full_name"] = strings.TrimSpace(*input.FullName)
	}

	passwordChanged := false
	if input.Password != nil && *input.Password != "" {
		if len(*input.Password) < s.minPasswordLength {
			return nil, s.passwordTooShort()
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, ErrFailedToHashPassword
		}
		fields["password_hash"] = string(hashed)
		passwordChanged = true
	}

	if len(fields) == 0 {
		return nil, ErrNoFieldsToUpdate
	}
	fields["updated_at"] = s.clock.Now()

	if err := s.userRepo.UpdateFields(ctx, userID, fields); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	if passwordChanged {
		if err := s.sessions.RevokeAll(ctx, userID, currentToken); err != nil {
			return nil, err
		}
	}

	return s.GetUser(ctx, userID)
}

// Deactivate disables the account and ends all of its sessions.
func (s *AuthService) Deactivate(ctx context.Context, userID uint64) error {
	if err := s.userRepo.Deactivate(ctx, userID, s.clock.Now()); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to deactivate user: %w", err)
	}
	return nil
}
