package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/yukikurage/familytree-api/internal/constants"
	"github.com/yukikurage/familytree-api/internal/imaging"
	"github.com/yukikurage/familytree-api/internal/repository"
	"github.com/yukikurage/familytree-api/internal/storage"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PhotoService stores resized profile and person photos.
type PhotoService struct {
	userRepo   repository.UserRepository
	personRepo repository.PersonRepository
	store      storage.PhotoStore
	maxDim     int
	maxPixels  int64
	log        *zap.Logger
}

// NewPhotoService creates a new PhotoService.
func NewPhotoService(userRepo repository.UserRepository, personRepo repository.PersonRepository, store storage.PhotoStore, maxDim int, maxPixels int64, log *zap.Logger) *PhotoService {
	return &PhotoService{
		userRepo:   userRepo,
		personRepo: personRepo,
		store:      store,
		maxDim:     maxDim,
		maxPixels:  maxPixels,
		log:        log,
	}
}

// allowedPhoto reports whether filename carries an accepted extension.
func allowedPhoto(filename string) bool {
	_, ok := constants.AllowedPhotoExtensions[strings.ToLower(filepath.Ext(filename))]
	return ok
}

// prepare validates and normalises an upload into a JPEG thumbnail.
func (s *PhotoService) prepare(filename string, data []byte) ([]byte, error) {
	if !allowedPhoto(filename) || len(data) == 0 {
		return nil, ErrInvalidPhoto
	}

	resized, err := imaging.Resize(data, s.maxDim, s.maxPixels)
	if err != nil {
		switch {
		case errors.Is(err, imaging.ErrNotImage):
			return nil, ErrInvalidPhoto
		case errors.Is(err, imaging.ErrTooManyPixels):
			return nil, fmt.Errorf("%w: image dimensions are too large", ErrInvalidPhoto)
		}
		return nil, fmt.Errorf("failed to resize photo: %w", err)
	}
	return resized, nil
}

// put stores data under a fresh key below prefix.
func (s *PhotoService) put(ctx context.Context, prefix string, data []byte) (string, error) {
	key := storage.NewKey(prefix)
	if err := s.store.Put(ctx, key, data, constants.PhotoContentType); err != nil {
		return "", fmt.Errorf("failed to store photo: %w", err)
	}
	return key, nil
}

func (s *PhotoService) discard(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.store.Delete(ctx, key); err != nil {
		s.log.Warn("failed to delete replaced photo", zap.String("key", key), zap.Error(err))
	}
}

func (s *PhotoService) load(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, ErrPhotoNotFound
	}
	data, err := s.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrPhotoNotFound
		}
		return nil, fmt.Errorf("failed to load photo: %w", err)
	}
	return data, nil
}

// SetProfilePhoto replaces the profile photo of userID and returns its key.
func (s *PhotoService) SetProfilePhoto(ctx context.Context, userID uint64, filename string, data []byte) (string, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrUserNotFound
		}
		return "", fmt.Errorf("failed to find user: %w", err)
	}

	resized, err := s.prepare(filename, data)
	if err != nil {
		return "", err
	}

	key, err := s.put(ctx, fmt.Sprintf("users/%d", userID), resized)
	if err != nil {
		return "", err
	}

	if err := s.userRepo.UpdateFields(ctx, userID, map[string]interface{}{"profile_photo": key}); err != nil {
		s.discard(ctx, key)
		return "", fmt.Errorf("failed to update profile photo: %w", err)
	}

	s.discard(ctx, user.ProfilePhoto)
	return key, nil
}

// ProfilePhoto returns the stored profile photo of userID.
func (s *PhotoService) ProfilePhoto(ctx context.Context, userID uint64) ([]byte, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return s.load(ctx, user.ProfilePhoto)
}

// SetPersonPhoto replaces the photo of a live person owned by userID.
func (s *PhotoService) SetPersonPhoto(ctx context.Context, userID, personID uint64, filename string, data []byte) (string, error) {
	person, err := s.personRepo.FindOwned(ctx, userID, personID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrPersonNotFound
		}
		return "", fmt.Errorf("failed to find person: %w", err)
	}

	resized, err := s.prepare(filename, data)
	if err != nil {
		return "", err
	}

	key, err := s.put(ctx, fmt.Sprintf("people/%d", personID), resized)
	if err != nil {
		return "", err
	}

	if err := s.personRepo.SetPhoto(ctx, userID, personID, key); err != nil {
		s.discard(ctx, key)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrPersonNotFound
		}
		return "", fmt.Errorf("failed to update person photo: %w", err)
	}

	s.discard(ctx, person.PhotoKey)
	return key, nil
}

// PersonPhoto returns the stored photo of a live person owned by userID.
func (s *PhotoService) PersonPhoto(ctx context.Context, userID, personID uint64) ([]byte, error) {
	person, err := s.personRepo.FindOwned(ctx, userID, personID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPersonNotFound
		}
		return nil, fmt.Errorf("failed to find person: %w", err)
	}
	return s.load(ctx, person.PhotoKey)
}
