// Package storage holds photo blobs outside the relational store.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/yukikurage/familytree-api/internal/config"
)

// ErrNotFound is returned when no object exists under a key.
var ErrNotFound = errors.New("storage: object not found")

// ErrInvalidKey is returned for keys that could escape the store namespace.
var ErrInvalidKey = errors.New("storage: invalid key")

// PhotoStore persists encoded photos by key.
type PhotoStore interface {
	// Put stores data under key, replacing any existing object.
	Put(ctx context.Context, key string, data []byte, contentType string) error

	// Get returns the object stored under key or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Delete removes the object under key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error
}

// NewKey returns a fresh key under prefix, for example "people/12/<uuid>.jpg".
func NewKey(prefix string) string {
	return path.Join(prefix, uuid.NewString()+".jpg")
}

// validateKey rejects empty, absolute and parent-relative keys.
func validateKey(key string) error {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return ErrInvalidKey
	}
	for _, part := range strings.Split(key, "/") {
		if part == "" || part == "." || part == ".." {
			return ErrInvalidKey
		}
	}
	return nil
}

// NewPhotoStoreFromConfig creates a PhotoStore based on cfg.PhotoStorage.
func NewPhotoStoreFromConfig(ctx context.Context, cfg *config.Config) (PhotoStore, error) {
	switch cfg.PhotoStorage {
	case "memory":
		return NewMemoryStore(), nil
	case "filesystem":
		if cfg.UploadDir == "" {
			return nil, fmt.Errorf("filesystem photo storage requires upload_dir to be set")
		}
		return NewFileSystemStore(cfg.UploadDir)
	case "s3":
		if cfg.S3Bucket == "" {
			return nil, fmt.Errorf("s3 photo storage requires s3_bucket to be set")
		}
		return NewS3Store(ctx, S3Options{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
	default:
		return nil, fmt.Errorf("unknown photo storage type: %s", cfg.PhotoStorage)
	}
}
