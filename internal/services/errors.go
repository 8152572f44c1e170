package services

import (
	"errors"
	"fmt"
)

var (
	ErrUsernameTaken        = errors.New("username already exists")
	ErrEmailTaken           = errors.New("email already in use")
	ErrAccountExists        = errors.New("username or email already exists")
	ErrInvalidCredentials   = errors.New("invalid username or password")
	ErrPasswordTooShort     = errors.New("password too short")
	ErrUserNotFound         = errors.New("user not found")
	ErrFailedToHashPassword = errors.New("failed to hash password")
	ErrNoFieldsToUpdate     = errors.New("no fields provided to update")

	ErrPersonNotFound        = errors.New("person not found")
	ErrRelationshipNotFound  = errors.New("relationship not found")
	ErrEventNotFound         = errors.New("event not found")
	ErrSelfRelationship      = errors.New("a person cannot have a relationship with themselves")
	ErrInvalidRelationType   = errors.New("invalid relationship type")
	ErrRelatedPeopleNotFound = errors.New("both people must exist and belong to the current user")
	ErrCreatorNotFound       = errors.New("creator person not found")

	ErrInvalidPhoto  = errors.New("invalid photo file")
	ErrPhotoNotFound = errors.New("photo not found")
)

// FieldError reports a missing or malformed input field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func fieldError(field, message string) *FieldError {
	return &FieldError{Field: field, Message: message}
}
