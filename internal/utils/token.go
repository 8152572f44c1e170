package utils

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/yukikurage/familytree-api/internal/constants"
)

// GenerateSessionToken returns a URL-safe token carrying
// constants.SessionTokenBytes bytes of entropy from crypto/rand.
func GenerateSessionToken() (string, error) {
	bytes := make([]byte, constants.SessionTokenBytes)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(bytes), nil
}
