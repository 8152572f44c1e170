package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/familytree-api/internal/auth"
	"github.com/yukikurage/familytree-api/internal/constants"
	apierrors "github.com/yukikurage/familytree-api/internal/errors"
)

// SessionValidator resolves a bearer token to the user it belongs to
type SessionValidator interface {
	Validate(ctx context.Context, token string) (*auth.User, bool)
}

// BearerToken extracts the token from the Authorization header. Any header
// without the exact Bearer prefix yields an empty token.
func BearerToken(c *gin.Context) string {
	header := c.GetHeader(constants.AuthorizationHeader)
	if !strings.HasPrefix(header, constants.BearerPrefix) {
		return ""
	}
	return strings.TrimPrefix(header, constants.BearerPrefix)
}

// RequireAuth checks if the request carries a valid session token
func RequireAuth(sessions SessionValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c)
		if token == "" {
			apierrors.Unauthorized(c, "")
			return
		}

		user, ok := sessions.Validate(c.Request.Context(), token)
		if !ok {
			apierrors.Unauthorized(c, "")
			return
		}

		// Bind the caller to both the request context and the gin context
		c.Request = c.Request.WithContext(auth.WithUser(c.Request.Context(), user))
		c.Set(constants.ContextKeyUser, user)
		c.Set(constants.ContextKeyUserID, user.ID)
		c.Next()
	}
}

// CurrentUser retrieves the authenticated user bound by RequireAuth
func CurrentUser(c *gin.Context) (*auth.User, bool) {
	if value, exists := c.Get(constants.ContextKeyUser); exists {
		if user, ok := value.(*auth.User); ok && user != nil {
			return user, true
		}
	}
	return auth.UserFromContext(c.Request.Context())
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		if user, ok := CurrentUser(c); ok {
			return user.ID, true
		}
		return 0, false
	}

	switch v := userID.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}
