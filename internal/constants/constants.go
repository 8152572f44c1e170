package constants

// Context keys
const (
	ContextKeyUserID = "user_id"
	ContextKeyUser   = "current_user"
)

// Authorization header handling
const (
	AuthorizationHeader = "Authorization"
	BearerPrefix        = "Bearer "
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 50
	MaxPageSize     = 200
)

// Validation limits
const (
	MinUsernameLength = 3
	MaxUsernameLength = 50
)

// Session tokens carry 32 random bytes.
const SessionTokenBytes = 32

// Photo uploads
const (
	PhotoFormField   = "photo"
	PhotoContentType = "image/jpeg"
)

// AllowedPhotoExtensions lists accepted upload file extensions.
var AllowedPhotoExtensions = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
}
