package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/yukikurage/familytree-api/internal/constants"
	apierrors "github.com/yukikurage/familytree-api/internal/errors"
	"github.com/yukikurage/familytree-api/internal/middleware"
	"github.com/yukikurage/familytree-api/internal/services"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var jsonFieldNamesOnce sync.Once

// useJSONFieldNames makes validation errors report the JSON name of a field
// instead of its Go name.
func useJSONFieldNames() {
	jsonFieldNamesOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
}

// bindJSON decodes the request body into req. On failure it writes a 400
// naming the offending field when one is known.
func bindJSON(c *gin.Context, req interface{}) bool {
	useJSONFieldNames()

	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		if fe.Tag() == "required" {
			apierrors.MissingField(c, fe.Field())
			return false
		}
		apierrors.InvalidField(c, fe.Field(), validationMessage(fe))
		return false
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		apierrors.InvalidField(c, typeErr.Field, fmt.Sprintf("%s has an invalid type", typeErr.Field))
		return false
	}

	apierrors.BadRequest(c, "Invalid request body")
	return false
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "min", "max", "gte", "lte":
		return fmt.Sprintf("%s is out of range", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

// parseID reads a positive numeric path parameter.
func parseID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		apierrors.InvalidField(c, name, fmt.Sprintf("Invalid %s", name))
		return 0, false
	}
	return id, true
}

// requireUserID returns the authenticated caller. RequireAuth guarantees it
// is present on every route that calls this.
func requireUserID(c *gin.Context) (uint64, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return 0, false
	}
	return userID, true
}

// readUpload reads the photo form field, capped at maxBytes.
func readUpload(c *gin.Context, maxBytes int64) (string, []byte, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)

	file, header, err := c.Request.FormFile(constants.PhotoFormField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			apierrors.InvalidField(c, constants.PhotoFormField, "photo is too large")
			return "", nil, false
		}
		apierrors.InvalidField(c, constants.PhotoFormField, "photo file is required")
		return "", nil, false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		apierrors.InvalidField(c, constants.PhotoFormField, "photo could not be read")
		return "", nil, false
	}
	if header.Filename == "" || len(data) == 0 {
		apierrors.InvalidField(c, constants.PhotoFormField, "photo file is required")
		return "", nil, false
	}
	return header.Filename, data, true
}

// respondError maps a service error to its HTTP response. Unknown errors are
// logged and answered with the fixed internal error message.
func respondError(c *gin.Context, log *zap.Logger, err error) {
	var fieldErr *services.FieldError
	if errors.As(err, &fieldErr) {
		apierrors.InvalidField(c, fieldErr.Field, fieldErr.Message)
		return
	}

	switch {
	case errors.Is(err, services.ErrPasswordTooShort):
		apierrors.InvalidField(c, "password", err.Error())
	case errors.Is(err, services.ErrSelfRelationship):
		apierrors.InvalidField(c, "person2_id", err.Error())
	case errors.Is(err, services.ErrInvalidRelationType):
		apierrors.InvalidField(c, "type", err.Error())
	case errors.Is(err, services.ErrInvalidPhoto):
		apierrors.InvalidField(c, constants.PhotoFormField, err.Error())
	case errors.Is(err, services.ErrNoFieldsToUpdate):
		apierrors.BadRequest(c, err.Error())

	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.Unauthorized(c, err.Error())

	case errors.Is(err, services.ErrUsernameTaken),
		errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrAccountExists):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, gorm.ErrDuplicatedKey):
		apierrors.Conflict(c, "")

	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrPersonNotFound),
		errors.Is(err, services.ErrRelationshipNotFound),
		errors.Is(err, services.ErrEventNotFound),
		errors.Is(err, services.ErrRelatedPeopleNotFound),
		errors.Is(err, services.ErrCreatorNotFound),
		errors.Is(err, services.ErrPhotoNotFound):
		apierrors.NotFound(c, err.Error())

	default:
		log.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		apierrors.InternalError(c)
	}
}
