package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/familytree-api/internal/constants"
	apierrors "github.com/yukikurage/familytree-api/internal/errors"
	"github.com/yukikurage/familytree-api/internal/services"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decodeAPIError(t *testing.T, w *httptest.ResponseRecorder) apierrors.APIError {
	t.Helper()

	var body struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details *struct {
			Field string `json:"field"`
		} `json:"details"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	apiErr := apierrors.APIError{Code: body.Code, Message: body.Message}
	if body.Details != nil {
		apiErr.Details = apierrors.FieldDetails{Field: body.Details.Field}
	}
	return apiErr
}

func TestRespondError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantField  string
	}{
		{"field error", &services.FieldError{Field: "title", Message: "title is required"}, http.StatusBadRequest, apierrors.ErrCodeInvalidInput, "title"},
		{"short password", fmt.Errorf("%w: must be at least 6 characters", services.ErrPasswordTooShort), http.StatusBadRequest, apierrors.ErrCodeInvalidInput, "password"},
		{"self relationship", services.ErrSelfRelationship, http.StatusBadRequest, apierrors.ErrCodeInvalidInput, "person2_id"},
		{"relation type", services.ErrInvalidRelationType, http.StatusBadRequest, apierrors.ErrCodeInvalidInput, "type"},
		{"bad photo", services.ErrInvalidPhoto, http.StatusBadRequest, apierrors.ErrCodeInvalidInput, "photo"},
		{"nothing to update", services.ErrNoFieldsToUpdate, http.StatusBadRequest, apierrors.ErrCodeInvalidInput, ""},
		{"credentials", services.ErrInvalidCredentials, http.StatusUnauthorized, apierrors.ErrCodeUnauthorized, ""},
		{"username taken", services.ErrUsernameTaken, http.StatusConflict, apierrors.ErrCodeConflict, ""},
		{"email taken", services.ErrEmailTaken, http.StatusConflict, apierrors.ErrCodeConflict, ""},
		{"duplicate key", fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey), http.StatusConflict, apierrors.ErrCodeConflict, ""},
		{"person", services.ErrPersonNotFound, http.StatusNotFound, apierrors.ErrCodeNotFound, ""},
		{"relationship", services.ErrRelationshipNotFound, http.StatusNotFound, apierrors.ErrCodeNotFound, ""},
		{"event", services.ErrEventNotFound, http.StatusNotFound, apierrors.ErrCodeNotFound, ""},
		{"related people", services.ErrRelatedPeopleNotFound, http.StatusNotFound, apierrors.ErrCodeNotFound, ""},
		{"creator", services.ErrCreatorNotFound, http.StatusNotFound, apierrors.ErrCodeNotFound, ""},
		{"photo", services.ErrPhotoNotFound, http.StatusNotFound, apierrors.ErrCodeNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			respondError(c, zap.NewNop(), tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			apiErr := decodeAPIError(t, w)
			assert.Equal(t, tt.wantCode, apiErr.Code)
			if tt.wantField != "" {
				assert.Equal(t, apierrors.FieldDetails{Field: tt.wantField}, apiErr.Details)
			}
		})
	}
}

func TestRespondError_InternalErrorIsSanitised(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/people", nil)

	respondError(c, zap.New(core), errors.New("dial tcp 10.0.0.5:5432: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "10.0.0.5")
	apiErr := decodeAPIError(t, w)
	assert.Equal(t, apierrors.ErrCodeInternalError, apiErr.Code)
	assert.Equal(t, apierrors.MessageInternalError, apiErr.Message)

	require.Equal(t, 1, logs.Len())
	assert.Contains(t, logs.All()[0].ContextMap()["error"], "connection refused")
}

func TestBindJSON(t *testing.T) {
	type request struct {
		Title     string   `json:"title" binding:"required"`
		CreatedBy uint64   `json:"created_by" binding:"required"`
		PlaceLat  *float64 `json:"place_lat" binding:"omitempty,gte=-90,lte=90"`
	}

	r := gin.New()
	r.POST("/bind", func(c *gin.Context) {
		var req request
		if !bindJSON(c, &req) {
			return
		}
		c.JSON(http.StatusOK, req)
	})

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   string
		wantField  string
	}{
		{"valid", `{"title":"Wedding","created_by":1}`, http.StatusOK, "", ""},
		{"missing title", `{"created_by":1}`, http.StatusBadRequest, apierrors.ErrCodeMissingField, "title"},
		{"missing creator", `{"title":"Wedding"}`, http.StatusBadRequest, apierrors.ErrCodeMissingField, "created_by"},
		{"latitude out of range", `{"title":"Wedding","created_by":1,"place_lat":91}`, http.StatusBadRequest, apierrors.ErrCodeInvalidInput, "place_lat"},
		{"wrong type", `{"title":"Wedding","created_by":"one"}`, http.StatusBadRequest, apierrors.ErrCodeInvalidInput, "created_by"},
		{"malformed", `{"title":`, http.StatusBadRequest, apierrors.ErrCodeInvalidInput, ""},
		{"empty body", ``, http.StatusBadRequest, apierrors.ErrCodeInvalidInput, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/bind", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			if tt.wantStatus == http.StatusOK {
				return
			}
			apiErr := decodeAPIError(t, w)
			assert.Equal(t, tt.wantCode, apiErr.Code)
			if tt.wantField != "" {
				assert.Equal(t, apierrors.FieldDetails{Field: tt.wantField}, apiErr.Details)
			}
		})
	}
}

func TestParseID(t *testing.T) {
	r := gin.New()
	r.GET("/items/:id", func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": id})
	})

	for path, want := range map[string]int{
		"/items/42":  http.StatusOK,
		"/items/0":   http.StatusBadRequest,
		"/items/-1":  http.StatusBadRequest,
		"/items/abc": http.StatusBadRequest,
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, want, w.Code, path)
	}
}

func multipartBody(t *testing.T, field, filename string, data []byte) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	part, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}

func TestReadUpload(t *testing.T) {
	r := gin.New()
	r.POST("/upload", func(c *gin.Context) {
		name, data, ok := readUpload(c, 1024)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{"name": name, "size": len(data)})
	})

	t.Run("accepted", func(t *testing.T) {
		body, contentType := multipartBody(t, constants.PhotoFormField, "me.png", []byte("tiny"))
		req := httptest.NewRequest(http.MethodPost, "/upload", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"name":"me.png","size":4}`, w.Body.String())
	})

	t.Run("wrong field", func(t *testing.T) {
		body, contentType := multipartBody(t, "file", "me.png", []byte("tiny"))
		req := httptest.NewRequest(http.MethodPost, "/upload", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, apierrors.FieldDetails{Field: constants.PhotoFormField}, decodeAPIError(t, w).Details)
	})

	t.Run("too large", func(t *testing.T) {
		body, contentType := multipartBody(t, constants.PhotoFormField, "me.png", bytes.Repeat([]byte("x"), 4096))
		req := httptest.NewRequest(http.MethodPost, "/upload", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
