package utils

import (
	"encoding/base64"
	"math"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/familytree-api/internal/constants"
)

func TestGenerateSessionToken(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		token, err := GenerateSessionToken()
		require.NoError(t, err)

		raw, err := base64.RawURLEncoding.DecodeString(token)
		require.NoError(t, err)
		assert.Len(t, raw, constants.SessionTokenBytes)

		_, dup := seen[token]
		require.False(t, dup, "token generated twice")
		seen[token] = struct{}{}
	}
}

func TestGetPaginationParams(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		query      string
		wantPage   int
		wantLimit  int
		wantOffset int
	}{
		{"", 1, constants.DefaultPageSize, 0},
		{"page=3&limit=10", 3, 10, 20},
		{"page=0&limit=0", 1, constants.DefaultPageSize, 0},
		{"page=abc&limit=100000", 1, constants.MaxPageSize, 0},
		{"page=2&limit=xyz", 2, constants.DefaultPageSize, constants.DefaultPageSize},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/api/people?"+tt.query, nil)

			params := GetPaginationParams(c)
			assert.Equal(t, tt.wantPage, params.Page)
			assert.Equal(t, tt.wantLimit, params.Limit)
			assert.Equal(t, tt.wantOffset, params.Offset)
		})
	}
}

func TestPaginationParams_Response(t *testing.T) {
	tests := []struct {
		page, limit int
		total       int64
		wantPages   int64
	}{
		{1, 10, 0, 0},
		{1, 10, 10, 1},
		{2, 10, 11, 2},
		{1, 3, 7, 3},
	}

	for _, tt := range tests {
		resp := NewPaginationParams(tt.page, tt.limit).Response(tt.total)
		assert.Equal(t, tt.page, resp.Page)
		assert.Equal(t, tt.limit, resp.Limit)
		assert.Equal(t, tt.total, resp.Total)
		assert.Equal(t, tt.wantPages, resp.TotalPages)
	}
}

func TestNewPaginationParams_HugePageKeepsOffsetPositive(t *testing.T) {
	for _, limit := range []int{1, 7, constants.MaxPageSize} {
		p := NewPaginationParams(math.MaxInt, limit)
		assert.Positive(t, p.Offset)
		assert.Equal(t, (p.Page-1)*p.Limit, p.Offset)
		assert.Equal(t, math.MaxInt/limit+1, p.Page)
	}

	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/?page="+strconv.Itoa(math.MaxInt)+"&limit=50", nil)
	p := GetPaginationParams(c)
	assert.Positive(t, p.Offset)
}
