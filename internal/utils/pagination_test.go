// internal/utils/pagination_test.go
package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func paramsForQuery(t *testing.T, query string) PaginationParams {
	t.Helper()
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/v1/listings?"+query, nil)
	return GetPaginationParams(c)
}

func TestGetPaginationParamsDefaults(t *testing.T) {
	params := paramsForQuery(t, "")

	assert.Equal(t, 1, params.Page)
	assert.Equal(t, 20, params.Limit)
	assert.Equal(t, "created_at", params.Sort)
	assert.Equal(t, "desc", params.Order)
}

func TestGetPaginationParamsClamped(t *testing.T) {
	params := paramsForQuery(t, "page=-3&limit=5000&order=sideways")

	assert.Equal(t, 1, params.Page)
	assert.Equal(t, 20, params.Limit)
	assert.Equal(t, "desc", params.Order)
}

func TestGetPaginationParamsPassthrough(t *testing.T) {
	params := paramsForQuery(t, "page=3&limit=50&sort=price&order=asc&search=golang&category=programming")

	assert.Equal(t, 3, params.Page)
	assert.Equal(t, 50, params.Limit)
	assert.Equal(t, "price", params.Sort)
	assert.Equal(t, "asc", params.Order)
	assert.Equal(t, "golang", params.Search)
	assert.Equal(t, "programming", params.Category)
}

func TestCreatePaginationResult(t *testing.T) {
	params := PaginationParams{Page: 2, Limit: 10}
	result := CreatePaginationResult([]string{"a", "b"}, 25, params)

	assert.Equal(t, 2, result.Page)
	assert.Equal(t, int64(25), result.Total)
	assert.Equal(t, 3, result.TotalPages)
}

func TestSetPaginationHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	SetPaginationHeaders(c, PaginationResult{Page: 1, Limit: 20, Total: 42, TotalPages: 3})

	assert.Equal(t, "42", w.Header().Get("X-Total-Count"))
	assert.Equal(t, "1", w.Header().Get("X-Page"))
	assert.Equal(t, "20", w.Header().Get("X-Per-Page"))
	assert.Equal(t, "3", w.Header().Get("X-Total-Pages"))
}
