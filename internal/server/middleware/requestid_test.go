// file: internal/server/middleware/requestid_test.go
// version: 1.0.0
// guid: a0f4d6b2-7e31-4c85-9d1a-2b8e5f3c6a70

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	ulid "github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requestIDRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID())
	router.GET("/id", func(c *gin.Context) {
		c.String(http.StatusOK, GetRequestID(c))
	})
	return router
}

func TestRequestID_Generated(t *testing.T) {
	t.Parallel()

	resp := httptest.NewRecorder()
	requestIDRouter().ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/id", nil))

	id := resp.Header().Get(RequestIDHeader)
	require.NotEmpty(t, id)
	assert.Equal(t, id, resp.Body.String())
	_, err := ulid.ParseStrict(id)
	assert.NoError(t, err)
}

func TestRequestID_KeepsCallerID(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/id", nil)
	req.Header.Set(RequestIDHeader, "trace-123")
	resp := httptest.NewRecorder()
	requestIDRouter().ServeHTTP(resp, req)
	assert.Equal(t, "trace-123", resp.Body.String())
}

func TestRequestID_ReplacesOversizedID(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/id", nil)
	req.Header.Set(RequestIDHeader, strings.Repeat("x", maxRequestIDLen+1))
	resp := httptest.NewRecorder()
	requestIDRouter().ServeHTTP(resp, req)
	assert.Len(t, resp.Body.String(), 26)
}
