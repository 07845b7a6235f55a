// file: internal/server/middleware/request_size_test.go
// version: 2.0.0
// guid: 8f5ed221-2f04-49aa-86f7-f63fa1732b2d

package middleware

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func bodyRouter(limit int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(MaxRequestBodySize(limit))
	router.PUT("/notes", func(c *gin.Context) {
		if _, err := io.ReadAll(c.Request.Body); err != nil {
			if IsBodyTooLarge(err) {
				RejectBodyTooLarge(c, BodyLimit(c))
				return
			}
			c.Status(http.StatusBadRequest)
			return
		}
		c.Status(http.StatusOK)
	})
	router.GET("/notes", func(c *gin.Context) { c.Status(http.StatusOK) })
	return router
}

func TestIsBodyTooLarge(t *testing.T) {
	t.Parallel()

	assert.True(t, IsBodyTooLarge(&http.MaxBytesError{Limit: 4}))
	assert.False(t, IsBodyTooLarge(errors.New("boom")))
	assert.False(t, IsBodyTooLarge(nil))
}

func TestMaxRequestBodySize_DeclaredLength(t *testing.T) {
	t.Parallel()

	router := bodyRouter(8)
	req := httptest.NewRequest(http.MethodPut, "/notes", bytes.NewReader(bytes.Repeat([]byte("a"), 9)))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Contains(t, w.Body.String(), "BODY_TOO_LARGE")
}

func TestMaxRequestBodySize_UnknownLength(t *testing.T) {
	t.Parallel()

	router := bodyRouter(8)
	req := httptest.NewRequest(http.MethodPut, "/notes", bytes.NewReader(bytes.Repeat([]byte("b"), 12)))
	req.ContentLength = -1
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestMaxRequestBodySize_WithinLimit(t *testing.T) {
	t.Parallel()

	router := bodyRouter(8)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/notes", bytes.NewReader([]byte("ok"))))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/notes", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMaxRequestBodySize_DefaultLimit(t *testing.T) {
	t.Parallel()

	router := bodyRouter(0)
	req := httptest.NewRequest(http.MethodPut, "/notes", bytes.NewReader(make([]byte, DefaultBodyLimit+1)))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}
