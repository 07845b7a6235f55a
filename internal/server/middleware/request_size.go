// file: internal/server/middleware/request_size.go
// version: 2.0.0
// guid: f2129ae7-cf11-4888-bd4f-ab4b578f8f18

package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// DefaultBodyLimit applies when no positive limit is configured.
const DefaultBodyLimit int64 = 1 << 20

// IsBodyTooLarge reports whether err came from reading past the body limit.
func IsBodyTooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe)
}

// RejectBodyTooLarge aborts c with a 413 error body.
func RejectBodyTooLarge(c *gin.Context, limit int64) {
	log.Warn().
		Str("path", c.Request.URL.Path).
		Int64("content_length", c.Request.ContentLength).
		Int64("limit", limit).
		Str("request_id", GetRequestID(c)).
		Msg("request body too large")
	c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{
		"error":  "request body too large",
		"code":   "BODY_TOO_LARGE",
		"status": http.StatusRequestEntityTooLarge,
	})
}

// MaxRequestBodySize caps request bodies. A declared Content-Length over the
// limit is rejected up front; bodies of unknown length fail while reading.
// GET, HEAD and DELETE pass through untouched.
func MaxRequestBodySize(limit int64) gin.HandlerFunc {
	if limit < 1 {
		limit = DefaultBodyLimit
	}

	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodDelete, http.MethodOptions:
			c.Next()
			return
		}
		if c.Request.ContentLength > limit {
			RejectBodyTooLarge(c, limit)
			return
		}
		c.Set(bodyLimitKey, limit)
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}

const bodyLimitKey = "body_limit"

// BodyLimit returns the limit MaxRequestBodySize applied to c, 0 if none.
func BodyLimit(c *gin.Context) int64 {
	return c.GetInt64(bodyLimitKey)
}
