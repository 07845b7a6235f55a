// file: internal/server/logger.go
// version: 3.0.0
// guid: 1d2e3f4a-5b6c-7d8e-9f0a-1b2c3d4e5f6a

package server

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// levelFor maps an HTTP status onto a log level.
func levelFor(status int, ok zerolog.Level) zerolog.Level {
	switch {
	case status >= 500:
		return zerolog.ErrorLevel
	case status >= 400:
		return zerolog.WarnLevel
	default:
		return ok
	}
}

// OperationLogger carries handler context through one request. Fields added
// with SetResourceID and AddDetail appear on every later line.
type OperationLogger struct {
	logger  zerolog.Logger
	started time.Time
}

// NewOperationLogger starts an operation for handler.
func NewOperationLogger(handler, method, path, requestID string) *OperationLogger {
	return &OperationLogger{
		logger: log.With().
			Str("handler", handler).
			Str("method", method).
			Str("path", path).
			Str("request_id", requestID).
			Logger(),
		started: time.Now(),
	}
}

// SetResourceID records the condition id being operated on.
func (ol *OperationLogger) SetResourceID(id string) {
	if id == "" {
		return
	}
	ol.logger = ol.logger.With().Str("resource", id).Logger()
}

// AddDetail attaches a field to the following lines.
func (ol *OperationLogger) AddDetail(key string, value any) {
	ol.logger = ol.logger.With().Interface(key, value).Logger()
}

// LogStart logs at debug level that the handler began.
func (ol *OperationLogger) LogStart() {
	ol.logger.Debug().Msg("operation started")
}

// LogSuccess logs the completed operation.
func (ol *OperationLogger) LogSuccess(statusCode int) {
	ol.logger.Info().
		Int("status", statusCode).
		Dur("duration", time.Since(ol.started)).
		Msg("operation succeeded")
}

// LogError logs a failed operation; 5xx at error level, otherwise warn.
func (ol *OperationLogger) LogError(statusCode int, err error) {
	ol.logger.WithLevel(levelFor(statusCode, zerolog.WarnLevel)).
		Err(err).
		Int("status", statusCode).
		Dur("duration", time.Since(ol.started)).
		Msg("operation failed")
}

// ServiceLogger tags background work such as catalog reloads.
type ServiceLogger struct {
	logger zerolog.Logger
}

// NewServiceLogger returns a logger for service. requestID may be empty.
func NewServiceLogger(service, requestID string) *ServiceLogger {
	ctx := log.With().Str("service", service)
	if requestID != "" {
		ctx = ctx.Str("request_id", requestID)
	}
	return &ServiceLogger{logger: ctx.Logger()}
}

// LogOperation logs operation with details at debug level.
func (sl *ServiceLogger) LogOperation(operation string, details map[string]any) {
	sl.logger.Debug().Str("operation", operation).Fields(details).Msg("service operation")
}

// LogError logs a failed operation.
func (sl *ServiceLogger) LogError(operation string, err error) {
	sl.logger.Error().Err(err).Str("operation", operation).Msg("service operation failed")
}

// RequestLogger writes the access log line for one request.
type RequestLogger struct {
	logger  zerolog.Logger
	started time.Time
}

// NewRequestLogger captures the request fields when the request arrives.
func NewRequestLogger(requestID, clientIP, userAgent, method, path string) *RequestLogger {
	return &RequestLogger{
		logger: log.With().
			Str("method", method).
			Str("path", path).
			Str("ip", clientIP).
			Str("agent", userAgent).
			Str("request_id", requestID).
			Logger(),
		started: time.Now(),
	}
}

// LogResponse logs status, size and latency.
func (rl *RequestLogger) LogResponse(statusCode int, responseSize int) {
	rl.logger.WithLevel(levelFor(statusCode, zerolog.InfoLevel)).
		Int("status", statusCode).
		Int("bytes", responseSize).
		Dur("duration", time.Since(rl.started)).
		Msg("request")
}

// LogServiceCacheHit logs a service cache hit
func LogServiceCacheHit(serviceName string, key string) {
	log.Debug().Str("service", serviceName).Str("key", key).Msg("cache hit")
}

// LogServiceCacheMiss logs a service cache miss
func LogServiceCacheMiss(serviceName string, key string) {
	log.Debug().Str("service", serviceName).Str("key", key).Msg("cache miss")
}
