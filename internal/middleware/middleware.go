package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"tidal-service/internal/session"
)

const (
	RequestIDHeader = "X-Request-ID"

	requestIDKey = "request_id"
	loggerKey    = "logger"
	providerKey  = "session_provider"
)

var ErrNoSessionProvider = errors.New("no session provider configured")

// Acquirer hands out the current catalog session.
type Acquirer interface {
	Acquire(ctx context.Context) (session.Catalog, error)
}

// RequestID tags every request with an id, reusing the caller's
// X-Request-ID when present.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// Logger stores a request-scoped logger in the context and logs each
// request once it completes.
func Logger(logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		reqLogger := logger.With("request_id", c.GetString(requestIDKey))
		c.Set(loggerKey, reqLogger)

		c.Next()

		status := c.Writer.Status()
		kv := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency", time.Since(start),
		}
		switch {
		case status >= http.StatusInternalServerError:
			reqLogger.Error("request", kv...)
		case status >= http.StatusBadRequest:
			reqLogger.Warn("request", kv...)
		default:
			reqLogger.Info("request", kv...)
		}
	}
}

// Recovery turns a panic into a 500 with a generic body.
func Recovery(logger *log.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		GetLogger(c, logger).Error("panic in handler", "path", c.Request.URL.Path, "panic", recovered)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	})
}

// Session makes provider available to handlers through GetCatalog.
func Session(provider Acquirer) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(providerKey, provider)
		c.Next()
	}
}

// GetCatalog acquires the catalog session for this request.
func GetCatalog(c *gin.Context) (session.Catalog, error) {
	v, exists := c.Get(providerKey)
	if !exists {
		return nil, ErrNoSessionProvider
	}
	provider, ok := v.(Acquirer)
	if !ok {
		return nil, ErrNoSessionProvider
	}
	return provider.Acquire(c.Request.Context())
}

// GetLogger returns the request-scoped logger, or fallback outside Logger.
func GetLogger(c *gin.Context, fallback *log.Logger) *log.Logger {
	if v, exists := c.Get(loggerKey); exists {
		if l, ok := v.(*log.Logger); ok {
			return l
		}
	}
	return fallback
}
