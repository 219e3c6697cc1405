package transport

import (
	"context"
	"errors"
	"net/http"
	"time"

	apperrors "go-image-stats/internal/errors"
	"go-image-stats/internal/logger"
	"go-image-stats/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"

	// statusClientClosedRequest is nginx's code for a client that went away
	// before the response was written.
	statusClientClosedRequest = 499
)

// requestID reuses the caller's X-Request-ID or assigns a new one.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := logger.WithFields(logrus.Fields{
			"request_id":  c.GetString(requestIDKey),
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      c.Writer.Status(),
			"duration_ms": time.Since(start).Milliseconds(),
			"ip":          c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		})
		if c.Writer.Status() >= http.StatusInternalServerError {
			entry.Warn("Request handled")
			return
		}
		entry.Info("Request handled")
	}
}

// Middleware and helper functions
func requestSizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

func errorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 && !c.Writer.Written() {
			err := c.Errors.Last().Err
			respondError(c, determineStatusCode(err), "request processing failed", err)
		}
	}
}

func determineStatusCode(err error) int {
	// Check if it's a custom app error first
	if appErr, ok := apperrors.As(err); ok {
		return appErr.StatusCode
	}

	// Fallback to context-based errors
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return statusClientClosedRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondAppError answers with the status and type carried by err.
func respondAppError(c *gin.Context, err error) {
	respondError(c, determineStatusCode(err), "", err)
}

func respondError(c *gin.Context, code int, message string, err error) {
	resp := models.ErrorResponse{
		Error:     http.StatusText(code),
		RequestID: c.GetString(requestIDKey),
	}
	if code == statusClientClosedRequest {
		resp.Error = "Client Closed Request"
	}
	if appErr, ok := apperrors.As(err); ok {
		resp.Type = string(appErr.Type)
		resp.Message = appErr.Message
		resp.Details = appErr.Details
	} else if err != nil {
		resp.Type = string(apperrors.ErrorTypeValidation)
		resp.Message = message
		resp.Details = err.Error()
		if code >= http.StatusInternalServerError {
			resp.Type = string(apperrors.ErrorTypeInternal)
			resp.Details = ""
		}
	}

	// Log the error with context
	entry := logger.WithError(err).WithFields(logrus.Fields{
		"status_code": code,
		"type":        resp.Type,
		"path":        c.Request.URL.Path,
		"method":      c.Request.Method,
		"request_id":  resp.RequestID,
	})
	if code >= http.StatusInternalServerError {
		entry.Error("Request failed")
	} else {
		entry.Warn("Request rejected")
	}

	c.AbortWithStatusJSON(code, resp)
}
