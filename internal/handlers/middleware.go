package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	requestIdHeaderKey  = "X-Request-ID"
	requestIdContextKey = "requestId"
	unmatchedRoute      = "unmatched"
)

type HTTPObserver interface {
	ObserveHTTP(route, method string, status int)
}

// RequestIdMiddleware propagates X-Request-ID, generating one when absent.
func RequestIdMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestId := c.GetHeader(requestIdHeaderKey)
		if requestId == "" {
			requestId = uuid.NewString()
		}
		c.Set(requestIdContextKey, requestId)
		c.Header(requestIdHeaderKey, requestId)
		c.Next()
	}
}

func AccessLogMiddleware(logger *zap.Logger, observer HTTPObserver) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		status := c.Writer.Status()

		fields := []zap.Field{
			zap.String("requestId", c.GetString(requestIdContextKey)),
			zap.String("method", c.Request.Method),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("clientIp", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		if status >= 500 {
			logger.Error("request", fields...)
		} else {
			logger.Info("request", fields...)
		}

		if observer != nil {
			observer.ObserveHTTP(route, c.Request.Method, status)
		}
	}
}
