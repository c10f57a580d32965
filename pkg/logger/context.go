package logger

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// RequestIDKey is both the header and the echo.Context key carrying the request ID
const RequestIDKey = "X-Request-ID"

const loggerKey = "logger"

// RequestID returns the request ID stored by the request ID middleware,
// falling back to the incoming header and then to "unknown"
func RequestID(c echo.Context) string {
	if requestID, ok := c.Get(RequestIDKey).(string); ok && requestID != "" {
		return requestID
	}
	if requestID := c.Request().Header.Get(RequestIDKey); requestID != "" {
		return requestID
	}
	return "unknown"
}

// Attach stores the request ID and a logger tagged with it on the context
func Attach(c echo.Context, requestID string) *zap.Logger {
	c.Set(RequestIDKey, requestID)
	log := GetLogger().With(zap.String("request_id", requestID))
	c.Set(loggerKey, log)
	return log
}

// FromContext retrieves the request-scoped logger, building one from the request ID if the
// middleware has not run
func FromContext(c echo.Context) *zap.Logger {
	if log, ok := c.Get(loggerKey).(*zap.Logger); ok {
		return log
	}
	return GetLogger().With(zap.String("request_id", RequestID(c)))
}
