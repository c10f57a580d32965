package middleware

import (
	"goods-tracker/pkg/logger"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// RequestIDMiddleware adds a unique request ID to each request
func RequestIDMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		// Reuse the caller's request ID when one is supplied
		requestID := c.Request().Header.Get(logger.RequestIDKey)
		if requestID == "" {
			requestID = uuid.New().String()
			c.Request().Header.Set(logger.RequestIDKey, requestID)
		}

		// Echo it back to the client
		c.Response().Header().Set(logger.RequestIDKey, requestID)

		// Tag the request-scoped logger with it
		logger.Attach(c, requestID)

		return next(c)
	}
}
