package middleware

import (
	"time"

	"stocksense/pkg/logger"

	"github.com/labstack/echo/v4"
)

// NewRequestLogger logs one line per request through the zap logger.
func NewRequestLogger(log *logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			fields := []logger.Field{
				logger.StringField("method", req.Method),
				logger.StringField("path", c.Path()),
				logger.StringField("uri", req.RequestURI),
				logger.IntField("status", c.Response().Status),
				logger.DurationField("latency", time.Since(start)),
				logger.StringField("remote_ip", c.RealIP()),
			}
			if err != nil {
				fields = append(fields, logger.ErrorField(err))
			}

			status := c.Response().Status
			switch {
			case status >= 500:
				log.ErrorContext(req.Context(), "http request", fields...)
			case status >= 400:
				log.WarnContext(req.Context(), "http request", fields...)
			default:
				log.DebugContext(req.Context(), "http request", fields...)
			}
			return nil
		}
	}
}
