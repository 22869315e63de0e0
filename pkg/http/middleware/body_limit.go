package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/bytes"
)

// BodyLimit rejects requests whose declared length exceeds limit ("2M", "512K")
// and caps reads for the rest. An unparsable limit disables the check.
func BodyLimit(limit string) echo.MiddlewareFunc {
	maxBytes, err := bytes.Parse(limit)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if err != nil || maxBytes <= 0 {
			return next
		}
		return func(c echo.Context) error {
			req := c.Request()
			if req.ContentLength > maxBytes {
				return echo.ErrStatusRequestEntityTooLarge
			}
			req.Body = http.MaxBytesReader(c.Response(), req.Body, maxBytes)
			return next(c)
		}
	}
}
