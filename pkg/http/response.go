package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// ErrorResponse writes err as {"error": ...}. AppError keeps its status and
// details; echo errors keep their status; anything else is a 500.
func ErrorResponse(c echo.Context, err error) error {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return c.JSON(appErr.Status, appErr.Body())
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return c.JSON(he.Code, map[string]interface{}{"error": http.StatusText(he.Code)})
	}
	return InternalServerErrorResponse(c)
}

// NotFoundResponse writes the generic 404 body.
func NotFoundResponse(c echo.Context) error {
	return ErrorResponse(c, NotFoundError(http.StatusText(http.StatusNotFound)))
}

// InternalServerErrorResponse writes internal server error.
func InternalServerErrorResponse(c echo.Context) error {
	return c.JSON(http.StatusInternalServerError, map[string]interface{}{
		"error": http.StatusText(http.StatusInternalServerError),
	})
}

// NoCache disables client and proxy caching for the response.
func NoCache(c echo.Context) {
	h := c.Response().Header()
	h.Set(echo.HeaderCacheControl, "no-cache, no-store, must-revalidate")
	h.Set("Pragma", "no-cache")
	h.Set("Expires", "0")
}
