package handler

import (
	"errors"
	"net/http"

	"github.com/abdusco/shortlinks/internal"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// Result is the body of every mutating endpoint, successful or not.
type Result struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Shortlink string `json:"shortlink,omitempty"`
}

// ErrorHandler renders every error as a Result.
func ErrorHandler(err error, c echo.Context) {
	code := http.StatusInternalServerError
	message := "internal server error"

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		code = httpErr.Code
		if msg, ok := httpErr.Message.(string); ok {
			message = msg
		} else {
			message = http.StatusText(code)
		}
	}

	event := log.Warn()
	if code >= http.StatusInternalServerError {
		event = log.Error()
	}
	event.
		Int("code", code).
		Str("method", c.Request().Method).
		Str("path", c.Request().URL.Path).
		Err(err).
		Msg("http error")

	if c.Response().Committed {
		return
	}

	if c.Request().Method == http.MethodHead {
		c.NoContent(code)
		return
	}
	c.JSON(code, Result{Success: false, Message: message})
}

// httpError translates engine errors into status codes.
func httpError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, internal.ErrInvalidInput):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, internal.ErrShortlinkExists),
		errors.Is(err, internal.ErrGenerationExhausted):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, internal.ErrLinkNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Not found!")
	case errors.Is(err, internal.ErrStorageUnavailable):
		return echo.NewHTTPError(http.StatusServiceUnavailable, internal.ErrStorageUnavailable.Error()).SetInternal(err)
	}
	return echo.NewHTTPError(http.StatusInternalServerError, "internal server error").SetInternal(err)
}
