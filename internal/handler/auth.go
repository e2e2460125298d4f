package handler

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/abdusco/shortlinks/internal/auth"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

type AuthHandler struct {
	gate *auth.Gate
}

func NewAuthHandler(gate *auth.Gate) *AuthHandler {
	return &AuthHandler{gate: gate}
}

const maxPasswordBytes = 4096

type loginRequest struct {
	Password string `json:"password" form:"password"`
}

// Login handles POST /api/login and sets the session cookie. The password is
// read from a JSON or form body, or taken as the whole raw body otherwise.
func (h *AuthHandler) Login(c echo.Context) error {
	password, err := readPassword(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request")
	}

	token, err := h.gate.Login(password)
	if errors.Is(err, auth.ErrWrongPassword) {
		log.Warn().Str("ip", c.RealIP()).Msg("wrong password")
		return echo.NewHTTPError(http.StatusUnauthorized, "Wrong password!")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to create session").SetInternal(err)
	}

	c.SetCookie(auth.NewCookie(token, c.IsTLS()))
	return c.JSON(http.StatusOK, Result{Success: true, Message: "Correct password!"})
}

// Logout handles DELETE /api/logout and invalidates the caller's session.
func (h *AuthHandler) Logout(c echo.Context) error {
	if !h.gate.Logout(auth.SessionToken(c)) {
		return echo.NewHTTPError(http.StatusUnauthorized, "You don't seem to be logged in.")
	}

	c.SetCookie(auth.ExpireCookie())
	return c.JSON(http.StatusOK, Result{Success: true, Message: "Logged out!"})
}

func readPassword(c echo.Context) (string, error) {
	ctype := c.Request().Header.Get(echo.HeaderContentType)
	if strings.HasPrefix(ctype, echo.MIMEApplicationJSON) || strings.HasPrefix(ctype, echo.MIMEApplicationForm) {
		var req loginRequest
		if err := c.Bind(&req); err != nil {
			return "", err
		}
		return req.Password, nil
	}

	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxPasswordBytes))
	if err != nil {
		return "", err
	}
	return string(body), nil
}
