package auth

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

const (
	msgNotLoggedIn = "Not logged in!"
	msgPublicMode  = "Using public mode."
)

type authStrategy func(c echo.Context) bool

// RequireSession lets through callers holding a valid session, either as a
// cookie or as HTTP basic auth carrying the password.
func RequireSession(gate *Gate) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if gate.authenticate(c, gate.CanList) {
				return next(c)
			}

			msg := msgNotLoggedIn
			if gate.PublicMode() {
				msg = msgPublicMode
			}
			return echo.NewHTTPError(http.StatusUnauthorized, msg)
		}
	}
}

// RequireCreator is RequireSession with the public mode exemption.
func RequireCreator(gate *Gate) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if gate.authenticate(c, gate.CanCreate) {
				return next(c)
			}
			return echo.NewHTTPError(http.StatusUnauthorized, msgNotLoggedIn)
		}
	}
}

func (g *Gate) authenticate(c echo.Context, allow func(token string) bool) bool {
	strategies := []authStrategy{
		func(c echo.Context) bool { return allow(SessionToken(c)) },
		g.authWithBasicAuth,
	}

	for _, strategy := range strategies {
		if strategy(c) {
			return true
		}
	}
	return false
}

func (g *Gate) authWithBasicAuth(c echo.Context) bool {
	_, password, ok := c.Request().BasicAuth()
	if !ok {
		return false
	}

	token, err := g.Login(password)
	if err != nil {
		return false
	}

	c.SetCookie(NewCookie(token, c.IsTLS()))
	log.Debug().Msg("session issued from basic auth")
	return true
}

// SessionToken returns the token carried by the session cookie, if any.
func SessionToken(c echo.Context) string {
	cookie, err := c.Cookie(cookieName)
	if err != nil || cookie == nil {
		return ""
	}
	return cookie.Value
}

func NewCookie(token string, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     cookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(tokenExpiry / time.Second),
	}
}

func ExpireCookie() *http.Cookie {
	return &http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
	}
}
