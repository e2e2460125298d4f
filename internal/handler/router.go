package handler

import (
	"github.com/abdusco/shortlinks/internal/auth"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"
)

type Deps struct {
	Engine            LinkEngine
	Gate              *auth.Gate
	PermanentRedirect bool
	SiteURL           string
	Version           string
}

// NewServer wires every route. First path segments used here must stay in
// links.ReservedShortlinks.
func NewServer(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = ErrorHandler

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Info().
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.Gzip())

	requireSession := auth.RequireSession(deps.Gate)
	requireCreator := auth.RequireCreator(deps.Gate)

	linkHandler := NewLinkHandler(deps.Engine, deps.PermanentRedirect)
	authHandler := NewAuthHandler(deps.Gate)
	metaHandler := NewMetaHandler(deps.SiteURL, deps.Version)

	api := e.Group("/api")
	api.POST("/new", linkHandler.CreateLink, requireCreator)
	api.GET("/all", linkHandler.ListLinks, requireSession)
	api.POST("/edit/:shortlink", linkHandler.EditLink, requireSession)
	api.DELETE("/del/:shortlink", linkHandler.DeleteLink, requireSession)
	api.POST("/login", authHandler.Login)
	api.DELETE("/logout", authHandler.Logout)
	api.GET("/siteurl", metaHandler.SiteURL)
	api.GET("/version", metaHandler.Version)

	e.GET("/health", metaHandler.Health)

	// Parameterized route (must be last)
	e.GET("/:shortlink", linkHandler.Redirect)

	return e
}
