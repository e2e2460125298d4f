package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/abdusco/shortlinks/internal"
	"github.com/abdusco/shortlinks/internal/links"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

type LinkEngine interface {
	AddLink(ctx context.Context, req links.Request) (string, error)
	GetLongURL(ctx context.Context, shortlink string) (string, error)
	RecordHit(ctx context.Context, shortlink string) error
	DeleteLink(ctx context.Context, shortlink string) (bool, error)
	EditLink(ctx context.Context, shortlink string, req links.Request) (bool, error)
	GetAll(ctx context.Context) ([]*internal.Link, error)
}

type LinkHandler struct {
	engine            LinkEngine
	permanentRedirect bool
}

func NewLinkHandler(engine LinkEngine, permanentRedirect bool) *LinkHandler {
	return &LinkHandler{
		engine:            engine,
		permanentRedirect: permanentRedirect,
	}
}

type LinkResponse struct {
	Shortlink string    `json:"shortlink"`
	Longlink  string    `json:"longlink"`
	Hits      int64     `json:"hits"`
	CreatedAt time.Time `json:"created_at"`
}

func (h *LinkHandler) CreateLink(c echo.Context) error {
	var req links.Request
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request")
	}

	shortlink, err := h.engine.AddLink(detached(c), req)
	if err != nil {
		log.Info().Err(err).Str("shortlink", req.Shortlink).Msg("link not created")
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, Result{
		Success:   true,
		Message:   fmt.Sprintf("Created %s", shortlink),
		Shortlink: shortlink,
	})
}

func (h *LinkHandler) ListLinks(c echo.Context) error {
	all, err := h.engine.GetAll(detached(c))
	if err != nil {
		return httpError(err)
	}

	resp := lo.Map(all, func(link *internal.Link, _ int) LinkResponse {
		return LinkResponse{
			Shortlink: link.Shortlink,
			Longlink:  link.Longlink,
			Hits:      link.Hits,
			CreatedAt: link.CreatedAt,
		}
	})

	return c.JSON(http.StatusOK, resp)
}

func (h *LinkHandler) EditLink(c echo.Context) error {
	shortlink := c.Param("shortlink")

	var req links.Request
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request")
	}

	updated, err := h.engine.EditLink(detached(c), shortlink, req)
	if err != nil {
		return httpError(err)
	}
	if !updated {
		return echo.NewHTTPError(http.StatusNotFound, "Not found!")
	}

	return c.JSON(http.StatusOK, Result{Success: true, Message: fmt.Sprintf("Edited %s", shortlink)})
}

func (h *LinkHandler) DeleteLink(c echo.Context) error {
	shortlink := c.Param("shortlink")

	deleted, err := h.engine.DeleteLink(detached(c), shortlink)
	if err != nil {
		return httpError(err)
	}
	if !deleted {
		return echo.NewHTTPError(http.StatusNotFound, "Not found!")
	}

	log.Info().Str("shortlink", shortlink).Msg("link deleted")
	return c.JSON(http.StatusOK, Result{Success: true, Message: fmt.Sprintf("Deleted %s", shortlink)})
}

func (h *LinkHandler) Redirect(c echo.Context) error {
	ctx := detached(c)
	shortlink := c.Param("shortlink")

	longlink, err := h.engine.GetLongURL(ctx, shortlink)
	if err != nil {
		return httpError(err)
	}

	if err := h.engine.RecordHit(ctx, shortlink); err != nil {
		log.Error().Err(err).Str("shortlink", shortlink).Msg("failed to record hit")
	}

	log.Debug().Str("shortlink", shortlink).Str("ip", c.RealIP()).Msg("redirecting")

	if h.permanentRedirect {
		return c.Redirect(http.StatusPermanentRedirect, longlink)
	}
	return c.Redirect(http.StatusTemporaryRedirect, longlink)
}

// detached keeps request values but ignores client disconnects, so a started
// store operation always runs to completion.
func detached(c echo.Context) context.Context {
	return context.WithoutCancel(c.Request().Context())
}
