package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type MetaHandler struct {
	siteURL string
	version string
}

func NewMetaHandler(siteURL, version string) *MetaHandler {
	if siteURL == "" {
		siteURL = "unset"
	}
	return &MetaHandler{siteURL: siteURL, version: version}
}

func (h *MetaHandler) SiteURL(c echo.Context) error {
	return c.String(http.StatusOK, h.siteURL)
}

func (h *MetaHandler) Version(c echo.Context) error {
	return c.String(http.StatusOK, h.version)
}

func (h *MetaHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
