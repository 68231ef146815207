package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mohammad-safakhou/roomfinder/internal/validation"
)

type SchemasHandler struct {
	Registry *validation.Registry
}

func (h *SchemasHandler) Register(g *echo.Group) {
	g.GET("", h.list)
	g.GET("/:ref", h.get)
}

func (h *SchemasHandler) list(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string][]string{"schemas": h.Registry.Refs()})
}

// get returns a schema by ref; a bare name resolves to its latest version.
func (h *SchemasHandler) get(c echo.Context) error {
	s, err := h.Registry.Lookup(c.Param("ref"))
	if errors.Is(err, validation.ErrSchemaNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, s)
}
