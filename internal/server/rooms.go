package server

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/mohammad-safakhou/roomfinder/internal/corpus"
	"github.com/mohammad-safakhou/roomfinder/internal/submission"
	"github.com/mohammad-safakhou/roomfinder/internal/validation"
	"github.com/mohammad-safakhou/roomfinder/models"
)

// RoomsHandler serves the room form and the corpus listing.
type RoomsHandler struct {
	Corpus      *corpus.Index
	Coordinator *submission.Coordinator
	Schemas     *validation.Registry
	Room        *validation.Schema
	Delete      *validation.Schema
	Logger      *zap.Logger
}

func (h *RoomsHandler) Register(g *echo.Group) {
	g.GET("", h.list)
	g.GET("/new", h.draft)
	g.GET("/:id", h.get)
	g.POST("", h.submit)
	g.POST("/validate", h.validate)
	g.DELETE("/:id", h.remove)
}

// list returns the whole corpus in insertion order.
func (h *RoomsHandler) list(c echo.Context) error {
	rooms := h.Corpus.All()
	return c.JSON(http.StatusOK, map[string]interface{}{
		"rooms": rooms,
		"total": len(rooms),
	})
}

type roomParam struct {
	ID string `param:"id" validate:"required,max=128"`
}

// draft hands out a fresh id and the schema the form should use.
func (h *RoomsHandler) draft(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"id":     uuid.NewString(),
		"schema": h.Room.Ref(),
	})
}

func (h *RoomsHandler) get(c echo.Context) error {
	var p roomParam
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid room id")
	}
	if err := c.Validate(&p); err != nil {
		return err
	}
	room, ok := h.Corpus.FindByID(p.ID)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, models.ErrRoomNotFound.Error())
	}
	return c.JSON(http.StatusOK, room)
}

// submit handles the room form. The "intent" field selects create or delete.
func (h *RoomsHandler) submit(c echo.Context) error {
	payload, err := readPayload(c)
	if err != nil {
		return err
	}
	op, err := models.ParseOperation(payload["intent"])
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	schema := h.Room
	if op == models.OperationDelete {
		schema = h.Delete
	}
	return h.apply(c, schema, payload, op)
}

func (h *RoomsHandler) remove(c echo.Context) error {
	return h.apply(c, h.Delete, map[string]string{"id": c.Param("id")}, models.OperationDelete)
}

func (h *RoomsHandler) apply(c echo.Context, schema *validation.Schema, payload map[string]string, op models.Operation) error {
	res, err := h.Coordinator.Submit(c.Request().Context(), schema, payload, op)
	var enrichErr *submission.EnrichmentError
	switch {
	case errors.As(err, &enrichErr):
		h.Logger.Warn("create rejected by enrichment", zap.String("room_id", enrichErr.RoomID), zap.Error(err))
		return c.JSON(http.StatusBadGateway, res)
	case err != nil:
		return err
	case !res.OK():
		return c.JSON(http.StatusUnprocessableEntity, res)
	case op == models.OperationCreate:
		return c.JSON(http.StatusCreated, res)
	default:
		return c.JSON(http.StatusOK, res)
	}
}

// validate runs the engine without touching the corpus. The optional
// "schema" query parameter picks another registered schema.
func (h *RoomsHandler) validate(c echo.Context) error {
	schema := h.Room
	if ref := c.QueryParam("schema"); ref != "" {
		s, err := h.Schemas.Lookup(ref)
		if errors.Is(err, validation.ErrSchemaNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		schema = s
	}
	payload, err := readPayload(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, validation.Validate(schema, payload))
}
