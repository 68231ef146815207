package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mohammad-safakhou/roomfinder/internal/corpus"
	"github.com/mohammad-safakhou/roomfinder/internal/ranking"
	"github.com/mohammad-safakhou/roomfinder/internal/validation"
	"github.com/mohammad-safakhou/roomfinder/models"
)

// RankingsHandler serves the prompt form.
type RankingsHandler struct {
	Corpus   *corpus.Index
	Pipeline *ranking.Pipeline
	Prompt   *validation.Schema
}

func (h *RankingsHandler) Register(g *echo.Group) {
	g.POST("", h.rank)
}

// RankingResponse mirrors what the prompt page renders: the form result,
// the messages to show and the ranked rooms.
type RankingResponse struct {
	Submission validation.Result `json:"submission"`
	Responses  []string          `json:"responses"`
	Rooms      []models.Room     `json:"rooms"`
	Outcome    ranking.Outcome   `json:"outcome,omitempty"`
}

func (h *RankingsHandler) rank(c echo.Context) error {
	payload, err := readPayload(c)
	if err != nil {
		return err
	}
	res := validation.Validate(h.Prompt, payload)
	if !res.OK() {
		return c.JSON(http.StatusUnprocessableEntity, RankingResponse{
			Submission: res,
			Responses:  []string{},
			Rooms:      []models.Room{},
		})
	}

	query, _ := res.Value["prompt"].(string)
	out := h.Pipeline.Rank(c.Request().Context(), query, h.Corpus.Snapshot())
	return c.JSON(http.StatusOK, RankingResponse{
		Submission: res,
		Responses:  []string{out.Message},
		Rooms:      out.Rooms,
		Outcome:    out.Outcome,
	})
}
