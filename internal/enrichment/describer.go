// Package enrichment generates room descriptions with the text service.
package enrichment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mohammad-safakhou/roomfinder/internal/helpers"
	"github.com/mohammad-safakhou/roomfinder/internal/telemetry"
	"github.com/mohammad-safakhou/roomfinder/models"
	"github.com/mohammad-safakhou/roomfinder/provider"
)

// ErrEmptyDescription is returned when the reply has no usable text once markup is removed.
var ErrEmptyDescription = errors.New("generated description is empty")

// Describer produces the description stored with a new room.
type Describer interface {
	Describe(ctx context.Context, room models.Room) (string, error)
}

// DescriberFunc adapts a function to Describer.
type DescriberFunc func(ctx context.Context, room models.Room) (string, error)

func (f DescriberFunc) Describe(ctx context.Context, room models.Room) (string, error) {
	return f(ctx, room)
}

// Passthrough keeps whatever description the room already has.
var Passthrough Describer = DescriberFunc(func(_ context.Context, room models.Room) (string, error) {
	return room.Description, nil
})

const instruction = `You write listing descriptions for bookable meeting and work rooms.
Describe the room in the attached photo in two to four plain sentences: layout, furniture, light, equipment and atmosphere.
Use the listing details only as context. Do not invent prices or addresses. Answer with the description text only, no markdown.`

// Service is a Describer backed by a text/image service.
type Service struct {
	provider provider.Provider
	maxLen   int
	metrics  *telemetry.Metrics
	logger   *zap.Logger
}

// NewService returns a Service. maxLen <= 0 disables truncation.
func NewService(p provider.Provider, maxLen int, metrics *telemetry.Metrics, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{provider: p, maxLen: maxLen, metrics: metrics, logger: logger.Named("enrichment")}
}

// Describe asks the service for a description of room and returns it as
// plain text. Any service failure is returned to the caller.
func (s *Service) Describe(ctx context.Context, room models.Room) (string, error) {
	user := provider.Text(provider.RoleUser, listingDetails(room))
	if room.Image != "" {
		user = user.WithImage(room.Image)
	}
	req := provider.Request{Messages: []provider.Message{
		provider.Text(provider.RoleSystem, instruction),
		user,
	}}

	start := time.Now()
	reply, err := s.provider.Complete(ctx, req)
	s.metrics.TextServiceCall("enrichment", start, err)
	if err != nil {
		s.logger.Warn("describe room failed", zap.String("room_id", room.ID), zap.Error(err))
		return "", fmt.Errorf("describe room %s: %w", room.ID, err)
	}

	desc := helpers.Truncate(helpers.PlainText(reply), s.maxLen)
	if desc == "" {
		return "", fmt.Errorf("describe room %s: %w", room.ID, ErrEmptyDescription)
	}
	s.logger.Debug("room described", zap.String("room_id", room.ID), zap.Int("length", len(desc)))
	return desc, nil
}

func listingDetails(r models.Room) string {
	var b strings.Builder
	b.WriteString("Listing details:\n")
	field := func(name, value string) {
		if strings.TrimSpace(value) != "" {
			fmt.Fprintf(&b, "- %s: %s\n", name, value)
		}
	}
	field("label", r.Label)
	field("neighborhood", r.Neighborhood)
	field("city", r.City)
	field("tier", r.Tier)
	field("size", r.Size)
	if r.Capacity > 0 {
		field("capacity", fmt.Sprintf("%d people", r.Capacity))
	}
	return strings.TrimRight(b.String(), "\n")
}
