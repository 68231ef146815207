// Package submission applies validated form submissions to the corpus.
//
// Every submission is validated first; only a successful result may mutate the
// corpus. Mutations are applied one at a time in the order submissions arrived,
// even when a slower earlier create is still waiting for its description.
package submission

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/go-viper/mapstructure/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mohammad-safakhou/roomfinder/internal/corpus"
	"github.com/mohammad-safakhou/roomfinder/internal/enrichment"
	"github.com/mohammad-safakhou/roomfinder/internal/telemetry"
	"github.com/mohammad-safakhou/roomfinder/internal/validation"
	"github.com/mohammad-safakhou/roomfinder/models"
)

const (
	msgDuplicateID      = "A room with this id already exists"
	msgEnrichmentFailed = "Could not generate a description for this room, please try again"
)

// EnrichmentError reports that a create was rejected because its description
// could not be generated. Nothing was appended.
type EnrichmentError struct {
	RoomID string
	Err    error
}

func (e *EnrichmentError) Error() string {
	return fmt.Sprintf("enrich room %s: %v", e.RoomID, e.Err)
}

func (e *EnrichmentError) Unwrap() error { return e.Err }

// Coordinator validates submissions and applies them to one corpus.
type Coordinator struct {
	corpus    *corpus.Index
	engine    *validation.Engine
	describer enrichment.Describer
	seq       *sequencer
	gen       atomic.Uint64
	metrics   *telemetry.Metrics
	logger    *zap.Logger
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithDescriber sets how descriptions are produced on create.
func WithDescriber(d enrichment.Describer) Option {
	return func(c *Coordinator) { c.describer = d }
}

// WithEngine overrides the validation engine.
func WithEngine(e *validation.Engine) Option {
	return func(c *Coordinator) { c.engine = e }
}

func WithMetrics(m *telemetry.Metrics) Option {
	return func(c *Coordinator) { c.metrics = m }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Coordinator) { c.logger = l }
}

// NewCoordinator returns a Coordinator over idx. Without WithDescriber rooms
// keep the description they were submitted with.
func NewCoordinator(idx *corpus.Index, opts ...Option) *Coordinator {
	c := &Coordinator{
		corpus:    idx,
		engine:    validation.NewEngine(),
		describer: enrichment.Passthrough,
		seq:       newSequencer(),
		logger:    zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	c.logger = c.logger.Named("submission")
	return c
}

// Submit validates payload against schema and, on success, applies op.
//
// The returned Result always describes the outcome. The error is non-nil
// only for an *EnrichmentError, in which case the Result is a failure too.
func (c *Coordinator) Submit(ctx context.Context, schema *validation.Schema, payload map[string]string, op models.Operation) (validation.Result, error) {
	ticket := c.seq.take()

	res := c.engine.Validate(schema, payload)
	res.Generation = c.gen.Add(1)
	res.SubmissionID = uuid.NewString()
	log := c.logger.With(
		zap.String("submission_id", res.SubmissionID),
		zap.String("operation", string(op)),
		zap.String("schema", res.Schema),
	)

	if !res.OK() {
		c.seq.release(ticket)
		log.Debug("submission rejected", zap.Int("fields", len(res.Errors)))
		c.metrics.Submission(res.Schema, string(op), string(res.Status))
		return res, nil
	}

	var err error
	switch op {
	case models.OperationCreate:
		res, err = c.create(ctx, ticket, res, log)
	case models.OperationDelete:
		res = c.delete(ticket, res, log)
	default:
		c.seq.release(ticket)
		res = res.WithFormError("Unknown operation")
	}
	c.metrics.Submission(res.Schema, string(op), string(res.Status))
	return res, err
}

func (c *Coordinator) create(ctx context.Context, ticket uint64, res validation.Result, log *zap.Logger) (validation.Result, error) {
	release := sync.OnceFunc(func() { c.seq.release(ticket) })
	defer release()

	room, err := decodeRoom(res.Value)
	if err != nil {
		log.Error("decode room", zap.Error(err))
		return res.WithFormError("Submitted values could not be read"), nil
	}
	log = log.With(zap.String("room_id", room.ID))

	if _, exists := c.corpus.FindByID(room.ID); exists {
		log.Info("duplicate room id")
		return res.WithFieldError("id", msgDuplicateID), nil
	}

	desc, err := c.describer.Describe(ctx, room)
	if err != nil {
		log.Warn("enrichment failed, room discarded", zap.Error(err))
		c.metrics.EnrichmentFailed()
		return res.WithFormError(msgEnrichmentFailed), &EnrichmentError{RoomID: room.ID, Err: err}
	}
	room.Description = desc

	c.seq.wait(ticket)
	err = c.corpus.AppendUnique(room)
	n := c.corpus.Len()
	release()

	if errors.Is(err, models.ErrDuplicateRoom) {
		log.Info("duplicate room id")
		return res.WithFieldError("id", msgDuplicateID), nil
	}
	c.metrics.CorpusSize(n)
	res.Value["description"] = room.Description
	log.Info("room created", zap.Int("corpus_size", n))
	return res, nil
}

func (c *Coordinator) delete(ticket uint64, res validation.Result, log *zap.Logger) validation.Result {
	id, _ := res.Value["id"].(string)

	c.seq.wait(ticket)
	removed := id != "" && c.corpus.Remove(id)
	n := c.corpus.Len()
	c.seq.release(ticket)

	c.metrics.CorpusSize(n)
	log.Info("delete applied", zap.String("room_id", id), zap.Bool("removed", removed), zap.Int("corpus_size", n))
	return res
}

func decodeRoom(value map[string]any) (models.Room, error) {
	var room models.Room
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &room,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return room, err
	}
	if err := dec.Decode(value); err != nil {
		return room, fmt.Errorf("decode room: %w", err)
	}
	if room.ID == "" {
		return room, errors.New("decode room: missing id")
	}
	return room, nil
}
