// Package ranking orders the corpus against a free-text query with the help of
// a text service.
//
// The pipeline never fails: service errors and replies that name no known room
// both come back as a Result with an empty room list and a diagnostic message.
package ranking

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/mohammad-safakhou/roomfinder/internal/corpus"
	"github.com/mohammad-safakhou/roomfinder/internal/telemetry"
	"github.com/mohammad-safakhou/roomfinder/models"
	"github.com/mohammad-safakhou/roomfinder/provider"
)

// Outcome classifies how a ranking request ended.
type Outcome string

const (
	OutcomeMatched      Outcome = "matched"
	OutcomeUnmatched    Outcome = "unmatched"
	OutcomeEmptyCorpus  Outcome = "empty_corpus"
	OutcomeServiceError Outcome = "service_error"
)

const (
	MsgResultsFound = "results found"
	MsgEmptyCorpus  = "no rooms available"
)

// Result is the ranked rooms plus one message for the user. When Rooms is
// empty after a service reply, Message is the reply verbatim.
type Result struct {
	Rooms   []models.Room `json:"rooms"`
	Message string        `json:"message"`
	Outcome Outcome       `json:"outcome"`
}

// Pipeline resolves ranked ids against a corpus snapshot.
type Pipeline struct {
	ranker  Ranker
	metrics *telemetry.Metrics
	logger  *zap.Logger
}

func NewPipeline(r Ranker, metrics *telemetry.Metrics, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{ranker: r, metrics: metrics, logger: logger.Named("ranking")}
}

// Rank orders snap against query. The snapshot is read once, so appends that
// happen while the service is thinking are not visible to this request.
func (p *Pipeline) Rank(ctx context.Context, query string, snap *corpus.Snapshot) Result {
	res := p.rank(ctx, query, snap)
	p.metrics.Ranking(string(res.Outcome))
	p.logger.Info("ranking finished",
		zap.Int("query_len", len(query)),
		zap.Int("corpus_size", snap.Len()),
		zap.Int("resolved", len(res.Rooms)),
		zap.String("outcome", string(res.Outcome)),
	)
	return res
}

func (p *Pipeline) rank(ctx context.Context, query string, snap *corpus.Snapshot) Result {
	if snap.Len() == 0 {
		return Result{Rooms: []models.Room{}, Message: MsgEmptyCorpus, Outcome: OutcomeEmptyCorpus}
	}

	reply, err := p.ranker.Rank(ctx, query, snap.Rooms())
	if err != nil {
		p.logger.Warn("ranking service failed", zap.Error(err))
		return Result{Rooms: []models.Room{}, Message: diagnostic(err), Outcome: OutcomeServiceError}
	}

	rooms := Resolve(reply.IDs, snap)
	if len(rooms) == 0 {
		if reply.ParseErr != nil {
			p.logger.Debug("ranking reply had no ids", zap.Error(reply.ParseErr))
		}
		return Result{Rooms: []models.Room{}, Message: reply.Raw, Outcome: OutcomeUnmatched}
	}
	return Result{Rooms: rooms, Message: MsgResultsFound, Outcome: OutcomeMatched}
}

// Resolve looks ids up in snap in order and drops the ones it does not hold.
func Resolve(ids []string, snap *corpus.Snapshot) []models.Room {
	rooms := make([]models.Room, 0, len(ids))
	for _, id := range ids {
		if r, ok := snap.FindByID(id); ok {
			rooms = append(rooms, r)
		}
	}
	return rooms
}

// diagnostic renders a service failure as "text service unavailable: <cause>".
func diagnostic(err error) string {
	msg := err.Error()
	prefix := provider.ErrUnavailable.Error()
	if i := strings.Index(msg, prefix); i >= 0 {
		return msg[i:]
	}
	return prefix + ": " + msg
}
