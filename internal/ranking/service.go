package ranking

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/mohammad-safakhou/roomfinder/internal/telemetry"
	"github.com/mohammad-safakhou/roomfinder/models"
	"github.com/mohammad-safakhou/roomfinder/provider"
)

// Reply is the typed answer of a Ranker. Raw is always the service text.
// Either IDs is set or ParseErr explains why no ids could be read.
type Reply struct {
	IDs      []string
	Raw      string
	ParseErr error
}

// Ranker orders candidate ids for a query. An error means the service could
// not be reached or did not answer; malformed answers are reported in Reply.
type Ranker interface {
	Rank(ctx context.Context, query string, rooms []models.Room) (Reply, error)
}

// ServiceRanker asks a text service for the ranking.
type ServiceRanker struct {
	provider provider.Provider
	metrics  *telemetry.Metrics
	logger   *zap.Logger
}

func NewServiceRanker(p provider.Provider, metrics *telemetry.Metrics, logger *zap.Logger) *ServiceRanker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ServiceRanker{provider: p, metrics: metrics, logger: logger.Named("ranker")}
}

// Rank makes exactly one service call.
func (r *ServiceRanker) Rank(ctx context.Context, query string, rooms []models.Room) (Reply, error) {
	start := time.Now()
	raw, err := r.provider.Complete(ctx, BuildPrompt(query, rooms))
	r.metrics.TextServiceCall("ranking", start, err)
	if err != nil {
		return Reply{}, err
	}
	ids, perr := ParseIDs(raw)
	r.logger.Debug("ranking reply", zap.Int("candidates", len(ids)), zap.Duration("elapsed", time.Since(start)))
	return Reply{IDs: ids, Raw: raw, ParseErr: perr}, nil
}
