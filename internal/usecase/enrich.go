package usecase

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/bracket-exporter/internal/domain/bracket"
	"go.opentelemetry.io/otel/attribute"
)

type enrichStats struct {
	Attempted int
	Enriched  int
	Failed    int
}

// enrichMatches replaces each summary record that has an id with its detail
// record. A failed detail read keeps the summary. Output order equals input order.
func (s *ExportService) enrichMatches(ctx context.Context, matches []bracket.Match) ([]bracket.Match, enrichStats) {
	out := make([]bracket.Match, len(matches))
	copy(out, matches)

	stats := enrichStats{}
	if !s.cfg.EnrichEnabled || len(matches) == 0 {
		return out, stats
	}

	ctx, span := startStageSpan(ctx, s.tracer, "usecase.ExportService.enrichMatches", attribute.Int("matches", len(matches)))
	defer span.End()

	workerCount := s.cfg.EnrichWorkers
	if workerCount < 1 {
		workerCount = 1
	}
	if workerCount > len(matches) {
		workerCount = len(matches)
	}

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		s.logger.WarnContext(ctx, "create enrichment pool failed, keeping summaries", "error", err)
		return out, stats
	}
	defer pool.Release()

	var enriched atomic.Int32
	var failed atomic.Int32
	var workers sync.WaitGroup
	for idx := range matches {
		if !matches[idx].HasID() {
			continue
		}
		if ctx.Err() != nil {
			s.logger.WarnContext(ctx, "enrichment cancelled, remaining matches keep summaries", "index", idx)
			break
		}

		idx := idx
		stats.Attempted++
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			detail, ok := s.fetchMatchDetail(ctx, matches[idx].ID)
			if !ok {
				failed.Add(1)
				return
			}
			out[idx] = detail
			enriched.Add(1)
		}); err != nil {
			workers.Done()
			stats.Attempted--
			s.logger.WarnContext(ctx, "submit enrichment task failed", "match_id", matches[idx].ID, "error", err)
			break
		}
	}
	workers.Wait()

	stats.Enriched = int(enriched.Load())
	stats.Failed = int(failed.Load())
	span.SetAttributes(attribute.Int("enriched", stats.Enriched), attribute.Int("failed", stats.Failed))
	return out, stats
}

func (s *ExportService) fetchMatchDetail(ctx context.Context, matchID string) (bracket.Match, bool) {
	reqCtx := ctx
	if s.cfg.EnrichTimeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, s.cfg.EnrichTimeout)
		defer cancel()
	}

	started := time.Now()
	detail, err := s.source.FetchMatch(reqCtx, matchID)
	if err != nil {
		s.logger.WarnContext(ctx, "match detail unavailable, keeping summary",
			"match_id", matchID,
			"kind", FailureKind(err),
			"error", err,
		)
		return bracket.Match{}, false
	}
	s.logger.DebugContext(ctx, "match detail fetched", "match_id", matchID, "duration", time.Since(started))
	if !detail.HasID() {
		detail.ID = matchID
	}
	return detail, true
}
