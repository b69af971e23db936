package service

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Scheduler dispara a ingestão das ligas configuradas em intervalo fixo.
// A primeira rodada acontece logo no start.
type Scheduler struct {
	Ingester  *Ingester
	LeagueIDs []int64
	Interval  time.Duration
	Log       *zap.Logger
}

// Run bloqueia até o contexto ser cancelado
func (s *Scheduler) Run(ctx context.Context) {
	if len(s.LeagueIDs) == 0 {
		s.Log.Info("no leagues configured, polling disabled")
		return
	}

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	for {
		s.tick(ctx)
		select {
		case <-ctx.Done():
			s.Log.Info("context canceled, stopping scheduler")
			return
		case <-ticker.C:
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	start := time.Now()
	res, err := s.Ingester.IngestLeagues(ctx, s.LeagueIDs)
	if err != nil {
		s.Log.Warn("ingest round interrupted", zap.Error(err))
		return
	}
	s.Log.Info("ingest round done",
		zap.Int("accepted", res.Accepted),
		zap.Int("skipped", res.Skipped),
		zap.Int("published", res.Published),
		zap.Int("not_found", res.NotFound),
		zap.Int("failed", res.Failed),
		zap.Duration("took", time.Since(start)),
	)
}
