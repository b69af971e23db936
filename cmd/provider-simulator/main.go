package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/radieske/dota2-scout/internal/provider-simulator/sim"
	"github.com/radieske/dota2-scout/internal/shared/config"
	"github.com/radieske/dota2-scout/internal/shared/logger"
	"github.com/radieske/dota2-scout/internal/shared/metrics"
)

var (
	matchesServed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "provider_sim_matches_served_total",
		Help: "Total de partidas servidas",
	})
	matchesTotal = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "provider_sim_matches",
		Help: "Partidas geradas em todas as ligas",
	})
)

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	prometheus.MustRegister(matchesServed, matchesTotal)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// mesmas ligas que o match-ingest-service consulta
	leagues := cfg.IngestLeagueIDs
	if len(leagues) == 0 {
		leagues = []int64{1}
	}
	gen := sim.NewGenerator(uint64(cfg.SimSeed), leagues, cfg.SimMatchesPerLeague)
	matchesTotal.Set(float64(gen.Total()))

	// Gera uma partida nova por liga a cada intervalo
	go func() {
		ticker := time.NewTicker(cfg.SimMatchInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			for _, l := range leagues {
				if id, ok := gen.AddMatch(l); ok {
					log.Debug("match generated", zap.Int64("league_id", l), zap.Int64("match_id", id))
				}
			}
			matchesTotal.Set(float64(gen.Total()))
		}
	}()

	metricsSrv := metrics.StartMetricsServer(cfg.MetricsPort, nil)

	s := &sim.Server{Gen: gen, Log: log, OnServed: func() { matchesServed.Inc() }}
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info("provider simulator running",
			zap.String("addr", srv.Addr),
			zap.String("paths", "/api/leagues/{id}/matchIds,/api/matches/{id}"),
			zap.Int64s("leagues", leagues),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("public server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)
	_ = metricsSrv.Shutdown(shutdownCtx)
}
