package main

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/radieske/dota2-scout/internal/gateway"
	"github.com/radieske/dota2-scout/internal/shared/config"
	"github.com/radieske/dota2-scout/internal/shared/logger"
	"github.com/radieske/dota2-scout/internal/shared/metrics"
)

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// targets
	// /api/scout/*  -> scout-service (REST + /v1/ws)
	// /api/ingest/* -> match-ingest-service (admin)
	h, err := gateway.New([]gateway.Route{
		{Prefix: "/api/scout", Target: cfg.ScoutURL},
		{Prefix: "/api/ingest", Target: cfg.IngestURL},
	}, log)
	if err != nil {
		log.Fatal("invalid gateway routes", zap.Error(err))
	}

	metrics.StartMetricsServer(cfg.MetricsPort, nil)

	addr := ":" + cfg.HTTPPort
	log.Info("api-gateway listening", zap.String("addr", addr), zap.String("scout", cfg.ScoutURL), zap.String("ingest", cfg.IngestURL))
	if err := http.ListenAndServe(addr, h); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("gateway failed", zap.Error(err))
	}
}
