package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	scoutcache "github.com/radieske/dota2-scout/internal/scout/cache"
	httpapi "github.com/radieske/dota2-scout/internal/scout/http"
	"github.com/radieske/dota2-scout/internal/scout/repo"
	"github.com/radieske/dota2-scout/internal/scout/stratz"
	"github.com/radieske/dota2-scout/internal/scout/ws"
	"github.com/radieske/dota2-scout/internal/shared/cache"
	"github.com/radieske/dota2-scout/internal/shared/config"
	"github.com/radieske/dota2-scout/internal/shared/db"
	"github.com/radieske/dota2-scout/internal/shared/logger"
	"github.com/radieske/dota2-scout/internal/shared/metrics"
)

func main() {
	// carrega config
	cfg := config.Load()

	// inicia logger
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(fmt.Errorf("logger init: %w", err))
	}
	defer log.Sync()

	log.Info("starting service", zap.String("service", cfg.ServiceName), zap.String("env", cfg.Env))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// conecta com db Postgres
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()
	log.Info("postgres connected")

	// conecta com cache Redis
	redisClient, err := cache.ConnectRedis(ctx, cfg.RedisAddr)
	if err != nil {
		log.Fatal("failed to connect redis", zap.Error(err))
	}
	defer redisClient.Close()
	log.Info("redis connected")

	// Métricas Prometheus
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "scout_http_requests_total", Help: "requisições por rota e status"}, []string{"route", "status"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{Name: "scout_http_request_seconds", Help: "latência por rota", Buckets: prometheus.DefBuckets}, []string{"route"})
	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{Name: "scout_cache_hits_total", Help: "respostas servidas do cache"})
	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{Name: "scout_cache_misses_total", Help: "respostas montadas a partir do banco"})
	prometheus.MustRegister(requests, latency, cacheHits, cacheMisses)

	// WebSocket: hub + assinatura do canal publicado pelo processor
	hub := ws.NewHub(func(*http.Request) bool { return true }, log)
	if err := ws.StartRedisSubscriber(ctx, redisClient, cfg.RedisPubSubChannel, hub, log); err != nil {
		log.Fatal("failed to subscribe redis channel", zap.Error(err))
	}

	api := &httpapi.API{
		Repo:        repo.NewReadRepo(pg),
		Cache:       scoutcache.New(redisClient, cfg.CacheTTL),
		Hub:         hub,
		Log:         log,
		OnCacheHit:  func() { cacheHits.Inc() },
		OnCacheMiss: func() { cacheMisses.Inc() },
		Middlewares: []func(http.Handler) http.Handler{httpapi.Instrument(requests, latency)},
	}
	if cfg.StratzToken != "" {
		api.Stratz = stratz.New(cfg.StratzURL, cfg.StratzToken)
	} else {
		log.Warn("STRATZ_API_TOKEN not set, pub stats refresh disabled")
	}

	// sobe servidor de métricas e health
	metricsSrv := metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		if err := pg.PingContext(ctx); err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
		if err := redisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		return nil
	})
	log.Info("metrics/health listening", zap.String("addr", metricsSrv.Addr))

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           api.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("scout-service listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)
	_ = metricsSrv.Shutdown(shutdownCtx)
	log.Info("scout-service stopped")
}
