package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	httpapi "github.com/radieske/dota2-scout/internal/match-ingest/http"
	"github.com/radieske/dota2-scout/internal/match-ingest/opendota"
	"github.com/radieske/dota2-scout/internal/match-ingest/publisher"
	"github.com/radieske/dota2-scout/internal/match-ingest/service"
	"github.com/radieske/dota2-scout/internal/shared/config"
	"github.com/radieske/dota2-scout/internal/shared/kafka"
	"github.com/radieske/dota2-scout/internal/shared/logger"
	"github.com/radieske/dota2-scout/internal/shared/metrics"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(fmt.Errorf("logger init: %w", err))
	}
	defer log.Sync()

	log.Info("starting service", zap.String("service", cfg.ServiceName), zap.String("env", cfg.Env))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	brokers := kafka.SplitBrokers(cfg.KafkaBrokers)

	// Publisher Kafka (tópico match_ingested)
	pub, err := publisher.NewKafkaPublisher(brokers, cfg.TopicMatchIngested, cfg.Env, log)
	if err != nil {
		log.Fatal("failed to create kafka publisher", zap.Error(err))
	}
	defer pub.Close()

	// Métricas Prometheus
	published := prometheus.NewCounter(prometheus.CounterOpts{Name: "match_ingest_published_total", Help: "partidas publicadas no kafka"})
	errorsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "match_ingest_errors_total", Help: "erros por estágio"}, []string{"stage"})
	prometheus.MustRegister(published, errorsTotal)

	ingester := service.NewIngester(log, opendota.New(cfg.OpenDotaURL, cfg.OpenDotaAPIKey), pub, cfg.IngestConcurrency)
	ingester.OnPublished = func() { published.Inc() }
	ingester.OnError = func(stage string) { errorsTotal.WithLabelValues(stage).Inc() }

	// healthz: broker alcançável
	metricsSrv := metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		if len(brokers) == 0 {
			return errors.New("no kafka brokers configured")
		}
		var d net.Dialer
		conn, err := d.DialContext(ctx, "tcp", brokers[0])
		if err != nil {
			return fmt.Errorf("kafka: %w", err)
		}
		return conn.Close()
	})
	log.Info("metrics/health listening", zap.String("addr", metricsSrv.Addr))

	// Carga inicial a partir de arquivo (um match id por linha)
	if cfg.MatchIDsFile != "" {
		ids, err := service.ReadMatchIDsFile(cfg.MatchIDsFile)
		if err != nil {
			log.Fatal("failed to read match ids file", zap.String("path", cfg.MatchIDsFile), zap.Error(err))
		}
		go func() {
			res, err := ingester.IngestMatches(ctx, ids)
			if err != nil {
				log.Warn("file ingest interrupted", zap.Error(err))
				return
			}
			log.Info("file ingest done",
				zap.String("path", cfg.MatchIDsFile),
				zap.Int("published", res.Published),
				zap.Int("skipped", res.Skipped),
				zap.Int("failed", res.Failed),
			)
		}()
	}

	// API admin para ingestão sob demanda
	admin := &httpapi.API{Ingester: ingester, Log: log, BaseCtx: ctx}
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           admin.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info("admin api listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("admin api failed", zap.Error(err))
		}
	}()

	// Polling periódico das ligas configuradas
	sched := &service.Scheduler{
		Ingester:  ingester,
		LeagueIDs: cfg.IngestLeagueIDs,
		Interval:  cfg.IngestInterval,
		Log:       log,
	}
	go sched.Run(ctx)

	<-ctx.Done()
	log.Info("shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)
	_ = metricsSrv.Shutdown(shutdownCtx)
	log.Info("match-ingest-service stopped")
}
