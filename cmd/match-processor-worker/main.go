package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/radieske/dota2-scout/internal/match-processor/cache"
	"github.com/radieske/dota2-scout/internal/match-processor/consumer"
	"github.com/radieske/dota2-scout/internal/match-processor/pubsub"
	"github.com/radieske/dota2-scout/internal/match-processor/repository"
	sharedcache "github.com/radieske/dota2-scout/internal/shared/cache"
	"github.com/radieske/dota2-scout/internal/shared/config"
	"github.com/radieske/dota2-scout/internal/shared/db"
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

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Postgres (pgx pool, escrita em lote)
	pool, err := db.ConnectPool(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pool.Close()

	// Redis: invalidação de cache e pub/sub
	rdb, err := sharedcache.ConnectRedis(ctx, cfg.RedisAddr)
	if err != nil {
		log.Fatal("failed to connect redis", zap.Error(err))
	}
	defer rdb.Close()

	reader := kafka.NewReader(cfg.KafkaBrokers, cfg.TopicMatchIngested, "match-processor")
	defer reader.Close()

	var dlq *kafka.Writer
	if cfg.TopicMatchIngestedDLQ != "" {
		dlq = kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicMatchIngestedDLQ)
		defer dlq.Close()
	}

	// Prometheus
	consumed := prometheus.NewCounter(prometheus.CounterOpts{Name: "match_proc_consumed_total", Help: "mensagens consumidas"})
	persisted := prometheus.NewCounter(prometheus.CounterOpts{Name: "match_proc_persisted_total", Help: "partidas gravadas no postgres"})
	invalidated := prometheus.NewCounter(prometheus.CounterOpts{Name: "match_proc_cache_keys_invalidated_total", Help: "chaves de cache removidas"})
	dlqTotal := prometheus.NewCounter(prometheus.CounterOpts{Name: "match_proc_dlq_total", Help: "mensagens enviadas para a DLQ"})
	errorsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "match_proc_errors_total", Help: "erros por estágio"}, []string{"stage"})
	prometheus.MustRegister(consumed, persisted, invalidated, dlqTotal, errorsTotal)

	metricsSrv := metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		if err := pool.Ping(ctx); err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		return nil
	})

	proc := &consumer.Processor{
		Log:           log,
		Reader:        reader,
		Store:         repository.NewPostgresRepo(pool),
		Cache:         cache.NewInvalidator(rdb),
		Broadcaster:   pubsub.NewRedisBroadcaster(rdb, cfg.RedisPubSubChannel),
		OnConsumed:    func() { consumed.Inc() },
		OnPersist:     func() { persisted.Inc() },
		OnInvalidated: func(n int) { invalidated.Add(float64(n)) },
		OnDLQ:         func() { dlqTotal.Inc() },
		OnError:       func(stage string) { errorsTotal.WithLabelValues(stage).Inc() },
	}
	if dlq != nil {
		proc.DLQ = dlq
	}

	log.Info("match-processor-worker started",
		zap.String("consume", cfg.TopicMatchIngested),
		zap.String("dlq", cfg.TopicMatchIngestedDLQ),
		zap.String("channel", cfg.RedisPubSubChannel),
	)

	if err := proc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("processor stopped", zap.Error(err))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = metricsSrv.Shutdown(shutdownCtx)
	log.Info("match-processor-worker stopped")
}
