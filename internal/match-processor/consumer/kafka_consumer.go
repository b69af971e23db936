package consumer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	sharedkafka "github.com/radieske/dota2-scout/internal/shared/kafka"
	"github.com/radieske/dota2-scout/pkg/contracts/events"
)

// MaxAttempts é o total de tentativas de persistência antes da DLQ
const MaxAttempts = 3

// ReadBackoff é a pausa após uma falha de leitura do Kafka
var ReadBackoff = 500 * time.Millisecond

// Backoff linear entre tentativas: 300ms, 600ms, ...
func Backoff(attempt int) time.Duration {
	return time.Duration(300*(attempt+1)) * time.Millisecond
}

type Store interface {
	SaveMatch(ctx context.Context, e events.MatchIngested) error
}

type Invalidator interface {
	InvalidateMatch(ctx context.Context, e events.MatchIngested) (int, error)
}

type Broadcaster interface {
	PublishMatchesUpdated(ctx context.Context, e events.MatchIngested) error
}

// Processor consome match_ingested, persiste no Postgres, invalida o cache
// do scout-service e avisa os clientes ws via Redis Pub/Sub.
type Processor struct {
	Log         *zap.Logger
	Reader      sharedkafka.MessageReader
	Store       Store
	Cache       Invalidator
	Broadcaster Broadcaster
	DLQ         sharedkafka.MessageWriter // opcional

	OnConsumed    func()       // métricas (counter++)
	OnPersist     func()       // métricas
	OnInvalidated func(int)    // chaves removidas
	OnDLQ         func()       // métricas
	OnError       func(string) // métricas por fase

	// Sleep é trocado nos testes
	Sleep func(time.Duration)
}

// Run inicia o loop principal de consumo e processamento das mensagens Kafka
func (p *Processor) Run(ctx context.Context) error {
	for {
		m, err := p.Reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			p.Log.Warn("kafka read failed", zap.Error(err))
			p.stageError("read")
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(ReadBackoff):
			}
			continue
		}

		if p.OnConsumed != nil {
			p.OnConsumed()
		}
		p.Handle(ctx, m)
	}
}

// Handle processa uma mensagem. Erros de persistência passam pelo retry e,
// esgotadas as tentativas, a mensagem original vai para a DLQ.
func (p *Processor) Handle(ctx context.Context, m kafka.Message) {
	var ev events.MatchIngested
	if err := json.Unmarshal(m.Value, &ev); err != nil {
		p.Log.Warn("invalid message", zap.Error(err))
		p.stageError("decode")
		return
	}
	if ev.Match.ID == 0 {
		p.Log.Warn("message without match id", zap.String("ingest_id", ev.IngestID))
		p.stageError("decode")
		return
	}

	log := p.Log.With(zap.Int64("match_id", ev.Match.ID), zap.String("ingest_id", ev.IngestID))

	if err := p.persist(ctx, ev); err != nil {
		log.Error("persist failed, sending to dlq", zap.Error(err))
		p.stageError("db")
		p.toDLQ(ctx, m, err)
		return
	}
	if p.OnPersist != nil {
		p.OnPersist()
	}

	// cache e broadcast não bloqueiam: o dado já está no banco
	if p.Cache != nil {
		n, err := p.Cache.InvalidateMatch(ctx, ev)
		if err != nil {
			log.Warn("cache invalidation failed", zap.Error(err))
			p.stageError("cache")
		} else if p.OnInvalidated != nil {
			p.OnInvalidated(n)
		}
	}

	if p.Broadcaster != nil {
		bctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
		defer cancel()
		if err := p.Broadcaster.PublishMatchesUpdated(bctx, ev); err != nil {
			log.Warn("ws broadcast publish failed", zap.Error(err))
			p.stageError("broadcast")
		}
	}

	log.Debug("match processed", zap.Int("players", len(ev.Players)), zap.Int("draft", len(ev.Draft)))
}

func (p *Processor) persist(ctx context.Context, ev events.MatchIngested) error {
	sleep := p.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	var err error
	for attempt := 0; attempt < MaxAttempts; attempt++ {
		if attempt > 0 {
			sleep(Backoff(attempt - 1))
		}
		if err = p.Store.SaveMatch(ctx, ev); err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return err
		}
		p.Log.Warn("persist attempt failed", zap.Int64("match_id", ev.Match.ID), zap.Int("attempt", attempt+1), zap.Error(err))
	}
	return err
}

func (p *Processor) toDLQ(ctx context.Context, m kafka.Message, cause error) {
	if p.DLQ == nil {
		return
	}
	msg := kafka.Message{
		Key:     m.Key,
		Value:   m.Value,
		Headers: []kafka.Header{{Key: "error", Value: []byte(cause.Error())}},
		Time:    time.Now(),
	}
	if err := p.DLQ.WriteMessages(ctx, msg); err != nil {
		p.Log.Error("dlq write failed", zap.Error(err))
		p.stageError("dlq")
		return
	}
	if p.OnDLQ != nil {
		p.OnDLQ()
	}
}

func (p *Processor) stageError(stage string) {
	if p.OnError != nil {
		p.OnError(stage)
	}
}
