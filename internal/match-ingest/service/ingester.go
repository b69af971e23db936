package service

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/radieske/dota2-scout/internal/match-ingest/opendota"
	"github.com/radieske/dota2-scout/pkg/contracts/events"
)

// MatchSource é a fonte de partidas (OpenDota ou o provider-simulator)
type MatchSource interface {
	LeagueMatchIDs(ctx context.Context, leagueID int64) ([]int64, error)
	GetMatch(ctx context.Context, matchID int64) (*opendota.Match, error)
}

// Publisher envia partidas normalizadas para o Kafka
type Publisher interface {
	Publish(ctx context.Context, e events.MatchIngested) error
}

// Result resume uma rodada de ingestão
type Result struct {
	Accepted  int `json:"accepted"`
	Skipped   int `json:"skipped"`  // já publicadas antes (bloom filter)
	NotFound  int `json:"notFound"` // provedor respondeu 404
	Failed    int `json:"failed"`   // erro de rede/publicação
	Published int `json:"published"`
}

// Ingester busca partidas no provedor, normaliza e publica.
// O bloom filter guarda as partidas já publicadas pelo processo; um falso
// positivo só deixa uma partida nova para o próximo restart (o processor é idempotente).
type Ingester struct {
	Log         *zap.Logger
	Source      MatchSource
	Publisher   Publisher
	Concurrency int

	OnPublished func()       // métricas
	OnError     func(string) // métricas por estágio

	mu      sync.Mutex
	visited *bloom.BloomFilter
}

func NewIngester(log *zap.Logger, src MatchSource, pub Publisher, concurrency int) *Ingester {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Ingester{
		Log:         log,
		Source:      src,
		Publisher:   pub,
		Concurrency: concurrency,
		visited:     bloom.NewWithEstimates(500000, 0.001),
	}
}

// IngestLeagues lista as partidas de cada liga e ingere as ainda não vistas
func (in *Ingester) IngestLeagues(ctx context.Context, leagueIDs []int64) (Result, error) {
	var total Result
	for _, leagueID := range leagueIDs {
		ids, err := in.Source.LeagueMatchIDs(ctx, leagueID)
		if err != nil {
			in.stageError("list")
			in.Log.Warn("league listing failed", zap.Int64("league_id", leagueID), zap.Error(err))
			continue
		}
		res, err := in.IngestMatches(ctx, ids)
		if err != nil {
			return total, err
		}
		total = total.add(res)
		in.Log.Info("league ingested",
			zap.Int64("league_id", leagueID),
			zap.Int("accepted", res.Accepted),
			zap.Int("skipped", res.Skipped),
			zap.Int("published", res.Published),
		)
	}
	return total, nil
}

// Fresh separa os IDs ainda não publicados (sem duplicatas) dos já vistos
func (in *Ingester) Fresh(matchIDs []int64) (fresh []int64, skipped int) {
	seen := make(map[int64]struct{}, len(matchIDs))
	for _, id := range matchIDs {
		if _, dup := seen[id]; dup || in.published(id) {
			skipped++
			continue
		}
		seen[id] = struct{}{}
		fresh = append(fresh, id)
	}
	return fresh, skipped
}

// IngestMatches busca e publica os IDs informados em paralelo (limitado por Concurrency).
// Falhas individuais são contadas e logadas; só o cancelamento do contexto vira erro.
func (in *Ingester) IngestMatches(ctx context.Context, matchIDs []int64) (Result, error) {
	var (
		res Result
		mu  sync.Mutex
	)

	fresh, skipped := in.Fresh(matchIDs)
	res.Accepted, res.Skipped = len(fresh), skipped

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(in.Concurrency)

	for _, id := range fresh {
		g.Go(func() error {
			outcome := in.ingestOne(gctx, id)
			mu.Lock()
			defer mu.Unlock()
			switch outcome {
			case outcomePublished:
				res.Published++
			case outcomeNotFound:
				res.NotFound++
			case outcomeFailed:
				res.Failed++
			}
			return nil
		})
	}

	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return res, err
	}
	return res, nil
}

type outcome int

const (
	outcomePublished outcome = iota
	outcomeNotFound
	outcomeFailed
)

func (in *Ingester) ingestOne(ctx context.Context, matchID int64) outcome {
	m, err := in.Source.GetMatch(ctx, matchID)
	if err != nil {
		if errors.Is(err, opendota.ErrMatchNotFound) {
			in.Log.Debug("match not found", zap.Int64("match_id", matchID))
			return outcomeNotFound
		}
		in.stageError("fetch")
		in.Log.Warn("match fetch failed", zap.Int64("match_id", matchID), zap.Error(err))
		return outcomeFailed
	}

	ev := opendota.Normalize(m)
	ev.IngestID = uuid.NewString()
	ev.IngestedAt = time.Now().UTC()

	if err := in.Publisher.Publish(ctx, ev); err != nil {
		in.stageError("publish")
		in.Log.Warn("match publish failed", zap.Int64("match_id", matchID), zap.Error(err))
		return outcomeFailed
	}
	in.markPublished(matchID)
	if in.OnPublished != nil {
		in.OnPublished()
	}
	return outcomePublished
}

func (in *Ingester) published(id int64) bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.visited.Test(idKey(id))
}

func (in *Ingester) markPublished(id int64) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.visited.Add(idKey(id))
}

func idKey(id int64) []byte {
	return []byte(strconv.FormatInt(id, 10))
}

func (in *Ingester) stageError(stage string) {
	if in.OnError != nil {
		in.OnError(stage)
	}
}

func (r Result) add(o Result) Result {
	r.Accepted += o.Accepted
	r.Skipped += o.Skipped
	r.NotFound += o.NotFound
	r.Failed += o.Failed
	r.Published += o.Published
	return r
}

// ReadMatchIDsFile lê um ID por linha, ignorando linhas vazias e comentários (#)
func ReadMatchIDsFile(path string) ([]int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open match ids file: %w", err)
	}
	defer f.Close()

	var ids []int64
	sc := bufio.NewScanner(f)
	for line := 1; sc.Scan(); line++ {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("match ids file line %d: %w", line, err)
		}
		ids = append(ids, id)
	}
	return ids, sc.Err()
}
