package cache

import (
	"context"

	"github.com/redis/go-redis/v9"

	sharedcache "github.com/radieske/dota2-scout/internal/shared/cache"
	"github.com/radieske/dota2-scout/pkg/contracts/events"
)

// Invalidator remove do Redis as respostas do scout-service afetadas por uma partida
type Invalidator struct {
	Client redis.Cmdable
}

func NewInvalidator(c redis.Cmdable) *Invalidator {
	return &Invalidator{Client: c}
}

// tags cobre a liga, os dois times e a lista de ligas (liga nova pode ter surgido)
func tags(e events.MatchIngested) []string {
	out := []string{sharedcache.LeaguesTag}
	if e.Match.LeagueID != 0 {
		out = append(out, sharedcache.LeagueTag(e.Match.LeagueID))
	}
	for _, id := range e.TeamIDs() {
		out = append(out, sharedcache.TeamTag(id))
	}
	return out
}

// InvalidateMatch devolve quantas chaves foram removidas
func (i *Invalidator) InvalidateMatch(ctx context.Context, e events.MatchIngested) (int, error) {
	return sharedcache.InvalidateTags(ctx, i.Client, tags(e)...)
}
