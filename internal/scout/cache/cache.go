package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	sharedcache "github.com/radieske/dota2-scout/internal/shared/cache"
)

// Cache guarda respostas JSON do scout-service no Redis.
// As chaves são registradas em tags (liga/time) que o processor invalida a cada partida nova.
type Cache struct {
	R   redis.Cmdable
	TTL time.Duration
}

func New(r redis.Cmdable, ttl time.Duration) *Cache { return &Cache{R: r, TTL: ttl} }

const LeaguesKey = "scout:leagues"

func TeamsKey(leagueID int64) string {
	return fmt.Sprintf("scout:teams:%d", leagueID)
}

func MatchesKey(leagueID, teamID int64) string {
	return fmt.Sprintf("scout:matches:%d:%d", leagueID, teamID)
}

func PlayerHeroesKey(leagueID, playerID int64) string {
	return fmt.Sprintf("scout:player-heroes:%d:%d", leagueID, playerID)
}

// Get devolve false em cache miss
func (c *Cache) Get(ctx context.Context, key string, dst any) (bool, error) {
	b, err := c.R.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(b, dst)
}

func (c *Cache) Set(ctx context.Context, key string, v any, tags ...string) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return sharedcache.SetWithTags(ctx, c.R, key, b, c.TTL, tags...)
}

// Invalidate remove as chaves das tags (usado após mudanças feitas pela própria API)
func (c *Cache) Invalidate(ctx context.Context, tags ...string) error {
	_, err := sharedcache.InvalidateTags(ctx, c.R, tags...)
	return err
}
