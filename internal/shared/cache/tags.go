package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Tags agrupam chaves de cache para invalidação conjunta.
// Cada tag é um SET com as chaves que dependem dela.
const tagPrefix = "scout:tag:"

func LeagueTag(leagueID int64) string { return fmt.Sprintf("league:%d", leagueID) }
func TeamTag(teamID int64) string { return fmt.Sprintf("team:%d", teamID) }

const LeaguesTag = "leagues"

// SetWithTags grava value em key com ttl e registra key em cada tag.
// O SET da tag expira junto (ttl + folga) para não acumular chaves mortas.
func SetWithTags(ctx context.Context, rdb redis.Cmdable, key string, value []byte, ttl time.Duration, tags ...string) error {
	_, err := rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, key, value, ttl)
		for _, t := range tags {
			p.SAdd(ctx, tagPrefix+t, key)
			p.Expire(ctx, tagPrefix+t, ttl+time.Minute)
		}
		return nil
	})
	return err
}

// InvalidateTags apaga todas as chaves registradas nas tags e os próprios SETs.
// Retorna quantas chaves de dados foram removidas.
func InvalidateTags(ctx context.Context, rdb redis.Cmdable, tags ...string) (int, error) {
	var keys []string
	for _, t := range tags {
		members, err := rdb.SMembers(ctx, tagPrefix+t).Result()
		if err != nil {
			return 0, fmt.Errorf("read tag %s: %w", t, err)
		}
		keys = append(keys, members...)
	}

	del := make([]string, 0, len(keys)+len(tags))
	del = append(del, keys...)
	for _, t := range tags {
		del = append(del, tagPrefix+t)
	}
	if len(del) == 0 {
		return 0, nil
	}
	if err := rdb.Del(ctx, del...).Err(); err != nil {
		return 0, fmt.Errorf("delete tagged keys: %w", err)
	}
	return len(keys), nil
}
