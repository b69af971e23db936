package ws

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/radieske/dota2-scout/pkg/contracts/events"
)

// StartRedisSubscriber escuta o canal de "partidas atualizadas" publicado pelo processor
// e repassa para os clientes WebSocket via Hub. Retorna após a assinatura ser confirmada.
func StartRedisSubscriber(ctx context.Context, r *redis.Client, channel string, hub *Hub, log *zap.Logger) error {
	sub := r.Subscribe(ctx, channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return err
	}
	ch := sub.Channel()
	go func() {
		for {
			select {
			case <-ctx.Done():
				_ = sub.Close()
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var upd events.MatchesUpdated
				if err := json.Unmarshal([]byte(msg.Payload), &upd); err != nil {
					log.Warn("ws subscriber unmarshal error", zap.Error(err))
					continue
				}
				n := hub.Broadcast(upd)
				log.Debug("matches update broadcast", zap.Int64("league_id", upd.LeagueID), zap.Int64("match_id", upd.MatchID), zap.Int("delivered", n))
			}
		}
	}()
	return nil
}
