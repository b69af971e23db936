package pubsub

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/radieske/dota2-scout/pkg/contracts/events"
)

// RedisBroadcaster avisa o scout-service (ws) que partidas de uma liga/time mudaram
type RedisBroadcaster struct {
	r       redis.Cmdable
	channel string
}

func NewRedisBroadcaster(r redis.Cmdable, channel string) *RedisBroadcaster {
	return &RedisBroadcaster{r: r, channel: channel}
}

func (b *RedisBroadcaster) PublishMatchesUpdated(ctx context.Context, e events.MatchIngested) error {
	payload, err := json.Marshal(events.MatchesUpdated{
		LeagueID: e.Match.LeagueID,
		TeamIDs:  e.TeamIDs(),
		MatchID:  e.Match.ID,
	})
	if err != nil {
		return err
	}
	return b.r.Publish(ctx, b.channel, payload).Err()
}
