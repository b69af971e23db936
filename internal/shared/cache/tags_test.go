package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestTagsInvalidate(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	ctx := context.Background()

	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}
	must(SetWithTags(ctx, rdb, "k:matches:1:100", []byte("a"), time.Minute, LeagueTag(1), TeamTag(100)))
	must(SetWithTags(ctx, rdb, "k:matches:1:200", []byte("b"), time.Minute, LeagueTag(1), TeamTag(200)))
	must(SetWithTags(ctx, rdb, "k:matches:2:300", []byte("c"), time.Minute, LeagueTag(2), TeamTag(300)))

	n, err := InvalidateTags(ctx, rdb, TeamTag(100))
	must(err)
	if n != 1 {
		t.Fatalf("removed = %d, want 1", n)
	}
	if mr.Exists("k:matches:1:100") {
		t.Fatal("team 100 key should be gone")
	}
	if !mr.Exists("k:matches:1:200") {
		t.Fatal("team 200 key should survive")
	}

	_, err = InvalidateTags(ctx, rdb, LeagueTag(1))
	must(err)
	if mr.Exists("k:matches:1:200") {
		t.Fatal("league 1 keys should be gone")
	}
	if !mr.Exists("k:matches:2:300") {
		t.Fatal("league 2 key should survive")
	}

	n, err = InvalidateTags(ctx, rdb, TeamTag(999))
	must(err)
	if n != 0 {
		t.Fatalf("unknown tag removed %d keys", n)
	}
}

func TestConnectRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	rdb, err := ConnectRedis(context.Background(), mr.Addr())
	if err != nil {
		t.Fatalf("ConnectRedis: %v", err)
	}
	_ = rdb.Close()

	// Addr() não pode ser chamado depois do Close
	addr := mr.Addr()
	mr.Close()
	if _, err := ConnectRedis(context.Background(), addr); err == nil {
		t.Fatal("expected error with redis down")
	}
}
