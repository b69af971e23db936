package stratz

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/radieske/dota2-scout/internal/scout/dto"
)

// stratzStub responde conforme a visão pedida nas variables
func stratzStub(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" || r.Header.Get("User-Agent") != "STRATZ_API" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		var body struct {
			Variables struct {
				SteamID int64          `json:"steamId"`
				Request GroupByRequest `json:"request"`
			} `json:"variables"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if body.Variables.SteamID == 404 {
			_, _ = w.Write([]byte(`{"errors":[{"message":"player not found"}]}`))
			return
		}

		req := body.Variables.Request
		var stats []HeroStat
		switch {
		case len(req.GameModeIDs) > 0:
			stats = []HeroStat{{HeroID: 1, MatchCount: 4, WinCount: 3, LastMatchDateTime: 1700000000}}
		case len(req.PositionIDs) > 0:
			for i := 1; i <= 12; i++ {
				stats = append(stats, HeroStat{HeroID: i, MatchCount: i, WinCount: i / 2})
			}
		default:
			stats = []HeroStat{{HeroID: 8, MatchCount: 50, WinCount: 30}, {HeroID: 9, MatchCount: 70, WinCount: 20}}
		}

		out := map[string]any{"data": map[string]any{"player": map[string]any{"heroesGroupBy": stats}}}
		_ = json.NewEncoder(w).Encode(out)
	}))
}

func TestRecentHeroesRequest(t *testing.T) {
	now := time.Unix(1700000000, 0)
	var got GroupByRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Query     string `json:"query"`
			Variables struct {
				Request GroupByRequest `json:"request"`
			} `json:"variables"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if !strings.Contains(body.Query, "matchesGroupBy") {
			t.Errorf("unexpected query: %s", body.Query)
		}
		got = body.Variables.Request
		_, _ = w.Write([]byte(`{"data":{"player":{"heroesGroupBy":[]}}}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	c.Now = func() time.Time { return now }

	if _, err := c.RecentHeroes(context.Background(), 1, []string{"POSITION_1"}); err != nil {
		t.Fatalf("RecentHeroes: %v", err)
	}
	if got.EndDateTime != now.Unix() || got.StartDateTime != now.Add(-90*24*time.Hour).Unix() {
		t.Errorf("window = %d..%d", got.StartDateTime, got.EndDateTime)
	}
	if len(got.GameModeIDs) != 3 || got.GroupBy != "HERO" || got.PlayerList != "SINGLE" {
		t.Errorf("request = %+v", got)
	}
}

func TestFetchPubStats(t *testing.T) {
	srv := stratzStub(t)
	defer srv.Close()

	c := New(srv.URL, "tok")
	rows, err := c.FetchPubStats(context.Background(), 77, []dto.Position{dto.Position1})
	if err != nil {
		t.Fatalf("FetchPubStats: %v", err)
	}

	g := dto.GroupPubStats(rows)
	if len(g.RecentMatches) != 1 || len(g.TopHeroesByPosition) != 10 || len(g.TopHeroesOverall) != 2 {
		t.Fatalf("grouped sizes = %d/%d/%d", len(g.RecentMatches), len(g.TopHeroesByPosition), len(g.TopHeroesOverall))
	}

	recent := g.RecentMatches[0]
	if recent.PlayerID != 77 || recent.Wins != 3 || recent.Losses != 1 {
		t.Errorf("recent = %+v", recent)
	}
	if recent.LastMatchDateTime == nil || recent.LastMatchDateTime.Unix() != 1700000000 {
		t.Errorf("last match = %v", recent.LastMatchDateTime)
	}
	if g.TopHeroesByPosition[0].HeroID != 12 {
		t.Errorf("top by position not sorted: %+v", g.TopHeroesByPosition[0])
	}
	if g.TopHeroesOverall[0].HeroID != 9 || g.TopHeroesOverall[0].LastMatchDateTime != nil {
		t.Errorf("top overall = %+v", g.TopHeroesOverall[0])
	}
}

func TestGraphQLErrors(t *testing.T) {
	srv := stratzStub(t)
	defer srv.Close()

	_, err := New(srv.URL, "tok").TopHeroes(context.Background(), 404)
	if err == nil || !strings.Contains(err.Error(), "player not found") {
		t.Fatalf("err = %v", err)
	}

	_, err = New(srv.URL, "wrong").TopHeroes(context.Background(), 1)
	if err == nil || !strings.Contains(err.Error(), "403") {
		t.Fatalf("err = %v", err)
	}
}

func TestTop(t *testing.T) {
	in := []HeroStat{{HeroID: 5, MatchCount: 2}, {HeroID: 3, MatchCount: 2}, {HeroID: 1, MatchCount: 9}}
	got := Top(in, 2)
	if len(got) != 2 || got[0].HeroID != 1 || got[1].HeroID != 3 {
		t.Fatalf("top = %+v", got)
	}
	if in[0].HeroID != 5 {
		t.Fatal("input was reordered")
	}
}

func TestPositionIDs(t *testing.T) {
	got := PositionIDs([]dto.Position{dto.Position4, dto.Uncategorized, dto.Position5})
	if len(got) != 2 || got[0] != "POSITION_4" || got[1] != "POSITION_5" {
		t.Fatalf("got %v", got)
	}
	if PositionIDs(nil) != nil {
		t.Fatal("expected nil for no positions")
	}
}
