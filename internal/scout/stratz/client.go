package stratz

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// heroesQuery agrupa as partidas do jogador por herói
const heroesQuery = `query PlayerHeroes($steamId: Long!, $request: PlayerMatchesGroupByRequestType!) {
  player(steamAccountId: $steamId) {
    steamAccountId
    matchCount
    heroesGroupBy: matchesGroupBy(request: $request) {
      ... on MatchGroupByHeroType {
        heroId
        matchCount
        winCount
        avgGoldPerMinute
        avgExperiencePerMinute
        lastMatchDateTime
        avgKills
        avgDeaths
        avgAssists
      }
    }
  }
}`

// Janela das partidas recentes (3 meses de 30 dias)
const recentWindow = 90 * 24 * time.Hour

// Modos considerados nas recentes: all pick, ranked all pick, captains mode
var recentGameModes = []int{1, 22, 2}

// HeroStat é uma linha do group-by por herói
type HeroStat struct {
	HeroID            int     `json:"heroId"`
	MatchCount        int     `json:"matchCount"`
	WinCount          int     `json:"winCount"`
	AvgGoldPerMinute  float64 `json:"avgGoldPerMinute"`
	AvgXPPerMinute    float64 `json:"avgExperiencePerMinute"`
	LastMatchDateTime int64   `json:"lastMatchDateTime"` // unix (s)
	AvgKills          float64 `json:"avgKills"`
	AvgDeaths         float64 `json:"avgDeaths"`
	AvgAssists        float64 `json:"avgAssists"`
}

// GroupByRequest espelha PlayerMatchesGroupByRequestType
type GroupByRequest struct {
	PositionIDs   []string `json:"positionIds,omitempty"`
	GameModeIDs   []int    `json:"gameModeIds,omitempty"`
	StartDateTime int64    `json:"startDateTime,omitempty"`
	EndDateTime   int64    `json:"endDateTime,omitempty"`
	GroupBy       string   `json:"groupBy"`
	PlayerList    string   `json:"playerList"`
	Skip          int      `json:"skip"`
	Take          int      `json:"take"`
}

type Client struct {
	URL   string
	Token string
	HTTP  *http.Client
	// Now permite fixar o relógio nos testes
	Now func() time.Time
}

func New(url, token string) *Client {
	return &Client{
		URL:   url,
		Token: token,
		HTTP:  &http.Client{Timeout: 20 * time.Second},
		Now:   time.Now,
	}
}

type gqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type gqlResponse struct {
	Data *struct {
		Player *struct {
			HeroesGroupBy []HeroStat `json:"heroesGroupBy"`
		} `json:"player"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

func baseRequest(positions []string) GroupByRequest {
	return GroupByRequest{PositionIDs: positions, GroupBy: "HERO", PlayerList: "SINGLE", Take: 10000}
}

// RecentHeroes devolve os heróis jogados nos últimos 3 meses nas posições informadas
func (c *Client) RecentHeroes(ctx context.Context, steamID int64, positions []string) ([]HeroStat, error) {
	now := c.Now()
	req := baseRequest(positions)
	req.GameModeIDs = recentGameModes
	req.StartDateTime = now.Add(-recentWindow).Unix()
	req.EndDateTime = now.Unix()
	return c.HeroesGroupBy(ctx, steamID, req)
}

// TopHeroesByPosition devolve os 10 heróis mais jogados nas posições informadas
func (c *Client) TopHeroesByPosition(ctx context.Context, steamID int64, positions []string) ([]HeroStat, error) {
	stats, err := c.HeroesGroupBy(ctx, steamID, baseRequest(positions))
	if err != nil {
		return nil, err
	}
	return Top(stats, 10), nil
}

// TopHeroes devolve os 10 heróis mais jogados em qualquer posição
func (c *Client) TopHeroes(ctx context.Context, steamID int64) ([]HeroStat, error) {
	stats, err := c.HeroesGroupBy(ctx, steamID, baseRequest(nil))
	if err != nil {
		return nil, err
	}
	return Top(stats, 10), nil
}

// HeroesGroupBy executa a query de group-by por herói
func (c *Client) HeroesGroupBy(ctx context.Context, steamID int64, req GroupByRequest) ([]HeroStat, error) {
	body, err := json.Marshal(gqlRequest{
		Query:     heroesQuery,
		Variables: map[string]any{"steamId": steamID, "request": req},
	})
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("User-Agent", "STRATZ_API")
	if c.Token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTP.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("stratz request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("stratz returned %d", resp.StatusCode)
	}

	var out gqlResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode stratz response: %w", err)
	}
	if len(out.Errors) > 0 {
		msgs := make([]string, 0, len(out.Errors))
		for _, e := range out.Errors {
			msgs = append(msgs, e.Message)
		}
		return nil, fmt.Errorf("stratz graphql: %s", strings.Join(msgs, ", "))
	}
	if out.Data == nil || out.Data.Player == nil {
		return nil, nil
	}
	return out.Data.Player.HeroesGroupBy, nil
}
